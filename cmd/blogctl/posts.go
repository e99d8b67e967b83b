// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"blogpress/internal/client"
	"blogpress/internal/listview"
	"blogpress/internal/models"
	"blogpress/internal/output"
)

const dateLayout = "2006-01-02 15:04"

func newPostsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List, read and like posts",
	}
	cmd.AddCommand(newPostsListCmd(a), newPostsShowCmd(a), newLikeCmd(a, models.SubjectPost), newUnlikeCmd(a, models.SubjectPost))
	return cmd
}

func newPostsListCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts with search, sort and paging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := f.state()
			if err != nil {
				return err
			}
			posts, err := a.api.ListPosts(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch posts: %w", err)
			}

			res := listview.Apply(posts, state)
			a.printer.Header("記事一覧")
			if len(res.Items) == 0 {
				a.printer.Info("no posts")
				a.printer.Pager(res.Page, res.TotalPages, res.Matched)
				return nil
			}

			tbl := output.NewTable(a.printer.Out(), "ID", "Title", "Categories", "Likes", "Created")
			for _, p := range res.Items {
				tbl.AddRow(p.ID.String(), output.Truncate(p.Title, 40), strings.Join(p.Tags(), ", "),
					strconv.Itoa(p.LikeCount), p.CreatedAt.Local().Format(dateLayout))
			}
			if err := tbl.Render(); err != nil {
				return err
			}
			a.printer.Pager(res.Page, res.TotalPages, res.Matched)
			return nil
		},
	}
	f.register(cmd, true)
	return cmd
}

func newPostsShowCmd(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a post with its like status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.api.GetPost(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("fetch post: %w", err)
			}
			st, err := a.api.LikeStatus(cmd.Context(), models.PostSubject(id))
			if err != nil {
				return fmt.Errorf("fetch like status: %w", err)
			}

			a.printer.Header(p.Title)
			w := a.printer.Out()
			fmt.Fprintf(w, "%s  %s %d\n", p.CreatedAt.Local().Format(dateLayout), a.printer.Liked(st.Liked), st.Count)
			if tags := p.Tags(); len(tags) > 0 {
				fmt.Fprintf(w, "categories: %s\n", strings.Join(tags, ", "))
			}
			if p.CoverImageURL != "" {
				fmt.Fprintf(w, "cover: %s\n", p.CoverImageURL)
			}
			body := a.sanitizer.Plain(p.SafeContent)
			if raw {
				body = p.Content
			}
			fmt.Fprintf(w, "\n%s\n", body)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the stored body instead of the sanitized text")
	return cmd
}

// newLikeCmd likes a post or comment. The count shown afterwards is
// fetched again from the server rather than computed locally.
func newLikeCmd(a *app, kind models.SubjectKind) *cobra.Command {
	return &cobra.Command{
		Use:   "like <id>",
		Short: "Like a " + string(kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			subject := models.Subject{Kind: kind, ID: id}

			err = a.api.Like(cmd.Context(), subject)
			var apiErr *client.APIError
			switch {
			case err == nil:
				a.printer.Success("liked %s", subject)
			case errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest:
				a.printer.Warning("%s", apiErr.Message)
			default:
				return err
			}
			return a.showLikes(cmd, subject)
		},
	}
}

func newUnlikeCmd(a *app, kind models.SubjectKind) *cobra.Command {
	return &cobra.Command{
		Use:   "unlike <id>",
		Short: "Withdraw a like from a " + string(kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			subject := models.Subject{Kind: kind, ID: id}
			if err := a.api.Unlike(cmd.Context(), subject); err != nil {
				return err
			}
			a.printer.Success("unliked %s", subject)
			return a.showLikes(cmd, subject)
		},
	}
}

func (a *app) showLikes(cmd *cobra.Command, s models.Subject) error {
	st, err := a.api.LikeStatus(cmd.Context(), s)
	if err != nil {
		return fmt.Errorf("fetch like status: %w", err)
	}
	a.printer.Info("%s %d", a.printer.Liked(st.Liked), st.Count)
	return nil
}
