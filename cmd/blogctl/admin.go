// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"blogpress/internal/client"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Sign in as an admin and remember the token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := a.api.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			a.printer.Success("signed in until %s", tok.ExpiresAt.Local().Format(dateLayout))
			return nil
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the admin token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.api.SetToken("")
			a.printer.Success("signed out")
			return nil
		},
	}
}

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage posts and cover images",
	}

	posts := &cobra.Command{
		Use:   "posts",
		Short: "Create, update and delete posts",
	}
	posts.AddCommand(newAdminPostCreateCmd(a), newAdminPostUpdateCmd(a), newAdminPostDeleteCmd(a))

	cmd.AddCommand(posts, newAdminUploadCmd(a), newWhoamiCmd(a))
	return cmd
}

// postFlags are the fields of post create and update.
type postFlags struct {
	title      string
	content    string
	file       string
	cover      string
	categories []string
}

func (f *postFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "post title")
	cmd.Flags().StringVar(&f.content, "content", "", "post body")
	cmd.Flags().StringVar(&f.file, "content-file", "", "read the post body from a file")
	cmd.Flags().StringVar(&f.cover, "cover", "", "cover image key from \"admin upload\"")
	cmd.Flags().StringSliceVar(&f.categories, "category", nil, "category id (repeatable)")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")
}

func (f *postFlags) input() (client.PostInput, error) {
	in := client.PostInput{Title: f.title, Content: f.content, CategoryIDs: []uuid.UUID{}}
	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return in, fmt.Errorf("read content: %w", err)
		}
		in.Content = string(data)
	}
	if f.cover != "" {
		in.CoverImageKey = &f.cover
	}
	for _, c := range f.categories {
		id, err := parseID(c)
		if err != nil {
			return in, err
		}
		in.CategoryIDs = append(in.CategoryIDs, id)
	}
	return in, nil
}

func newAdminPostCreateCmd(a *app) *cobra.Command {
	var f postFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := f.input()
			if err != nil {
				return err
			}
			p, err := a.api.CreatePost(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.printer.Success("created %s", p.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newAdminPostUpdateCmd(a *app) *cobra.Command {
	var f postFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a post's fields and categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			in, err := f.input()
			if err != nil {
				return err
			}
			msg, err := a.api.UpdatePost(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			a.printer.Success("%s", msg)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newAdminPostDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			msg, err := a.api.DeletePost(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.printer.Success("%s", msg)
			return nil
		},
	}
}

func newAdminUploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a cover image and print its key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			up, err := a.api.UploadCover(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			a.printer.Success("uploaded")
			fmt.Fprintf(a.printer.Out(), "key: %s\n", up.Key)
			if up.URL != "" {
				fmt.Fprintf(a.printer.Out(), "url: %s\n", up.URL)
			}
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.api.Me(cmd.Context())
			if err != nil {
				return err
			}
			a.printer.Info("%s (%s)", u.Email, u.ID)
			return nil
		},
	}
}
