// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"blogpress/internal/models"
	"blogpress/internal/output"
)

func newCommentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read, write and like comments",
	}
	cmd.AddCommand(
		newCommentsListCmd(a),
		newCommentsAddCmd(a),
		newLikeCmd(a, models.SubjectComment),
		newUnlikeCmd(a, models.SubjectComment),
	)
	return cmd
}

func newCommentsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <postId>",
		Short: "List the comments of a post, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parseID(args[0])
			if err != nil {
				return err
			}
			comments, err := a.api.ListComments(cmd.Context(), postID)
			if err != nil {
				return fmt.Errorf("fetch comments: %w", err)
			}
			if len(comments) == 0 {
				a.printer.Info("no comments")
				return nil
			}

			tbl := output.NewTable(a.printer.Out(), "ID", "Comment", "Likes", "", "Created")
			for _, c := range comments {
				tbl.AddRow(c.ID.String(), output.Truncate(c.Content, 50), strconv.Itoa(c.LikeCount),
					a.printer.Liked(c.LikedByMe), c.CreatedAt.Local().Format(dateLayout))
			}
			return tbl.Render()
		},
	}
}

func newCommentsAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <postId> <text>",
		Short: "Comment on a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.api.AddComment(cmd.Context(), postID, args[1])
			if err != nil {
				return err
			}
			a.printer.Success("comment %s added", c.ID)
			return nil
		},
	}
}
