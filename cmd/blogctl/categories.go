// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"blogpress/internal/listview"
	"blogpress/internal/output"
)

func newCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "List and manage categories",
	}
	cmd.AddCommand(
		newCategoriesListCmd(a),
		newCategoriesCreateCmd(a),
		newCategoriesRenameCmd(a),
		newCategoriesDeleteCmd(a),
	)
	return cmd
}

func newCategoriesListCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories with search, sort and paging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := f.state()
			if err != nil {
				return err
			}
			cats, err := a.api.ListCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch categories: %w", err)
			}

			res := listview.Apply(cats, state)
			a.printer.Header("カテゴリ一覧")
			if len(res.Items) == 0 {
				a.printer.Info("no categories")
			} else {
				tbl := output.NewTable(a.printer.Out(), "ID", "Name", "Created")
				for _, c := range res.Items {
					tbl.AddRow(c.ID.String(), c.Name, c.CreatedAt.Local().Format(dateLayout))
				}
				if err := tbl.Render(); err != nil {
					return err
				}
			}
			a.printer.Pager(res.Page, res.TotalPages, res.Matched)
			return nil
		},
	}
	f.register(cmd, false)
	return cmd
}

func newCategoriesCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a category (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.api.CreateCategory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printer.Success("created %s (%s)", c.Name, c.ID)
			return nil
		},
	}
}

func newCategoriesRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a category (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.api.RenameCategory(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			a.printer.Success("renamed to %s", c.Name)
			return nil
		},
	}
}

func newCategoriesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category (admin); its posts are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			msg, err := a.api.DeleteCategory(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.printer.Success("%s", msg)
			return nil
		},
	}
}
