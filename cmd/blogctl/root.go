// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"blogpress/internal/client"
	"blogpress/internal/listview"
	"blogpress/internal/output"
	"blogpress/internal/sanitize"
)

const defaultServer = "http://localhost:8080"

// app is the state shared by all commands of one invocation.
type app struct {
	server    string
	statePath string
	verbose   bool
	noColor   bool

	out    io.Writer
	errOut io.Writer

	state     client.State
	api       *client.Client
	printer   *output.Printer
	logger    *slog.Logger
	sanitizer *sanitize.Sanitizer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, sanitizer: sanitize.New()}

	root := &cobra.Command{
		Use:   "blogctl",
		Short: "Browse and manage a blogpress site",
		Long: `blogctl talks to the blogpress API.

Visitors can list, search and like posts and comments. The visitor id the
server assigns is kept in the state file, so likes stay attributed to the
same visitor across runs. Admin commands need "blogctl login" first.

Example usage:
  blogctl posts list --search go --sort old
  blogctl posts list --by category --search 技術 --page 2
  blogctl posts like <id>
  blogctl login admin@blogpress.local admin
  blogctl categories create 旅行`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.save()
		},
	}

	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.server, "server", "", "API base URL (default $BLOGPRESS_URL, the saved server, or "+defaultServer+")")
	flags.StringVar(&a.statePath, "state", "", "state file (default "+client.DefaultStatePath()+")")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newPostsCmd(a),
		newCommentsCmd(a),
		newCategoriesCmd(a),
		newAdminCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
	)
	return root
}

// init loads the state file and builds the API client.
func (a *app) init() error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
	a.printer = output.NewPrinterWithWriters(a.out, a.errOut, output.UseColors(a.noColor))

	if a.statePath == "" {
		a.statePath = client.DefaultStatePath()
	}
	state, err := client.LoadState(a.statePath)
	if err != nil {
		return err
	}
	a.state = state

	server := firstNonEmpty(a.server, os.Getenv("BLOGPRESS_URL"), state.BaseURL, defaultServer)
	// A token issued by one server means nothing to another.
	if state.BaseURL != "" && server != state.BaseURL {
		a.state.Token = ""
		a.state.VisitorID = ""
	}
	a.state.BaseURL = server

	a.api, err = client.New(client.Options{
		BaseURL:   server,
		Token:     a.state.Token,
		VisitorID: a.state.VisitorID,
	})
	if err != nil {
		return err
	}
	a.logger.Debug("client ready", "server", server, "state", a.statePath, "visitor", a.state.VisitorID != "")
	return nil
}

// save persists the visitor id and token for the next run.
func (a *app) save() error {
	if a.api == nil {
		return nil
	}
	if id := a.api.VisitorID(); id != "" {
		a.state.VisitorID = id
	}
	a.state.Token = a.api.Token()
	return a.state.Save(a.statePath)
}

// listFlags are the search, sort and page flags of the list commands.
type listFlags struct {
	search string
	field  string
	sort   string
	page   int
	per    int
}

func (f *listFlags) register(cmd *cobra.Command, withField bool) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "case-insensitive substring to search for")
	if withField {
		cmd.Flags().StringVar(&f.field, "by", "title", "search field: title or category")
	}
	cmd.Flags().StringVar(&f.sort, "sort", "new", "sort order: new, old or "+lexicalName(withField))
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "page number")
	cmd.Flags().IntVar(&f.per, "per-page", listview.DefaultPerPage, "entries per page")
}

func lexicalName(posts bool) string {
	if posts {
		return "title"
	}
	return "name"
}

// state runs the flags through the reducers in the order a user would set
// them, so the page is applied last.
func (f *listFlags) state() (listview.State, error) {
	s := listview.New(f.per)
	if f.field != "" {
		field, err := listview.ParseField(f.field)
		if err != nil {
			return s, err
		}
		s = s.SetField(field)
	}
	key, err := listview.ParseSort(f.sort)
	if err != nil {
		return s, err
	}
	return s.SetSearch(f.search).SetSort(key).GoTo(f.page), nil
}

func parseID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
