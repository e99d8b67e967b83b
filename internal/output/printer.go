// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package output formats blogctl results for the terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Printer writes status lines to out and problems to err.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// UseColors decides whether to colorize: NO_COLOR and TERM=dumb turn it off.
func UseColors(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// NewPrinter creates a printer on stdout and stderr.
func NewPrinter(useColors bool) *Printer {
	return NewPrinterWithWriters(os.Stdout, os.Stderr, useColors)
}

// NewPrinterWithWriters creates a printer on the given writers.
func NewPrinterWithWriters(out, errOut io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: errOut, useColors: useColors}
}

// Out is the writer for regular output such as tables.
func (p *Printer) Out() io.Writer {
	return p.out
}

// Info prints an informational message.
func (p *Printer) Info(format string, args ...any) {
	if p.useColors {
		color.New(color.FgCyan).Fprintf(p.out, format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Success prints a success message.
func (p *Printer) Success(format string, args ...any) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
}

// Warning prints a warning message.
func (p *Printer) Warning(format string, args ...any) {
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
}

// Error prints an error message.
func (p *Printer) Error(format string, args ...any) {
	if p.useColors {
		color.New(color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
}

// Header prints a title with an underline.
func (p *Printer) Header(title string) {
	line := strings.Repeat("─", max(utf8.RuneCountInString(title), 1))
	if p.useColors {
		color.New(color.Bold).Fprintf(p.out, "\n%s\n", title)
		color.New(color.Faint).Fprintf(p.out, "%s\n", line)
		return
	}
	fmt.Fprintf(p.out, "\n%s\n%s\n", title, line)
}

// Pager prints "page X/Y (N matched)".
func (p *Printer) Pager(page, totalPages, matched int) {
	msg := fmt.Sprintf("page %d/%d (%d matched)", page, max(totalPages, 1), matched)
	if p.useColors {
		color.New(color.Faint).Fprintln(p.out, msg)
		return
	}
	fmt.Fprintln(p.out, msg)
}

// Liked renders a like marker.
func (p *Printer) Liked(liked bool) string {
	switch {
	case liked && p.useColors:
		return color.RedString("♥")
	case liked:
		return "♥"
	default:
		return "♡"
	}
}

// Truncate shortens s to n runes with an ellipsis.
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:max(n-1, 0)]) + "…"
}
