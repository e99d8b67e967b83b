// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sanitize cleans user-supplied HTML before it is rendered.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// InlineTags are the only elements that survive Inline.
var InlineTags = []string{"b", "strong", "i", "em", "u", "br"}

// Sanitizer holds compiled bluemonday policies. Policies are safe for
// concurrent use once built, so one Sanitizer serves the whole process.
type Sanitizer struct {
	inline *bluemonday.Policy
	strict *bluemonday.Policy
}

// New builds a Sanitizer.
func New() *Sanitizer {
	inline := bluemonday.NewPolicy()
	inline.AllowElements(InlineTags...)

	return &Sanitizer{
		inline: inline,
		strict: bluemonday.StrictPolicy(),
	}
}

// Inline keeps basic inline formatting and drops every other tag and all
// attributes. Text content of dropped tags is kept; script and style
// bodies are removed entirely.
func (s *Sanitizer) Inline(body string) string {
	return s.inline.Sanitize(body)
}

// Plain strips all markup, turns <br> into newlines and returns unescaped
// text suitable for a terminal.
func (s *Sanitizer) Plain(body string) string {
	body = brReplacer.Replace(body)
	return strings.TrimSpace(html.UnescapeString(s.strict.Sanitize(body)))
}

var brReplacer = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n", "<BR>", "\n")
