// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package listview holds the search, sort and pagination state of a list
// screen and the pure functions that derive the visible page from the full
// fetched collection. Nothing here talks to the server: the state is a
// plain value, every reducer returns a new State, and Apply recomputes the
// page from scratch on each call.
package listview

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultPerPage is the page size of the post list.
const DefaultPerPage = 6

// Field selects what the search term is matched against.
type Field string

const (
	FieldTitle    Field = "title"
	FieldCategory Field = "category"
)

// SortKey selects the ordering of the filtered entries.
type SortKey string

const (
	SortNewest  SortKey = "new"
	SortOldest  SortKey = "old"
	SortLexical SortKey = "title"
)

// ParseField accepts "title" (or "name") and "category".
func ParseField(s string) (Field, error) {
	switch strings.ToLower(s) {
	case "title", "name":
		return FieldTitle, nil
	case "category":
		return FieldCategory, nil
	}
	return "", fmt.Errorf("unknown search field %q", s)
}

// ParseSort accepts "new", "old" and "title" (or "name").
func ParseSort(s string) (SortKey, error) {
	switch strings.ToLower(s) {
	case "new", "newest":
		return SortNewest, nil
	case "old", "oldest":
		return SortOldest, nil
	case "title", "name":
		return SortLexical, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Entry is an item of a list screen.
type Entry interface {
	// Label is matched by FieldTitle and ordered by SortLexical.
	Label() string
	// Tags are matched by FieldCategory.
	Tags() []string
	Created() time.Time
}

// State is the serializable view state of a list screen.
type State struct {
	Search  string  `json:"search"`
	Field   Field   `json:"field"`
	Sort    SortKey `json:"sort"`
	Page    int     `json:"page"`
	PerPage int     `json:"perPage"`
}

// New returns the initial state: no search, newest first, page 1.
func New(perPage int) State {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return State{Field: FieldTitle, Sort: SortNewest, Page: 1, PerPage: perPage}
}

// SetSearch changes the search term and returns to page 1.
func (s State) SetSearch(term string) State {
	s.Search = term
	s.Page = 1
	return s
}

// SetField changes the search field and returns to page 1.
func (s State) SetField(f Field) State {
	s.Field = f
	s.Page = 1
	return s
}

// SetSort changes the ordering and returns to page 1.
func (s State) SetSort(k SortKey) State {
	s.Sort = k
	s.Page = 1
	return s
}

// GoTo moves to page n. Pages below 1 become 1.
func (s State) GoTo(n int) State {
	s.Page = max(n, 1)
	return s
}

// Result is the visible slice of a list plus what a pager needs.
type Result[E Entry] struct {
	Items      []E
	Page       int
	TotalPages int
	Matched    int
}

// Apply filters, sorts and paginates items according to s. items is not
// modified.
func Apply[E Entry](items []E, s State) Result[E] {
	sorted := Sort(Filter(items, s.Field, s.Search), s.Sort)

	per := s.PerPage
	if per <= 0 {
		per = DefaultPerPage
	}
	page := max(s.Page, 1)
	total := (len(sorted) + per - 1) / per

	start := min((page-1)*per, len(sorted))
	end := min(start+per, len(sorted))

	return Result[E]{
		Items:      sorted[start:end],
		Page:       page,
		TotalPages: total,
		Matched:    len(sorted),
	}
}

// Filter keeps the entries whose field contains term, ignoring case. An
// empty term keeps everything.
func Filter[E Entry](items []E, field Field, term string) []E {
	out := make([]E, 0, len(items))
	keyword := strings.ToLower(term)
	for _, it := range items {
		if keyword == "" || matches(it, field, keyword) {
			out = append(out, it)
		}
	}
	return out
}

func matches(e Entry, field Field, keyword string) bool {
	if field == FieldCategory {
		for _, tag := range e.Tags() {
			if strings.Contains(strings.ToLower(tag), keyword) {
				return true
			}
		}
		return false
	}
	return strings.Contains(strings.ToLower(e.Label()), keyword)
}

// Sort returns a sorted copy of items. Lexical order follows Japanese
// collation; ties keep their input order.
func Sort[E Entry](items []E, key SortKey) []E {
	out := make([]E, len(items))
	copy(out, items)

	switch key {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Created().After(out[j].Created()) })
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Created().Before(out[j].Created()) })
	case SortLexical:
		c := collate.New(language.Japanese)
		sort.SliceStable(out, func(i, j int) bool { return c.CompareString(out[i].Label(), out[j].Label()) < 0 })
	}
	return out
}
