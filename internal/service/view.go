package service

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/BuzzLyutic/todo-tasks/internal/model"
)

// View filters by status, then searches, then stable-sorts a copy of tasks.
// The input slice is left untouched.
func View(tasks []model.Task, opts model.ViewOptions) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	query := strings.ToLower(strings.TrimSpace(opts.Query))

	for _, t := range tasks {
		if opts.Filter != "" && opts.Filter != model.FilterAll && string(t.Status) != string(opts.Filter) {
			continue
		}
		if query != "" && !matches(t, query) {
			continue
		}
		out = append(out, t)
	}

	slices.SortStableFunc(out, comparator(opts))
	return out
}

// matches expects query to be lowercased already.
func matches(t model.Task, query string) bool {
	if strings.Contains(strings.ToLower(t.Title), query) {
		return true
	}
	if t.Description != "" && strings.Contains(strings.ToLower(t.Description), query) {
		return true
	}
	return slices.ContainsFunc(t.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), query)
	})
}

func comparator(opts model.ViewOptions) func(a, b model.Task) int {
	switch opts.SortBy {
	case model.SortTitle:
		// a Collator keeps scratch buffers, so each view gets its own
		col := collate.New(localeTag(opts.Locale))
		return func(a, b model.Task) int {
			return col.CompareString(a.Title, b.Title)
		}
	case model.SortUpdatedAt:
		return func(a, b model.Task) int {
			return b.UpdatedAt.Compare(a.UpdatedAt)
		}
	case model.SortPriority:
		return func(a, b model.Task) int {
			return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
		}
	default:
		return func(a, b model.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}
}

func localeTag(locale string) language.Tag {
	if locale == "" {
		return language.Und
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und
	}
	return tag
}
