package query

import (
	"sort"
	"strings"

	"github.com/chris-regnier/devjournal/internal/entry"
)

// Execute evaluates f against entries and returns the matches ordered by
// creation time, newest first, with ties broken by descending ID. The result
// is truncated to limit after ordering; limit <= 0 means no truncation.
// entries is never modified.
func Execute(f Filter, entries []entry.Entry, limit int) []entry.Entry {
	matches := make([]entry.Entry, 0)

	if f.ID != nil {
		for _, e := range entries {
			if e.ID == *f.ID {
				matches = append(matches, e)
				break
			}
		}
		return truncate(matches, limit)
	}

	m := newMatcher(f)
	for _, e := range entries {
		if m.match(e) {
			matches = append(matches, e)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	return truncate(matches, limit)
}

func truncate(entries []entry.Entry, limit int) []entry.Entry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

// matcher holds the lowercased needles of a filter so each entry is only
// lowercased once per evaluation.
type matcher struct {
	f        Filter
	phrases  []string
	keywords []string
	tags     []string
}

func newMatcher(f Filter) matcher {
	return matcher{
		f:        f,
		phrases:  lowerAll(f.Phrases),
		keywords: lowerAll(f.Keywords),
		tags:     lowerAll(f.Tags),
	}
}

func (m matcher) match(e entry.Entry) bool {
	if m.f.Project != "" && e.Project != m.f.Project {
		return false
	}
	if m.f.TimeRange != nil && !m.f.TimeRange.Contains(e.CreatedAt) {
		return false
	}
	for _, tag := range m.tags {
		if !e.HasTag(tag) {
			return false
		}
	}

	if len(m.phrases) == 0 && len(m.keywords) == 0 {
		return true
	}

	title := strings.ToLower(e.Title)
	description := strings.ToLower(e.Description)
	for _, p := range m.phrases {
		if !strings.Contains(title, p) && !strings.Contains(description, p) {
			return false
		}
	}

	tags := lowerAll(e.Tags)
	for _, k := range m.keywords {
		if strings.Contains(title, k) || strings.Contains(description, k) || anyContains(tags, k) {
			continue
		}
		return false
	}
	return true
}

func anyContains(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.Contains(h, needle) {
			return true
		}
	}
	return false
}

func lowerAll(ss []string) []string {
	if len(ss) == 0 {
		return nil
	}
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}
