// Package journal connects the storage layer to the query engine. Every
// operation takes a full snapshot from the store and lets the query package
// filter and order it.
package journal

import (
	"time"

	"github.com/chris-regnier/devjournal/internal/entry"
	"github.com/chris-regnier/devjournal/internal/query"
	"github.com/chris-regnier/devjournal/internal/storage"
	"github.com/chris-regnier/devjournal/internal/timeexpr"
)

// Result is the outcome of a query: the filter that was applied and the
// matching entries, newest first.
type Result struct {
	Filter  query.Filter
	Entries []entry.Entry
}

// Search parses raw against now, scopes it to project when non-empty and
// runs it over every stored entry.
func Search(store storage.Storage, raw, project string, limit int, now time.Time) (Result, error) {
	f, err := query.Parse(raw, now)
	if err != nil {
		return Result{}, err
	}
	f.Project = project
	return run(store, f, limit)
}

// TimeQuery resolves expr into a range and combines it with the free-text
// filter text. Time phrases inside text are treated as keywords.
func TimeQuery(store storage.Storage, expr, text, project string, limit int, now time.Time) (Result, error) {
	r, err := timeexpr.Resolve(expr, now)
	if err != nil {
		return Result{}, err
	}
	f, err := query.ParseText(text)
	if err != nil {
		return Result{}, err
	}
	f.TimeRange = &r
	f.Project = project
	return run(store, f, limit)
}

// Recent returns the newest entries, optionally scoped to project.
func Recent(store storage.Storage, project string, limit int) ([]entry.Entry, error) {
	return store.List(storage.ListOptions{Project: project, Limit: limit})
}

// Limit returns requested when positive and fallback otherwise.
func Limit(requested, fallback int) int {
	if requested > 0 {
		return requested
	}
	return fallback
}

func run(store storage.Storage, f query.Filter, limit int) (Result, error) {
	snapshot, err := store.List(storage.ListOptions{})
	if err != nil {
		return Result{}, err
	}
	return Result{Filter: f, Entries: query.Execute(f, snapshot, limit)}, nil
}
