package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chris-regnier/devjournal/internal/entry"
)

// Sentinel errors for storage operations.
var (
	ErrNotFound   = errors.New("entry not found")
	ErrConflict   = errors.New("entry already exists")
	ErrStorage    = errors.New("storage error")
	ErrValidation = errors.New("validation error")
)

// ListOptions controls filtering for List operations. Results are always
// ordered by created_at descending, then id descending.
type ListOptions struct {
	Project string // exact match; "" = all projects
	Limit   int    // 0 = no limit
}

// ProjectCount is the number of entries recorded for one project.
type ProjectCount struct {
	Project string `json:"project" yaml:"project"`
	Count   int    `json:"count" yaml:"count"`
}

// Stats summarizes the whole journal.
type Stats struct {
	TotalEntries  int            `json:"total_entries"`
	TotalProjects int            `json:"total_projects"`
	FirstEntry    *time.Time     `json:"first_entry,omitempty"`
	LastEntry     *time.Time     `json:"last_entry,omitempty"`
	Projects      []ProjectCount `json:"entries_per_project"`
}

// Storage defines the interface for journal entry persistence.
type Storage interface {
	// Create validates and persists e. A zero ID is replaced by the next free
	// ID and a zero CreatedAt by the current time. The stored entry is
	// returned.
	Create(e entry.Entry) (entry.Entry, error)
	Get(id int64) (entry.Entry, error)
	List(opts ListOptions) ([]entry.Entry, error)
	Delete(id int64) error
	DeleteByProject(project string) (int, error)
	Projects() ([]ProjectCount, error)
	Stats() (Stats, error)
	Close() error
}

// Less orders entries newest first, breaking created_at ties by descending
// ID. Backends use it so every List agrees on ordering.
func Less(a, b entry.Entry) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// SortProjects orders counts by descending count, then by name.
func SortProjects(counts []ProjectCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Project < counts[j].Project
	})
}

// Prepare trims and validates e and fills in CreatedAt when it is zero. Backends call
// it before assigning an ID.
func Prepare(e entry.Entry, now time.Time) (entry.Entry, error) {
	e.Title = strings.TrimSpace(e.Title)
	e.Description = strings.TrimSpace(e.Description)
	e.Project = strings.TrimSpace(e.Project)
	e.Tags = entry.NormalizeTags(e.Tags)
	if err := entry.Validate(e); err != nil {
		return entry.Entry{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if e.ID < 0 {
		return entry.Entry{}, fmt.Errorf("%w: id must not be negative", ErrValidation)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}
