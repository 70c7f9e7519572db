package entry

import (
	"fmt"
	"strings"
	"time"
)

// AutoCaptureTag marks entries recorded by the periodic capture hook.
const AutoCaptureTag = "auto-capture"

// Entry represents a single journal entry.
type Entry struct {
	ID          int64     `json:"id" yaml:"id"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	Project     string    `json:"project,omitempty" yaml:"project,omitempty"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// New builds a validated entry. ID and CreatedAt are left for the store to assign.
func New(title, description, project string, tags []string) (Entry, error) {
	e := Entry{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Project:     strings.TrimSpace(project),
		Tags:        NormalizeTags(tags),
	}
	if err := Validate(e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks the fields every stored entry must satisfy.
func Validate(e Entry) error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("entry title must not be empty")
	}
	if strings.TrimSpace(e.Description) == "" {
		return fmt.Errorf("entry description must not be empty")
	}
	for _, tag := range e.Tags {
		if err := ValidateTag(tag); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTag rejects tags that cannot round-trip through storage.
func ValidateTag(tag string) error {
	if strings.TrimSpace(tag) == "" {
		return fmt.Errorf("tag must not be empty")
	}
	if strings.ContainsAny(tag, ",\n") {
		return fmt.Errorf("invalid tag %q: must not contain commas or newlines", tag)
	}
	return nil
}

// NormalizeTags trims tags, drops blanks and removes case-insensitive duplicates,
// keeping the first spelling seen.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// HasTag reports whether the entry carries tag, ignoring case.
func (e *Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Preview returns a truncated single-line preview of the description.
func (e *Entry) Preview(maxLen int) string {
	content := strings.ReplaceAll(e.Description, "\n", " ")
	if len(content) <= maxLen {
		return content
	}
	return content[:maxLen-3] + "..."
}
