// Package query parses the journal search mini-language into a Filter and
// evaluates filters against entry snapshots.
//
// Supported syntax, in precedence order:
//
//	42, id:42          exclusive ID lookup
//	"login error"      exact phrase (title or description)
//	tag:bugfix, #auth  required tag
//	last 3 days        one embedded time phrase (see package timeexpr)
//	anything else      keyword (title, description or tags)
package query

import (
	"fmt"
	"strings"

	"github.com/chris-regnier/devjournal/internal/timeexpr"
)

// Filter is the parsed form of a search query. The zero Filter matches every
// entry.
type Filter struct {
	// ID, when set, is the only predicate the executor considers.
	ID *int64

	// Project is an exact match supplied by the caller, never parsed.
	Project string

	TimeRange *timeexpr.Range

	// Tags are lowercase; each must be present on the entry.
	Tags []string

	// Phrases keep their original spelling and order.
	Phrases []string

	// Keywords are lowercase and deduplicated.
	Keywords []string
}

// IsEmpty reports whether the filter carries no constraints at all.
func (f Filter) IsEmpty() bool {
	return f.ID == nil && f.Project == "" && f.TimeRange == nil &&
		len(f.Tags) == 0 && len(f.Phrases) == 0 && len(f.Keywords) == 0
}

// String renders the filter in a compact, human-readable form.
func (f Filter) String() string {
	if f.ID != nil {
		return fmt.Sprintf("id:%d", *f.ID)
	}
	var parts []string
	if f.Project != "" {
		parts = append(parts, "project="+f.Project)
	}
	if f.TimeRange != nil {
		parts = append(parts, "time="+f.TimeRange.String())
	}
	for _, t := range f.Tags {
		parts = append(parts, "tag:"+t)
	}
	for _, p := range f.Phrases {
		parts = append(parts, fmt.Sprintf("%q", p))
	}
	parts = append(parts, f.Keywords...)
	if len(parts) == 0 {
		return "(all entries)"
	}
	return strings.Join(parts, " ")
}

// SyntaxError reports a malformed query, currently an unterminated quote.
type SyntaxError struct {
	Fragment string
	Reason   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid query: %s near %q", e.Reason, e.Fragment)
}
