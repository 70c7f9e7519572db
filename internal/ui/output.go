package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chris-regnier/devjournal/internal/capture"
	"github.com/chris-regnier/devjournal/internal/entry"
	"github.com/chris-regnier/devjournal/internal/storage"
	"github.com/chris-regnier/devjournal/internal/timeexpr"
	"github.com/chris-regnier/devjournal/internal/transfer"
)

const timeFormat = "2006-01-02 15:04"

// FormatEntryCreated formats a creation confirmation message.
func FormatEntryCreated(w io.Writer, e entry.Entry) {
	fmt.Fprintf(w, "Created entry #%d (%s)\n", e.ID, e.CreatedAt.Local().Format(timeFormat))
}

// FormatEntryDeleted formats a deletion confirmation message.
func FormatEntryDeleted(w io.Writer, id int64) {
	fmt.Fprintf(w, "Deleted entry #%d.\n", id)
}

// FormatProjectDeleted formats a bulk deletion confirmation message.
func FormatProjectDeleted(w io.Writer, project string, n int) {
	fmt.Fprintf(w, "Deleted %d %s from project %q.\n", n, plural(n, "entry", "entries"), project)
}

// FormatEntryFull formats a full entry display with metadata header.
// The markdownStyle parameter controls glamour rendering (e.g. "dark", "light").
func FormatEntryFull(w io.Writer, e entry.Entry, markdownStyle string) {
	fmt.Fprintf(w, "Entry: #%d\n", e.ID)
	fmt.Fprintf(w, "Title: %s\n", e.Title)
	fmt.Fprintf(w, "Created: %s\n", e.CreatedAt.Local().Format(timeFormat))
	if e.Project != "" {
		fmt.Fprintf(w, "Project: %s\n", e.Project)
	}
	if len(e.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(e.Tags, ", "))
	}
	fmt.Fprintln(w)

	rendered := RenderMarkdownWithStyle(e.Description, 80, markdownStyle)
	fmt.Fprintln(w, rendered)
}

// FormatEntryList formats a list of entries, one per line.
func FormatEntryList(w io.Writer, entries []entry.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No journal entries found.")
		return
	}
	for _, e := range entries {
		line := fmt.Sprintf("%5d  %s  %s", e.ID, e.CreatedAt.Local().Format(timeFormat), e.Title)
		if e.Project != "" {
			line += "  [" + e.Project + "]"
		}
		if len(e.Tags) > 0 {
			line += "  #" + strings.Join(e.Tags, " #")
		}
		fmt.Fprintln(w, line)
	}
}

// FormatEntriesMarkdown renders entries as a Markdown document. label, when
// non-empty, describes the query (for example a time range).
func FormatEntriesMarkdown(entries []entry.Entry, label string) string {
	var b strings.Builder
	b.WriteString("**Journal Entries")
	if label != "" {
		fmt.Fprintf(&b, " (%s)", label)
	}
	fmt.Fprintf(&b, ":** (%d found)\n\n", len(entries))

	for _, e := range entries {
		fmt.Fprintf(&b, "**[%d]** %s\n", e.ID, e.Title)
		b.WriteString(e.CreatedAt.Local().Format(timeFormat))
		if e.Project != "" {
			fmt.Fprintf(&b, " | project: %s", e.Project)
		}
		if len(e.Tags) > 0 {
			fmt.Fprintf(&b, " | tags: %s", strings.Join(e.Tags, ", "))
		}
		fmt.Fprintf(&b, "\n\n%s\n\n", e.Description)
	}
	return b.String()
}

// RangeLabel renders a time range for headings.
func RangeLabel(r timeexpr.Range) string {
	return r.Start.Local().Format(timeFormat) + " to " + r.End.Local().Format(timeFormat)
}

// FormatProjects formats per-project entry counts.
func FormatProjects(w io.Writer, counts []storage.ProjectCount) {
	if len(counts) == 0 {
		fmt.Fprintln(w, "No projects found.")
		return
	}
	width := 0
	for _, c := range counts {
		if len(c.Project) > width {
			width = len(c.Project)
		}
	}
	for _, c := range counts {
		fmt.Fprintf(w, "%-*s  %d\n", width, c.Project, c.Count)
	}
}

// FormatProjectsMarkdown renders project counts as a Markdown list.
func FormatProjectsMarkdown(counts []storage.ProjectCount) string {
	if len(counts) == 0 {
		return "No projects found."
	}
	var b strings.Builder
	b.WriteString("**Projects:**\n\n")
	for _, c := range counts {
		fmt.Fprintf(&b, "- %s (%d %s)\n", c.Project, c.Count, plural(c.Count, "entry", "entries"))
	}
	return b.String()
}

// FormatStats formats journal statistics.
func FormatStats(w io.Writer, st storage.Stats) {
	fmt.Fprint(w, statsText(st, ""))
}

// FormatStatsMarkdown renders journal statistics as Markdown.
func FormatStatsMarkdown(st storage.Stats) string {
	return "**Journal Statistics:**\n\n" + statsText(st, "- ")
}

func statsText(st storage.Stats, bullet string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sTotal entries: %d\n", bullet, st.TotalEntries)
	fmt.Fprintf(&b, "%sProjects: %d\n", bullet, st.TotalProjects)
	if st.FirstEntry != nil {
		fmt.Fprintf(&b, "%sFirst entry: %s\n", bullet, st.FirstEntry.Local().Format(timeFormat))
	}
	if st.LastEntry != nil {
		fmt.Fprintf(&b, "%sLast entry: %s\n", bullet, st.LastEntry.Local().Format(timeFormat))
	}
	for _, p := range st.Projects {
		fmt.Fprintf(&b, "%s  %s: %d\n", bullet, p.Project, p.Count)
	}
	return b.String()
}

// FormatImport formats an import summary.
func FormatImport(w io.Writer, path string, res transfer.ImportResult) {
	fmt.Fprintf(w, "Imported %d %s from %s", res.Imported, plural(res.Imported, "entry", "entries"), path)
	if res.Skipped > 0 {
		fmt.Fprintf(w, " (%d %s skipped)", res.Skipped, plural(res.Skipped, "duplicate", "duplicates"))
	}
	fmt.Fprintln(w, ".")
}

// FormatExport formats an export summary.
func FormatExport(w io.Writer, path string, n int) {
	fmt.Fprintf(w, "Exported %d %s to %s.\n", n, plural(n, "entry", "entries"), path)
}

// FormatCaptureStatus formats the capture bookkeeping state.
func FormatCaptureStatus(w io.Writer, s *capture.State, due bool, now time.Time) {
	if s.SessionID == "" {
		fmt.Fprintln(w, "Session: none")
	} else {
		fmt.Fprintf(w, "Session: %s (started %s)\n", s.SessionID, s.SessionStart.Local().Format(timeFormat))
	}
	if !s.LastActivity.IsZero() {
		fmt.Fprintf(w, "Last activity: %s ago\n", now.Sub(s.LastActivity).Round(time.Second))
	}
	if !s.LastCapture.IsZero() {
		fmt.Fprintf(w, "Last capture: %s ago\n", now.Sub(s.LastCapture).Round(time.Second))
	}
	fmt.Fprintf(w, "Captures: %d\n", s.Captures)
	fmt.Fprintf(w, "Due: %t\n", due)
}

// FormatJSON writes any value as JSON to the writer.
func FormatJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// DeleteResult is a JSON representation for delete output.
type DeleteResult struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

// ProjectDeleteResult is a JSON representation for bulk delete output.
type ProjectDeleteResult struct {
	Project string `json:"project"`
	Deleted int    `json:"deleted"`
}

// SearchResult is the JSON representation of a query and its matches.
type SearchResult struct {
	Query   string          `json:"query,omitempty"`
	Filter  string          `json:"filter"`
	Range   *timeexpr.Range `json:"range,omitempty"`
	Count   int             `json:"count"`
	Entries []entry.Entry   `json:"entries"`
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
