package mcptools

import (
	"time"

	"github.com/chris-regnier/devjournal/internal/entry"
	"github.com/chris-regnier/devjournal/internal/storage"
)

// AddInput is the input schema for the journal_add and journal_auto_capture tools.
type AddInput struct {
	Title       string   `json:"title" jsonschema:"Short summary of the entry"`
	Description string   `json:"description" jsonschema:"Entry body in Markdown"`
	Project     string   `json:"project,omitempty" jsonschema:"Project name; detected from the git repository when omitted"`
	Tags        []string `json:"tags,omitempty" jsonschema:"Tags attached to the entry"`
}

// AddOutput is the output schema for the journal_add and journal_auto_capture tools.
type AddOutput struct {
	ID        int64  `json:"id"`
	CreatedAt string `json:"created_at"`
}

// SearchInput is the input schema for the journal_search tool.
type SearchInput struct {
	Query   string `json:"query" jsonschema:"Search query: keywords, quoted phrases, tag:name or #name, id:N, time phrases such as last week"`
	Project string `json:"project,omitempty" jsonschema:"Restrict results to this project"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Maximum number of results"`
}

// TimeQueryInput is the input schema for the journal_time_query tool.
type TimeQueryInput struct {
	TimeExpression string `json:"time_expression" jsonschema:"Time expression such as today, last 3 days, january 2024 or 2024-01-15"`
	Query          string `json:"query,omitempty" jsonschema:"Optional search text applied within the time range"`
	Project        string `json:"project,omitempty" jsonschema:"Restrict results to this project"`
	Limit          int    `json:"limit,omitempty" jsonschema:"Maximum number of results"`
}

// RecentInput is the input schema for the journal_list_recent tool.
type RecentInput struct {
	Limit   int    `json:"limit,omitempty" jsonschema:"Maximum number of entries"`
	Project string `json:"project,omitempty" jsonschema:"Restrict results to this project"`
}

// EntriesOutput is the output schema for tools returning entries.
type EntriesOutput struct {
	Entries []EntryResult `json:"entries"`
	Start   string        `json:"start,omitempty"`
	End     string        `json:"end,omitempty"`
}

// EntryResult is the common output format for entry-related MCP tools.
type EntryResult struct {
	ID          int64    `json:"id"`
	CreatedAt   string   `json:"created_at"`
	Project     string   `json:"project,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// NoInput is the input schema for tools without parameters.
type NoInput struct{}

// ProjectsOutput is the output schema for the journal_list_projects tool.
type ProjectsOutput struct {
	Projects []storage.ProjectCount `json:"projects"`
}

// StatsOutput is the output schema for the journal_stats tool.
type StatsOutput struct {
	TotalEntries  int                    `json:"total_entries"`
	TotalProjects int                    `json:"total_projects"`
	FirstEntry    string                 `json:"first_entry,omitempty"`
	LastEntry     string                 `json:"last_entry,omitempty"`
	Projects      []storage.ProjectCount `json:"entries_per_project"`
}

// DeleteInput is the input schema for the journal_delete tool.
type DeleteInput struct {
	EntryID int64 `json:"entry_id" jsonschema:"ID of the entry to delete"`
}

// DeleteOutput is the output schema for the journal_delete tool.
type DeleteOutput struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

// DeleteProjectInput is the input schema for the journal_delete_by_project tool.
type DeleteProjectInput struct {
	Project string `json:"project" jsonschema:"Project whose entries are deleted"`
}

// DeleteProjectOutput is the output schema for the journal_delete_by_project tool.
type DeleteProjectOutput struct {
	Project string `json:"project"`
	Deleted int    `json:"deleted"`
}

// ImportInput is the input schema for the journal_import tool.
type ImportInput struct {
	FilePath string `json:"file_path" jsonschema:"Path of a .db, .json or .yaml export to import"`
}

// ImportOutput is the output schema for the journal_import tool.
type ImportOutput struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ExportInput is the input schema for the journal_export tool.
type ExportInput struct {
	FilePath string `json:"file_path,omitempty" jsonschema:"Destination path; a timestamped .db file in the working directory when omitted"`
}

// ExportOutput is the output schema for the journal_export tool.
type ExportOutput struct {
	Path     string `json:"path"`
	Exported int    `json:"exported"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func toResults(entries []entry.Entry) []EntryResult {
	results := make([]EntryResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, EntryResult{
			ID:          e.ID,
			CreatedAt:   formatTime(e.CreatedAt),
			Project:     e.Project,
			Title:       e.Title,
			Description: e.Description,
			Tags:        e.Tags,
		})
	}
	return results
}
