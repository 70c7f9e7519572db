package cmd

import (
	"bytes"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/devjournal/internal/journal"
	"github.com/chris-regnier/devjournal/internal/ui"
)

var (
	searchProject string
	searchLimit   int
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search journal entries",
	Long: `Search journal entries with a free-text query.

  keyword            matches title, description or tags (substring, any case)
  "quoted phrase"    matches title or description
  tag:name, #name    requires the tag
  id:N or N          looks up a single entry
  time phrases       today, yesterday, this week, last 3 days, january 2024, 2024-01-15

All terms must match. Results are newest first.`,
	Example: `  devjournal search "login error" #auth
  devjournal search database last week
  devjournal search id:42
  devjournal search --project api --limit 5 refactor`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return searchRun(cmd.OutOrStdout(), strings.Join(args, " "), searchProject, searchLimit)
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchProject, "project", "p", "", "restrict results to a project")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default from config)")
	rootCmd.AddCommand(searchCmd)
}

func searchRun(w io.Writer, query, project string, limit int) error {
	res, err := journal.Search(store, query, project, journal.Limit(limit, appConfig.Limits.Search), now())
	if err != nil {
		return err
	}
	appLog.Debug().Str("filter", res.Filter.String()).Int("matches", len(res.Entries)).Msg("search")

	if jsonOutput {
		return ui.FormatJSON(w, ui.SearchResult{
			Query:   query,
			Filter:  res.Filter.String(),
			Count:   len(res.Entries),
			Entries: res.Entries,
		})
	}

	var buf bytes.Buffer
	ui.FormatEntryList(&buf, res.Entries)
	return ui.OutputOrPage(w, "Search: "+res.Filter.String(), buf.String(), false)
}
