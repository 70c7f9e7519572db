package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/devjournal/internal/journal"
	"github.com/chris-regnier/devjournal/internal/timeexpr"
	"github.com/chris-regnier/devjournal/internal/ui"
)

var (
	whenQuery   string
	whenProject string
	whenLimit   int
)

var whenCmd = &cobra.Command{
	Use:   "when <time expression...>",
	Short: "List entries within a time range",
	Long: fmt.Sprintf(`List journal entries recorded within a time expression, newest first.

Supported expressions:
  %s

--query narrows the range with the same syntax as search, except that
time phrases inside it are treated as plain keywords.`, strings.Join(timeexpr.Examples, "\n  ")),
	Example: `  devjournal when last week
  devjournal when january 2024 --query "#auth"
  devjournal when 2024-03-13 --project api`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return whenRun(cmd.OutOrStdout(), strings.Join(args, " "), whenQuery, whenProject, whenLimit)
	},
}

func init() {
	whenCmd.Flags().StringVarP(&whenQuery, "query", "q", "", "search text applied within the range")
	whenCmd.Flags().StringVarP(&whenProject, "project", "p", "", "restrict results to a project")
	whenCmd.Flags().IntVarP(&whenLimit, "limit", "n", 0, "maximum number of results (default from config)")
	rootCmd.AddCommand(whenCmd)
}

func whenRun(w io.Writer, expr, query, project string, limit int) error {
	res, err := journal.TimeQuery(store, expr, query, project, journal.Limit(limit, appConfig.Limits.TimeQuery), now())
	if err != nil {
		var perr *timeexpr.ParseError
		if errors.As(err, &perr) {
			return fmt.Errorf("%w (try: %s)", err, strings.Join(timeexpr.Examples, ", "))
		}
		return err
	}
	r := *res.Filter.TimeRange

	if jsonOutput {
		return ui.FormatJSON(w, ui.SearchResult{
			Query:   query,
			Filter:  res.Filter.String(),
			Range:   &r,
			Count:   len(res.Entries),
			Entries: res.Entries,
		})
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n\n", ui.RangeLabel(r))
	ui.FormatEntryList(&buf, res.Entries)
	return ui.OutputOrPage(w, expr, buf.String(), false)
}
