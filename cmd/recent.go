package cmd

import (
	"bytes"
	"io"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/devjournal/internal/journal"
	"github.com/chris-regnier/devjournal/internal/ui"
)

var (
	recentProject string
	recentLimit   int
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recent entries",
	Example: `  devjournal recent
  devjournal recent -n 25 --project api
  devjournal recent --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return recentRun(cmd.OutOrStdout(), recentProject, recentLimit)
	},
}

func init() {
	recentCmd.Flags().StringVarP(&recentProject, "project", "p", "", "restrict results to a project")
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 0, "number of entries (default from config)")
	rootCmd.AddCommand(recentCmd)
}

func recentRun(w io.Writer, project string, limit int) error {
	entries, err := journal.Recent(store, project, journal.Limit(limit, appConfig.Limits.Recent))
	if err != nil {
		return err
	}

	if jsonOutput {
		return ui.FormatJSON(w, entries)
	}

	var buf bytes.Buffer
	ui.FormatEntryList(&buf, entries)
	return ui.OutputOrPage(w, "Recent entries", buf.String(), false)
}
