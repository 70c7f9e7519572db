package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/devjournal/internal/ui"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects with their entry counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectsRun(cmd.OutOrStdout())
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show journal statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statsRun(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(statsCmd)
}

func projectsRun(w io.Writer) error {
	counts, err := store.Projects()
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, counts)
	}
	ui.FormatProjects(w, counts)
	return nil
}

func statsRun(w io.Writer) error {
	st, err := store.Stats()
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, st)
	}
	ui.FormatStats(w, st)
	return nil
}
