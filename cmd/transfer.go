package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/devjournal/internal/transfer"
	"github.com/chris-regnier/devjournal/internal/ui"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import entries from an export file",
	Long: `Import entries from a .db (SQLite), .json or .yaml export.

Imported entries receive new IDs and keep their creation time. Entries
whose creation time, title and description match an existing entry are
skipped, so importing the same file twice is safe.`,
	Example: `  devjournal import ~/backups/devjournal-20240313-101500.db
  devjournal import notes.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return importRun(cmd.OutOrStdout(), args[0])
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export every entry to a file",
	Long: `Export every entry to a .db (SQLite), .json or .yaml file, oldest first.

Without a file name a timestamped .db file is written to the working
directory. Existing files are never overwritten.`,
	Example: `  devjournal export
  devjournal export backup.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return exportRun(cmd.OutOrStdout(), path)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}

func importRun(w io.Writer, path string) error {
	res, err := transfer.Import(store, path)
	if err != nil {
		return err
	}
	appLog.Info().Str("path", path).Int("imported", res.Imported).Int("skipped", res.Skipped).Msg("import")

	if jsonOutput {
		return ui.FormatJSON(w, res)
	}
	ui.FormatImport(w, path, res)
	return nil
}

func exportRun(w io.Writer, path string) error {
	written, n, err := transfer.Export(store, path, now())
	if err != nil {
		return err
	}
	appLog.Info().Str("path", written).Int("exported", n).Msg("export")

	if jsonOutput {
		return ui.FormatJSON(w, struct {
			Path     string `json:"path"`
			Exported int    `json:"exported"`
		}{written, n})
	}
	ui.FormatExport(w, written, n)
	return nil
}
