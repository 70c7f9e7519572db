package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/devjournal/internal/entry"
	"github.com/chris-regnier/devjournal/internal/storage"
	"github.com/chris-regnier/devjournal/internal/ui"
)

var showDescriptionOnly bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a journal entry",
	Long:  "Display the full description and metadata of a journal entry.",
	Example: `  devjournal show 42
  devjournal show id:42 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return showRun(cmd.OutOrStdout(), id)
	},
}

func init() {
	showCmd.Flags().BoolVar(&showDescriptionOnly, "description-only", false, "print just the raw description")
	rootCmd.AddCommand(showCmd)
}

func showRun(w io.Writer, id int64) error {
	e, err := getEntry(id)
	if err != nil {
		return err
	}

	if showDescriptionOnly {
		fmt.Fprintln(w, e.Description)
		return nil
	}
	if jsonOutput {
		return ui.FormatJSON(w, e)
	}

	var buf bytes.Buffer
	ui.FormatEntryFull(&buf, e, markdownStyle(w))
	return ui.OutputOrPage(w, fmt.Sprintf("#%d %s", e.ID, e.Title), buf.String(), false)
}

// parseID accepts "42" and "id:42".
func parseID(s string) (int64, error) {
	raw := strings.TrimSpace(s)
	if len(raw) > 3 && strings.EqualFold(raw[:3], "id:") {
		raw = raw[3:]
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", s)
	}
	return id, nil
}

func getEntry(id int64) (entry.Entry, error) {
	e, err := store.Get(id)
	if errors.Is(err, storage.ErrNotFound) {
		return entry.Entry{}, fmt.Errorf("entry #%d not found", id)
	}
	return e, err
}
