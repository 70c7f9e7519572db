package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/devjournal/internal/capture"
	"github.com/chris-regnier/devjournal/internal/editor"
	"github.com/chris-regnier/devjournal/internal/entry"
	"github.com/chris-regnier/devjournal/internal/project"
	"github.com/chris-regnier/devjournal/internal/ui"
)

// addOptions carries the flags of the add command.
type addOptions struct {
	description string
	project     string
	tags        []string
	autoCapture bool
}

var addOpts addOptions

var addCmd = &cobra.Command{
	Use:   "add <title...>",
	Short: "Add a journal entry",
	Long: `Add a journal entry.

The title is taken from the arguments. The description comes from
--description; "-" reads it from stdin and an omitted description opens
your editor. Without --project the git repository name of the working
directory is used when detect_project is enabled.`,
	Example: `  devjournal add Fix login bug -d "Safari sent an empty **token**" -t auth -t bugfix
  devjournal add Standup notes -p payments
  git log -1 --format=%B | devjournal add Release notes -d -`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return addRun(cmd.OutOrStdout(), cmd.InOrStdin(), strings.Join(args, " "), addOpts)
	},
}

func init() {
	addCmd.Flags().StringVarP(&addOpts.description, "description", "d", "", `entry description in Markdown ("-" reads stdin)`)
	addCmd.Flags().StringVarP(&addOpts.project, "project", "p", "", "project name")
	addCmd.Flags().StringSliceVarP(&addOpts.tags, "tag", "t", nil, "tag (repeatable)")
	addCmd.Flags().BoolVar(&addOpts.autoCapture, "auto-capture", false, "tag the entry auto-capture and record the capture")
	rootCmd.AddCommand(addCmd)
}

func addRun(w io.Writer, stdin io.Reader, title string, opts addOptions) error {
	description, err := readDescription(stdin, title, opts.description)
	if err != nil {
		return err
	}

	proj := opts.project
	if proj == "" && appConfig.DetectProject {
		proj = project.Detect("")
	}

	tags := opts.tags
	if opts.autoCapture {
		tags = append([]string{entry.AutoCaptureTag}, tags...)
	}

	e, err := entry.New(title, description, proj, tags)
	if err != nil {
		return err
	}
	e.CreatedAt = now()

	e, err = store.Create(e)
	if err != nil {
		return err
	}
	appLog.Debug().Int64("id", e.ID).Str("project", e.Project).Msg("entry added")

	if opts.autoCapture && appConfig.DataDir != "" {
		if _, err := capture.MarkCaptured(appConfig.DataDir, now()); err != nil {
			appLog.Warn().Err(err).Msg("updating capture state")
		}
	}

	if jsonOutput {
		return ui.FormatJSON(w, e)
	}
	ui.FormatEntryCreated(w, e)
	return nil
}

func readDescription(stdin io.Reader, title, flag string) (string, error) {
	switch flag {
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	case "":
		content, err := editor.Describe(editor.ResolveEditor(appConfig.Editor), title)
		if err != nil {
			return "", fmt.Errorf("editor: %w", err)
		}
		if content == "" {
			return "", errors.New("empty description, entry not saved")
		}
		return content, nil
	default:
		return flag, nil
	}
}
