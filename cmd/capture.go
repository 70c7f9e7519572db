package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/chris-regnier/devjournal/internal/capture"
	"github.com/chris-regnier/devjournal/internal/shell"
	"github.com/chris-regnier/devjournal/internal/ui"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Track activity for periodic auto-capture",
	Long: `Bookkeeping for periodic progress capture.

Editor or shell hooks call "capture touch" on activity. "capture due"
prints true once the configured interval has passed with activity since
the last capture; the hook then records an entry with
"add --auto-capture" (or the journal_auto_capture MCP tool).`,
}

var captureTouchCmd = &cobra.Command{
	Use:   "touch",
	Short: "Record activity in the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return captureTouchRun(cmd.OutOrStdout())
	},
}

var captureDueCmd = &cobra.Command{
	Use:   "due",
	Short: "Print whether a capture is due",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return captureDueRun(cmd.OutOrStdout())
	},
}

var captureInitCmd = &cobra.Command{
	Use:       "init <bash|zsh>",
	Short:     "Print the shell hook that records activity",
	Example:   `  eval "$(devjournal capture init zsh)"`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: shell.Shells,
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.WriteInit(cmd.OutOrStdout(), args[0])
	},
}

var captureStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the capture session state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return captureStatusRun(cmd.OutOrStdout())
	},
}

func init() {
	captureCmd.AddCommand(captureTouchCmd, captureDueCmd, captureStatusCmd, captureInitCmd)
	rootCmd.AddCommand(captureCmd)
}

func captureInterval() time.Duration {
	if appConfig.Capture.Interval > 0 {
		return appConfig.Capture.Interval
	}
	return capture.DefaultInterval
}

func captureTouchRun(w io.Writer) error {
	s, err := capture.Touch(appConfig.DataDir, now())
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, s)
	}
	return nil
}

func captureDueRun(w io.Writer) error {
	s, err := capture.Load(appConfig.DataDir)
	if err != nil {
		return err
	}
	due := s.Due(now(), captureInterval())
	if jsonOutput {
		return ui.FormatJSON(w, struct {
			Due bool `json:"due"`
		}{due})
	}
	fmt.Fprintln(w, due)
	return nil
}

func captureStatusRun(w io.Writer) error {
	s, err := capture.Load(appConfig.DataDir)
	if err != nil {
		return err
	}
	t := now()
	if jsonOutput {
		return ui.FormatJSON(w, struct {
			*capture.State
			Due bool `json:"due"`
		}{s, s.Due(t, captureInterval())})
	}
	ui.FormatCaptureStatus(w, s, s.Due(t, captureInterval()), t)
	return nil
}
