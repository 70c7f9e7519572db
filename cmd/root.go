package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chris-regnier/devjournal/internal/config"
	"github.com/chris-regnier/devjournal/internal/logger"
	"github.com/chris-regnier/devjournal/internal/storage"
	"github.com/chris-regnier/devjournal/internal/storage/markdown"
	"github.com/chris-regnier/devjournal/internal/storage/sqlite"
	"github.com/chris-regnier/devjournal/internal/ui"
)

var (
	cfgFile        string
	jsonOutput     bool
	storageBackend string
	appConfig      *config.Config
	appLog         = zerolog.Nop()
	store          storage.Storage
	now            = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "devjournal",
	Short: "A development journal with natural-language search",
	Long: `devjournal records short development notes (title, Markdown description,
project and tags) and finds them again with free-text queries such as
"#auth login error last week" or time expressions like "last 3 days".`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		appConfig = cfg

		// Override storage backend from flag
		if storageBackend != "" {
			appConfig.Storage = storageBackend
		}

		appLog = logger.New("devjournal", appConfig.LogLevel)

		store, err = openStore(appConfig)
		if err != nil {
			return err
		}
		appLog.Debug().Str("storage", appConfig.Storage).Str("data_dir", appConfig.DataDir).Msg("storage ready")
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store == nil {
			return nil
		}
		err := store.Close()
		store = nil
		return err
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps a command error to the process exit status: 2 for storage
// failures and 1 for everything else (bad queries, missing entries, usage).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, storage.ErrStorage) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&storageBackend, "storage", "", "storage backend (sqlite|markdown)")

	// Silence Cobra's built-in error and usage printing so we control stderr output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func openStore(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage {
	case "markdown":
		s, err := markdown.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing markdown storage: %w", err)
		}
		return s, nil
	case "sqlite":
		s, err := sqlite.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing sqlite storage: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage)
	}
}

// isTerminal reports whether w is the process stdout attached to a terminal.
func isTerminal(w io.Writer) bool {
	return w == os.Stdout && term.IsTerminal(int(os.Stdout.Fd()))
}

// markdownStyle picks a glamour style for w: colors on a terminal, plain
// text when piped.
func markdownStyle(w io.Writer) string {
	if isTerminal(w) {
		return ui.DefaultMarkdownStyle
	}
	return "notty"
}
