// Package main provides the CLI entrypoint for sentype.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/sentype/internal/config"
	"github.com/verte-zerg/sentype/internal/logging"
	"github.com/verte-zerg/sentype/internal/model"
	"github.com/verte-zerg/sentype/internal/pool"
	"github.com/verte-zerg/sentype/internal/session"
	"github.com/verte-zerg/sentype/internal/store"
	"github.com/verte-zerg/sentype/internal/tui"
)

const (
	defaultSeed           = 0
	defaultRefocusDelayMs = 200
	defaultLogLevel       = "info"
	defaultCurveWindow    = 10
	defaultHistoryRows    = 15
)

var (
	practiceSeed           int64
	practiceRefocusDelayMs int

	storageDB string
	logLevel  string
	logFile   string

	historySince       string
	historyLast        int
	historyCurveWindow int
	historyRows        int

	bestReset bool

	sentencesAll    bool
	sentencesFormat string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sentype",
		Short:         "Sentence typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().Int64Var(&practiceSeed, "seed", defaultSeed, "random seed for sentence selection (0 = time-seeded)")
	rootCmd.Flags().IntVar(&practiceRefocusDelayMs, "refocus-delay-ms", defaultRefocusDelayMs, "delay before the input is focused after a restart")

	rootCmd.PersistentFlags().StringVar(&storageDB, "db", config.DefaultDBPath(), "path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", config.DefaultLogPath(), "path to the log file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newBestCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newSentencesCmd())

	return rootCmd
}

// resolveConfig merges the config file under the command's flags and
// validates the result.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyInt64Config(cmd, "seed", &practiceSeed, fileCfg.Practice.Seed)
	applyIntConfig(cmd, "refocus-delay-ms", &practiceRefocusDelayMs, fileCfg.Practice.RefocusDelayMs)
	applyStringConfig(cmd, "db", &storageDB, fileCfg.Storage.DB)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)

	cfg := model.Config{
		Seed:           practiceSeed,
		RefocusDelayMs: practiceRefocusDelayMs,
		DBPath:         storageDB,
		LogLevel:       strings.ToLower(strings.TrimSpace(logLevel)),
		LogPath:        logFile,
	}
	if err := config.Validate(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// app holds the resources shared by every command that touches the pool.
type app struct {
	cfg    model.Config
	logger *slog.Logger
	store  *store.Store
	engine *session.Engine

	closers []io.Closer
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, logCloser, err := logging.Setup(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		if cerr := logCloser.Close(); cerr != nil {
			// Best-effort close on startup failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	engine := session.New(st,
		session.WithRecorder(st),
		session.WithPicker(pool.NewPicker(cfg.Seed)),
		session.WithLogger(logger),
	)
	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		engine:  engine,
		closers: []io.Closer{st, logCloser},
	}, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			logErrf("failed to close resource: %v\n", err)
		}
	}
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("starting practice",
		"db", a.cfg.DBPath,
		"seed", a.cfg.Seed,
		"custom_sentences", len(a.engine.Custom()))

	delay := time.Duration(a.cfg.RefocusDelayMs) * time.Millisecond
	m := tui.NewModel(a.engine, delay)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template to path unless a file is
// already there.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func newBestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "best",
		Short: "Show or reset the best time",
		Args:  cobra.NoArgs,
		RunE:  runBestCmd,
	}
	cmd.Flags().BoolVar(&bestReset, "reset", false, "clear the best time")
	return cmd
}

func runBestCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if bestReset {
		a.engine.ResetBest()
		_, err := fmt.Fprintln(out, "Best time cleared.")
		return err
	}
	best, ok := a.engine.Best()
	if !ok {
		_, err := fmt.Fprintln(out, "No best time yet.")
		return err
	}
	_, err = fmt.Fprintf(out, "Best time: %.2fs\n", best.Seconds())
	return err
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# sentype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# seed = %d                 # Random seed for sentence selection (0 = time-seeded)
# refocus-delay-ms = %d     # Delay before the input is focused after a restart

[storage]
# db = %q

[log]
# level = %q            # debug, info, warn or error
# file = %q
`,
		defaultSeed,
		defaultRefocusDelayMs,
		config.DefaultDBPath(),
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
