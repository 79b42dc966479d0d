// Package main provides the CLI entrypoint for tuispeak.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuispeak/internal/analysis"
	"github.com/verte-zerg/tuispeak/internal/config"
	"github.com/verte-zerg/tuispeak/internal/events"
	"github.com/verte-zerg/tuispeak/internal/logging"
	"github.com/verte-zerg/tuispeak/internal/model"
	"github.com/verte-zerg/tuispeak/internal/phonemes"
	"github.com/verte-zerg/tuispeak/internal/scoring"
	"github.com/verte-zerg/tuispeak/internal/store"
	"github.com/verte-zerg/tuispeak/internal/tui"
)

const defaultDelay = 1500 * time.Millisecond

var (
	practiceText         string
	practiceDelay        time.Duration
	practiceSeed         int64
	practicePhonemesFile string

	logLevel string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuispeak",
		Short:         "TUI pronunciation trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&practiceText, "text", phonemes.DefaultText, "reference text to read aloud")
	flags.DurationVar(&practiceDelay, "delay", defaultDelay, "simulated analysis latency")
	flags.Int64Var(&practiceSeed, "seed", 0, "seed for simulated scores (0 uses the clock)")
	flags.StringVar(&practicePhonemesFile, "phonemes-file", "", "file with one phoneme per line for the text")
	flags.StringVar(&logLevel, "log-level", logging.DefaultConfig().Level, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newPhonemesCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The alt screen owns the terminal, so logs go to a file.
	logPath := config.DefaultLogPath()
	logFile, err := logging.OpenFile(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			_ = cerr
		}
	}()
	initLogging(cmd, fileCfg, logFile)

	cfg, err := resolvePracticeConfig(cmd, fileCfg)
	if err != nil {
		return err
	}

	st := openCatalog()
	defer closeCatalog(st)

	analyzer := newAnalyzer(cfg, phonemeSource(cfg, st))
	m := tui.NewModel(cfg.Text, analyzer)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolvePracticeConfig merges config file values under the CLI flags.
func resolvePracticeConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.Config, error) {
	applyStringConfig(cmd, "text", &practiceText, fileCfg.Practice.Text)
	applyDurationConfig(cmd, "delay", &practiceDelay, fileCfg.Practice.Delay)
	applyInt64Config(cmd, "seed", &practiceSeed, fileCfg.Practice.Seed)
	applyStringConfig(cmd, "phonemes-file", &practicePhonemesFile, fileCfg.Practice.PhonemesFile)

	cfg := model.Config{
		Text:         strings.TrimSpace(practiceText),
		PhonemesFile: practicePhonemesFile,
		Delay:        practiceDelay,
		Seed:         practiceSeed,
	}
	// An explicit --phonemes-file replaces a phoneme list from the config.
	if fileCfg.Practice.Phonemes != nil && !cmd.Flags().Changed("phonemes-file") {
		cfg.Phonemes = phonemes.NormalizeAll(*fileCfg.Practice.Phonemes)
	}

	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if len(analysis.Words(cfg.Text)) == 0 {
		return fmt.Errorf("--text must contain at least one word")
	}
	if cfg.Delay < 0 {
		return fmt.Errorf("--delay must be >= 0")
	}
	if cfg.PhonemesFile != "" && len(cfg.Phonemes) > 0 {
		return fmt.Errorf("--phonemes-file and practice.phonemes are mutually exclusive")
	}
	return nil
}

// phonemeSource resolves phonemes from the catalog first, then the
// configured list or file, then the built-in default.
func phonemeSource(cfg model.Config, st *store.Store) phonemes.Source {
	chain := phonemes.Chain{phonemes.Catalog{Store: st}}
	switch {
	case cfg.PhonemesFile != "":
		chain = append(chain, phonemes.File{Path: cfg.PhonemesFile})
	case len(cfg.Phonemes) > 0:
		chain = append(chain, phonemes.ForText{Text: cfg.Text, List: cfg.Phonemes})
	}
	return append(chain, phonemes.Default())
}

func newAnalyzer(cfg model.Config, source phonemes.Source) *analysis.Analyzer {
	return analysis.New(
		analysis.WithSource(scoring.NewRandom(cfg.Seed)),
		analysis.WithPhonemes(source),
		analysis.WithDelay(cfg.Delay),
	)
}

// openCatalog opens the phoneme catalog. A failure only disables catalog lookups.
func openCatalog() *store.Store {
	path := config.DefaultDBPath()
	st, err := store.Open(path)
	if err != nil {
		logger := logging.WithComponent("cli")
		logger.Warn().Err(err).Str("path", path).Msg("phoneme catalog unavailable")
		return nil
	}
	return st
}

func closeCatalog(st *store.Store) {
	if st == nil {
		return
	}
	if err := st.Close(); err != nil {
		logger := logging.WithComponent("cli")
		logger.Warn().Err(err).Msg("failed to close db")
	}
}

func initLogging(cmd *cobra.Command, fileCfg config.FileConfig, out io.Writer) {
	logging.Init(loggingConfig(cmd, fileCfg, out))
}

// loggingConfig starts from the logging defaults and applies [log] and --log-level.
func loggingConfig(cmd *cobra.Command, fileCfg config.FileConfig, out io.Writer) logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Output = out
	level := logLevel
	applyStringConfig(cmd, "log-level", &level, fileCfg.Log.Level)
	if level != "" {
		cfg.Level = level
	}
	if fileCfg.Log.Format != nil {
		cfg.Format = *fileCfg.Log.Format
	}
	return cfg
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

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *config.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value.Duration
}

func applyStringSliceConfig(cmd *cobra.Command, name string, target, value *[]string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = append([]string(nil), (*value)...)
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuispeak configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# text = %q
# phonemes = ["ʃiː", "sɛlz"]   # Phonemes for text (exclusive with phonemes-file)
# phonemes-file = ""           # One phoneme per line
# delay = %q                 # Simulated analysis latency
# seed = 0                     # Seed for simulated scores (0 uses the clock)

[server]
# addr = %q
# read-timeout = "5s"
# write-timeout = "10s"

[log]
# level = %q               # debug, info, warn, error
# format = %q           # console or json

[kafka]
# enabled = false
# brokers = ["localhost:9092"]
# topic = %q
`,
		phonemes.DefaultText,
		defaultDelay.String(),
		defaultServeAddr,
		logging.DefaultConfig().Level,
		logging.DefaultConfig().Format,
		events.DefaultTopic,
	)
}
