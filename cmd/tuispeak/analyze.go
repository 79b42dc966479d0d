package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuispeak/internal/config"
	"github.com/verte-zerg/tuispeak/internal/report"
)

var (
	analyzeChunks  int
	analyzeJSON    bool
	analyzeNoDelay bool
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score one recording and print the report",
		Args:  cobra.NoArgs,
		RunE:  runAnalyzeCmd,
	}
	cmd.Flags().IntVar(&analyzeChunks, "chunks", 0, "number of 100ms audio chunks recorded")
	cmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&analyzeNoDelay, "no-delay", false, "skip the simulated analysis latency")
	if err := cmd.MarkFlagRequired("chunks"); err != nil {
		panic(err)
	}
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	initLogging(cmd, fileCfg, os.Stderr)

	cfg, err := resolvePracticeConfig(cmd, fileCfg)
	if err != nil {
		return err
	}
	if analyzeNoDelay {
		cfg.Delay = 0
	}

	st := openCatalog()
	defer closeCatalog(st)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := newAnalyzer(cfg, phonemeSource(cfg, st)).Analyze(ctx, cfg.Text, analyzeChunks)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		return report.JSON(out, result)
	}
	return report.Render(out, result, report.DefaultOptions(out))
}
