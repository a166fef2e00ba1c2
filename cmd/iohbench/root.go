package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	logLevel string
	dataDir  string
)

var rootCmd = &cobra.Command{
	Use:   "iohbench",
	Short: "Benchmark iterative optimization heuristics",
	Long: `iohbench runs optimizers on the BBOB and PBO benchmark suites and records
their anytime performance as empirical attainment histograms and functions.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		opts := &slog.HandlerOptions{Level: parseLevel(logLevel)}
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, opts)))
	},
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "./data", "Base directory for stored results")
}
