package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nybble-systems/boundprune"
)

var (
	verbose    bool
	configPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "boundprune",
	Short: "Accumulator-bound checking and pruning for encrypted inference",
	Long: `boundprune verifies and enforces the accumulator bit-width constraint
that encrypted table-lookup inference imposes on dense networks.

Models are the JSON snapshots written by the boundprune library; the
enforcement parameters (bound bits, active floor, calibration margin)
come from a YAML config or the built-in defaults.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config = zap.NewDevelopmentConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func loadConfig() (boundprune.Config, error) {
	if configPath == "" {
		return boundprune.DefaultConfig(), nil
	}
	return boundprune.LoadConfig(configPath)
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "enforcement config YAML")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(calibrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
