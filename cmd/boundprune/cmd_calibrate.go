package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nybble-systems/boundprune"
)

var calibrateOut string

var calibrateCmd = &cobra.Command{
	Use:   "calibrate <model.json> <samples.json>",
	Short: "Derive per-layer activation ranges from a calibration set",
	Long: `calibrate runs the model over a JSON array of input vectors, records
the min/max activation of every layer, widens the ranges by the configured
margin and stores them in the snapshot for later check/prune runs.`,
	Args: cobra.ExactArgs(2),
	RunE: runCalibrate,
}

func init() {
	calibrateCmd.Flags().StringVarP(&calibrateOut, "out", "o", "", "output path (default: overwrite input)")
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	snap, err := boundprune.LoadJSON(args[0])
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	raw, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("load samples: %w", err)
	}
	var samples [][]float64
	if err := json.Unmarshal(raw, &samples); err != nil {
		return fmt.Errorf("parse samples: %w", err)
	}
	if len(samples) == 0 {
		return fmt.Errorf("calibration set %s is empty", args[1])
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cal := boundprune.NewCalibrator(len(snap.Network.Layers), cfg.Calibration.Margin)
	for i, in := range samples {
		if err := snap.Network.Forward(in); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
		if err := cal.Observe(snap.Network); err != nil {
			return err
		}
	}
	ranges, err := cal.Ranges()
	if err != nil {
		return err
	}
	snap.Ranges = ranges

	out := calibrateOut
	if out == "" {
		out = args[0]
	}
	if err := snap.SaveJSON(out); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	logger.Info("calibration stored",
		zap.Int("samples", cal.Observed()),
		zap.String("out", out))
	for l, r := range ranges {
		fmt.Printf("layer %d: [%.4f, %.4f]\n", l, r.Min, r.Max)
	}
	return nil
}
