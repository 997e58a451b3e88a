package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nybble-systems/boundprune"
)

var (
	pruneOut    string
	pruneFreeze bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune <model.json>",
	Short: "Prune a saved model until every accumulator fits the bound",
	Long: `prune loads a model snapshot, masks off small weights layer by layer
until every neuron's worst-case accumulator fits the configured bit width
or the per-neuron active floor is reached, and writes the result back out.
Neurons still violated at the floor are reported but do not fail the
command unless abort_on_floor is set in the config.`,
	Args: cobra.ExactArgs(1),
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().StringVarP(&pruneOut, "out", "o", "", "output path (default: overwrite input)")
	pruneCmd.Flags().BoolVar(&pruneFreeze, "freeze", false, "freeze masks for export after pruning")
}

func runPrune(cmd *cobra.Command, args []string) error {
	snap, err := boundprune.LoadJSON(args[0])
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	if snap.Ranges == nil {
		return fmt.Errorf("snapshot %s carries no calibration ranges; run calibrate first", args[0])
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	enf := boundprune.NewEnforcer(cfg.BoundBits, cfg.ActiveFloor, logger)
	rep, err := enf.EnforceNetwork(snap.Network, snap.Ranges)
	if err != nil {
		return err
	}
	for _, lr := range rep.Layers {
		fmt.Printf("layer %d: pruned %d weights, worst vmax %.4f, limit %.0f, insufficient %d\n",
			lr.Layer, lr.Pruned, lr.WorstVMax, lr.Limit, lr.Insufficient)
	}
	if rep.Insufficient {
		logger.Warn("bound still violated at active floor; lower the floor, widen the bound, or tighten ranges",
			zap.String("run_id", rep.RunID))
		if cfg.AbortOnFloor {
			return fmt.Errorf("insufficient pruning at active floor (run %s)", rep.RunID)
		}
	}

	if pruneFreeze {
		snap.Network.Freeze()
	}
	snap.BoundBits = cfg.BoundBits
	out := pruneOut
	if out == "" {
		out = args[0]
	}
	if err := snap.SaveJSON(out); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	logger.Info("model pruned",
		zap.String("run_id", rep.RunID),
		zap.String("out", out),
		zap.Bool("frozen", snap.Network.Frozen))
	return nil
}
