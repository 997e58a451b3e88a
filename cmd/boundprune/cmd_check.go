package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nybble-systems/boundprune"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check <model.json>",
	Short: "Verify a saved model against its accumulator bound",
	Long: `check loads a model snapshot and re-runs the worst-case accumulator
check on every layer using the calibration ranges stored in the snapshot.
Exits non-zero if any neuron violates the bound, for CI integration.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the report as JSON")
}

func runCheck(cmd *cobra.Command, args []string) error {
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
	bits := snap.BoundBits
	if bits == 0 {
		bits = cfg.BoundBits
	}

	enf := boundprune.NewEnforcer(bits, cfg.ActiveFloor, logger)
	rep, err := enf.CheckNetwork(snap.Network, snap.Ranges)
	if err != nil {
		return err
	}

	if checkJSON {
		b, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	} else {
		for _, lr := range rep.Layers {
			fmt.Printf("layer %d: worst vmax %.4f, limit %.0f, violations %d/%d\n",
				lr.Layer, lr.WorstVMax, lr.Limit, lr.Violations, lr.Neurons)
		}
	}

	if !rep.Satisfied {
		logger.Warn("bound violated", zap.String("run_id", rep.RunID))
		os.Exit(1)
	}
	return nil
}
