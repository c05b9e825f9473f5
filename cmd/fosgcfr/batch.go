package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mthaler/fosgcfr/config"
)

// BatchCmd runs every run block in an HCL batch file in sequence,
// grounded on internal/server/config.go's block-per-entity HCL schema
// (§2.C/§3.A of SPEC_FULL.md's batch-run mode). Each block gets its own
// blueprint file named after the block's label.
type BatchCmd struct {
	File string `help:"path to an HCL batch file (run \"name\" { game=...; iterations=... })" required:""`
	Out  string `help:"directory to write each run's blueprint into" required:""`
}

func (cmd *BatchCmd) Run(ctx context.Context, logger *log.Logger) error {
	batch, err := config.LoadBatchFile(cmd.File)
	if err != nil {
		return fmt.Errorf("load batch file: %w", err)
	}
	if len(batch.Runs) == 0 {
		logger.Warn("batch file has no run blocks", "path", cmd.File)
		return nil
	}

	for _, block := range batch.Runs {
		run := block.ToRunConfig()
		if err := run.Validate(); err != nil {
			return fmt.Errorf("run %q: %w", block.Name, err)
		}

		train := &TrainCmd{
			Game:        run.Game,
			Out:         fmt.Sprintf("%s/%s.json", cmd.Out, block.Name),
			Iterations:  run.Iterations,
			Alternating: run.Alternating,
			Seed:        run.Seed,
			Checkpoint:  block.Checkpoint,
		}
		if block.Checkpoint != "" {
			train.CheckpointEvery = run.Iterations / 10
			if train.CheckpointEvery == 0 {
				train.CheckpointEvery = 1
			}
		}

		logger.Info("starting batch run", "name", block.Name, "game", run.Game, "iterations", run.Iterations)
		progressEvery := run.Iterations / 100
		if progressEvery == 0 {
			progressEvery = 1
		}
		if err := train.runTable(ctx, logger.WithPrefix(block.Name), 0, train.Out, progressEvery, nil); err != nil {
			return fmt.Errorf("run %q: %w", block.Name, err)
		}
	}
	return nil
}
