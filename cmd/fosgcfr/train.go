package main

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/mthaler/fosgcfr/cfr"
	"github.com/mthaler/fosgcfr/config"
	"github.com/mthaler/fosgcfr/fosg"
	"github.com/mthaler/fosgcfr/persist"
	"github.com/mthaler/fosgcfr/policy"
)

// TrainCmd runs Vanilla CFR over one of the example games and writes the
// resulting average-policy table to disk. Mirrors cmd/solver/main.go's
// TrainCmd shape, generalized from poker-only flags (small/big blind,
// stack) to the game-agnostic fosg.Game surface this repo's core
// actually exposes.
type TrainCmd struct {
	Game            string `help:"game to train (trivial, chance, rps, kuhn); omit with --from-env to read FOSGCFR_GAME instead" enum:"trivial,chance,rps,kuhn,"`
	FromEnv         bool   `help:"load game/iterations/seed/alternating from FOSGCFR_* environment variables, overriding the flags above"`
	Out             string `help:"path to write the trained blueprint" required:""`
	Iterations      int    `help:"number of CFR iterations" default:"10000"`
	Alternating     bool   `help:"update one player per iteration instead of all simultaneously"`
	Seed            int64  `help:"accepted for configuration parity with FOSGCFR_SEED; vanilla CFR has no RNG, so this has no effect on training" default:"0"`
	Tables          int    `help:"number of independent engines to run concurrently" default:"1"`
	Checkpoint      string `help:"path prefix to write periodic checkpoints"`
	CheckpointEvery int    `help:"checkpoint interval in iterations (0 disables)" default:"0"`
	ProgressEvery   int    `help:"log progress every N iterations (0 derives iterations/100)" default:"0"`
	CPUProfile      string `help:"write a CPU profile to this path"`
}

func (cmd *TrainCmd) Run(ctx context.Context, logger *log.Logger) error {
	if cmd.FromEnv {
		envCfg, err := config.FromEnv()
		if err != nil {
			return fmt.Errorf("load FOSGCFR_* environment variables: %w", err)
		}
		cmd.Game = envCfg.Game
		cmd.Iterations = envCfg.Iterations
		cmd.Seed = envCfg.Seed
		cmd.Alternating = envCfg.Alternating
	}
	if cmd.Game == "" {
		return fmt.Errorf("game is required (pass --game or set FOSGCFR_GAME with --from-env)")
	}
	if cmd.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", cmd.Iterations)
	}
	if cmd.Tables <= 0 {
		return fmt.Errorf("tables must be positive, got %d", cmd.Tables)
	}

	if cmd.CPUProfile != "" {
		f, err := os.Create(cmd.CPUProfile)
		if err != nil {
			return fmt.Errorf("create cpu profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	progressEvery := cmd.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = cmd.Iterations / 100
		if progressEvery == 0 {
			progressEvery = 1
		}
	}

	if cmd.Tables == 1 {
		return cmd.runTable(ctx, logger, 0, cmd.Out, progressEvery, nil)
	}

	group, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cmd.Tables; i++ {
		idx := i
		out := fmt.Sprintf("%s.table%d", cmd.Out, idx)
		group.Go(func() error {
			return cmd.runTable(gctx, logger, idx, out, progressEvery, nil)
		})
	}
	return group.Wait()
}

// onProgress, when non-nil, is additionally notified after every
// iteration; used by ServeCmd to forward progress over telemetry.Hub
// without train.go importing the telemetry package.
type progressFunc func(telemetrySnapshot)

type telemetrySnapshot struct {
	Table            int
	Iteration        int
	RegretTableSize  int
	ElapsedIteration time.Duration
}

func (cmd *TrainCmd) runTable(ctx context.Context, logger *log.Logger, table int, out string, progressEvery int, onProgress progressFunc) error {
	tableLogger := logger.WithPrefix(fmt.Sprintf("train[%d]", table))

	game, root, players, err := buildGame(cmd.Game)
	if err != nil {
		return err
	}

	engine, err := cfr.NewVanilla(game, root, players, cfr.Config{AlternatingUpdates: cmd.Alternating}, cfr.WithLogger(tableLogger))
	if err != nil {
		return fmt.Errorf("construct engine: %w", err)
	}

	start := time.Now()
	for i := 0; i < cmd.Iterations; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		iterStart := time.Now()
		if err := engine.Iterate(1); err != nil {
			return fmt.Errorf("iterate: %w", err)
		}
		elapsed := time.Since(iterStart)
		iteration := i + 1

		size := regretTableSize(engine, players)

		if onProgress != nil {
			onProgress(telemetrySnapshot{Table: table, Iteration: iteration, RegretTableSize: size, ElapsedIteration: elapsed})
		}

		if progressEvery > 0 && iteration%progressEvery == 0 {
			tableLogger.Info("training progress", "iteration", iteration, "infosets", size)
		}

		if cmd.Checkpoint != "" && cmd.CheckpointEvery > 0 && iteration%cmd.CheckpointEvery == 0 {
			if err := saveBlueprint(engine, cmd.Game, iteration, players, fmt.Sprintf("%s.table%d.ckpt", cmd.Checkpoint, table)); err != nil {
				return fmt.Errorf("checkpoint: %w", err)
			}
		}
	}

	tableLogger.Info("training complete", "duration", time.Since(start), "iterations", cmd.Iterations, "infosets", regretTableSize(engine, players))

	if out == "" {
		return nil
	}
	if err := saveBlueprint(engine, cmd.Game, cmd.Iterations, players, out); err != nil {
		return fmt.Errorf("save blueprint: %w", err)
	}
	tableLogger.Info("blueprint saved", "path", out)
	return nil
}

func regretTableSize(engine *cfr.Engine, players []fosg.Player) int {
	total := 0
	for _, p := range players {
		table, err := engine.Policy(p)
		if err != nil {
			continue
		}
		total += table.Len()
	}
	return total
}

func saveBlueprint(engine *cfr.Engine, game string, iterations int, players []fosg.Player, path string) error {
	avg, err := buildAverages(engine, players)
	if err != nil {
		return err
	}
	bp, err := persist.BuildBlueprint(game, iterations, players, avg)
	if err != nil {
		return fmt.Errorf("build blueprint: %w", err)
	}
	return bp.Save(path)
}

func buildAverages(engine *cfr.Engine, players []fosg.Player) (map[fosg.Player]*policy.StateTable[string, any], error) {
	avg := make(map[fosg.Player]*policy.StateTable[string, any], len(players))
	for _, p := range players {
		table, err := engine.AveragePolicy(p)
		if err != nil {
			return nil, err
		}
		avg[p] = table
	}
	return avg, nil
}
