package main

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/mthaler/fosgcfr/persist"
)

// EvalCmd loads a previously trained blueprint and reports a per-player
// summary: infoset count and the mean normalized action entropy
// (meanActionEntropy), a rough exploitability proxy, grounded on
// sdk/solver/blueprint.go's LoadBlueprint/Strategy shape.
type EvalCmd struct {
	Blueprint string `help:"path to a saved blueprint" required:""`
}

func (cmd *EvalCmd) Run(ctx context.Context, logger *log.Logger) error {
	bp, err := persist.LoadBlueprint(cmd.Blueprint)
	if err != nil {
		return fmt.Errorf("load blueprint: %w", err)
	}

	logger.Info("blueprint loaded",
		"game", bp.Game,
		"generated", bp.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		"iterations", bp.Iterations,
		"players", bp.Players,
	)

	for _, player := range bp.Players {
		table := bp.Strategies[player]
		avgUncertainty := meanActionEntropy(table)
		logger.Info("player summary",
			"player", player,
			"infosets", len(table),
			"mean_action_spread", avgUncertainty,
		)
	}
	return nil
}

// meanActionEntropy averages, across every infoset in table, how far the
// strategy there is from a pure (deterministic) action choice: 0 when
// every infoset has collapsed onto a single action, approaching 1 as
// strategies stay spread uniformly across many actions. A converged
// equilibrium strategy for a game with genuine mixed-strategy infosets
// won't reach 0, but a strategy that never firms up at infosets where a
// pure action dominates is a sign training hasn't run long enough —
// this is a coarse stand-in for exploitability, not exploitability
// itself (computing the latter requires a best-response solver over the
// full game tree, out of scope for a blueprint-only eval command).
func meanActionEntropy(table persist.PlayerTable) float64 {
	if len(table) == 0 {
		return 0
	}
	total := 0.0
	for _, weights := range table {
		total += actionEntropy(weights)
	}
	return total / float64(len(table))
}

func actionEntropy(weights map[string]float64) float64 {
	if len(weights) <= 1 {
		return 0
	}
	h := 0.0
	for _, w := range weights {
		if w <= 0 {
			continue
		}
		h -= w * math.Log2(w)
	}
	return h / math.Log2(float64(len(weights)))
}
