// Command fosgcfr is the CLI harness around the fosgcfr library: train a
// Vanilla CFR strategy over one of the example games, evaluate a saved
// blueprint, or serve live training progress over a websocket. None of
// this logic lives in the core packages (fosg, policy, infoset, regret,
// traversal, cfr) — per spec.md's "called by a host harness, not a wire
// protocol", this binary is that harness.
package main

import (
	"github.com/alecthomas/kong"

	"github.com/mthaler/fosgcfr/cmd/fosgcfr/shared"
)

var cli struct {
	Debug    bool `help:"enable debug logging"`
	JSONLogs bool `help:"emit structured JSON logs instead of colorized text"`

	Train TrainCmd `cmd:"" help:"run Vanilla CFR and write a blueprint"`
	Eval  EvalCmd  `cmd:"" help:"summarize a saved blueprint"`
	Serve ServeCmd `cmd:"" help:"train while broadcasting live progress over websocket"`
	Batch BatchCmd `cmd:"" help:"run every block in an HCL batch file in sequence"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("fosgcfr"),
		kong.Description("Vanilla CFR over factored-observation stochastic games"),
		kong.UsageOnError(),
	)

	logger := shared.NewLogger(cli.Debug, cli.JSONLogs)
	ctx, cancel := shared.SignalContext(logger)
	defer cancel()

	err := kctx.Run(ctx, logger)
	kctx.FatalIfErrorf(err)
}
