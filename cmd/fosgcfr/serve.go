package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/mthaler/fosgcfr/telemetry"
)

// ServeCmd runs training in the background while a websocket endpoint
// broadcasts live Progress snapshots, grounded on internal/server's
// connection/hub pattern trimmed to the single responsibility of
// fan-out broadcast (telemetry.Hub, §3.B of SPEC_FULL.md).
type ServeCmd struct {
	Game          string `help:"game to train (trivial, chance, rps, kuhn)" enum:"trivial,chance,rps,kuhn" required:""`
	Iterations    int    `help:"number of CFR iterations to run" default:"10000"`
	Alternating   bool   `help:"update one player per iteration instead of all simultaneously"`
	Addr          string `help:"address to serve the websocket endpoint on" default:":8080"`
	Out           string `help:"optional path to write the trained blueprint once training finishes"`
	ProgressEvery int    `help:"log progress every N iterations (0 derives iterations/100)" default:"0"`
}

func (cmd *ServeCmd) Run(ctx context.Context, logger *log.Logger) error {
	hub := telemetry.NewHub(logger.WithPrefix("telemetry"))

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "fosgcfr serve: %d subscribers connected, websocket at /ws\n", hub.Count())
	})

	server := &http.Server{Addr: cmd.Addr, Handler: mux}

	// Closes the server on an external cancellation (Ctrl-C). Training
	// finishing on its own closes it through the deferred server.Close in
	// the training goroutine below. Not part of the errgroup since nothing
	// needs to wait on it — it only ever unblocks ListenAndServe.
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("serving", "addr", cmd.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	train := &TrainCmd{
		Game:          cmd.Game,
		Out:           cmd.Out,
		Iterations:    cmd.Iterations,
		Alternating:   cmd.Alternating,
		ProgressEvery: cmd.ProgressEvery,
	}
	progressEvery := cmd.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = cmd.Iterations / 100
		if progressEvery == 0 {
			progressEvery = 1
		}
	}

	group.Go(func() error {
		defer server.Close()
		return train.runTable(gctx, logger, 0, cmd.Out, progressEvery, func(s telemetrySnapshot) {
			hub.Publish(telemetry.Progress{
				Iteration:        s.Iteration,
				RegretTableSize:  s.RegretTableSize,
				ElapsedIteration: s.ElapsedIteration,
			})
		})
	})

	return group.Wait()
}
