package shared

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

// SignalContext returns a context cancelled on SIGINT/SIGTERM, logging the
// cancellation through logger. Grounded on
// cmd/pokerforbots/shared/signals.go's SetupSignalHandlerWithLogger, using
// os/signal.NotifyContext rather than a hand-rolled channel+goroutine since
// the standard library gained that helper after the teacher's version was
// written and it removes the need to manage the signal channel directly.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		logger.Info("received signal, shutting down gracefully")
	}()
	return ctx, cancel
}
