package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pacerkit/pacer/pkg/state"
)

// DefaultHeartbeatInterval is used when no interval is configured.
const DefaultHeartbeatInterval = 30 * time.Second

// Heartbeater emits a single liveness pulse. Pulses are fire-and-forget:
// implementations must not touch run state or context, and any error they
// return is logged and discarded by the supervisor.
type Heartbeater interface {
	Heartbeat(ctx context.Context) error
}

// HeartbeatFunc adapts a plain function to the Heartbeater interface.
type HeartbeatFunc func(ctx context.Context) error

// Heartbeat implements Heartbeater.
func (f HeartbeatFunc) Heartbeat(ctx context.Context) error { return f(ctx) }

// RunFunc is a primary execution entry point composable with the heartbeat
// supervisor.
type RunFunc func(ctx context.Context) (*state.State, error)

// RunWithHeartbeat executes run while pulsing hb at the given interval on a
// separate goroutine. The pulse is fully isolated from the primary result:
// a failing or panicking heartbeat is logged and discarded, never aborting
// the run. On every exit path the heartbeat goroutine is stopped and joined
// before control returns, and the wrapper returns exactly what run returns.
func RunWithHeartbeat(ctx context.Context, hb Heartbeater, logger *slog.Logger, interval time.Duration, run RunFunc) (*state.State, error) {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	hbCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	var wg sync.WaitGroup

	if hb != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-hbCtx.Done():
					return
				case <-ticker.C:
					pulse(hbCtx, hb, logger)
				}
			}
		}()
	}

	defer func() {
		stop()
		wg.Wait()
	}()

	return run(ctx)
}

// pulse invokes a single heartbeat, containing both returned errors and
// panics so a broken pulse can never leak into the primary execution.
func pulse(ctx context.Context, hb Heartbeater, logger *slog.Logger) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("heartbeat panicked", "panic", rec)
		}
	}()
	if err := hb.Heartbeat(ctx); err != nil {
		logger.Warn("heartbeat failed", "err", err)
	}
}
