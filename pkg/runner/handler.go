package runner

import (
	"log/slog"

	"github.com/pacerkit/pacer/pkg/signals"
	"github.com/pacerkit/pacer/pkg/state"
)

// LoggingHandler returns a StateHandler that logs every transition at Info
// level. It never overrides the state in flight.
func LoggingHandler(logger *slog.Logger) StateHandler {
	return func(r *Runner, old, new *state.State) (*state.State, error) {
		logger.Info("state transition", "old_state", old, "new_state", new)
		return nil, nil
	}
}

// PauseOnFailHandler returns a StateHandler that vetoes a transition into
// Failed by raising a Pause instead, so the run holds for intervention and
// can be resumed. Every other state passes through untouched.
func PauseOnFailHandler() StateHandler {
	return func(r *Runner, old, new *state.State) (*state.State, error) {
		if new == nil || !new.IsFailed() {
			return nil, nil
		}
		paused := state.Paused().WithMessage(new.Unwrap().Message)
		return nil, signals.NewPause(paused)
	}
}
