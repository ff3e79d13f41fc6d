// Package signals defines the two control-flow outcomes that short-circuit
// a run: EndRun and Pause. Both are typed errors carrying an authoritative
// state payload, so collaborators propagate them through ordinary error
// returns while call sites stay able to tell them apart from genuine faults
// with errors.As.
package signals

import (
	"errors"
	"fmt"

	"github.com/pacerkit/pacer/pkg/state"
)

// EndRun signals that execution must stop immediately. The carried state is
// the run's authoritative outcome. The runner raises it when a transition
// handler faults; handlers and subclass hooks may raise it themselves to
// force early termination.
type EndRun struct {
	State *state.State
}

func (e *EndRun) Error() string {
	return fmt.Sprintf("end run: %s", e.State)
}

// Pause requests cooperative suspension of the run. Unlike EndRun it is
// never absorbed by the core; it propagates to the caller unchanged.
type Pause struct {
	State *state.State
}

func (p *Pause) Error() string {
	return fmt.Sprintf("pause run: %s", p.State)
}

// NewEndRun builds an EndRun carrying the given state.
func NewEndRun(s *state.State) *EndRun { return &EndRun{State: s} }

// NewPause builds a Pause carrying the given state.
func NewPause(s *state.State) *Pause { return &Pause{State: s} }

// AsEndRun reports whether err is (or wraps) an EndRun signal.
func AsEndRun(err error) (*EndRun, bool) {
	var e *EndRun
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// AsPause reports whether err is (or wraps) a Pause signal.
func AsPause(err error) (*Pause, bool) {
	var p *Pause
	if errors.As(err, &p) {
		return p, true
	}
	return nil, false
}

// IsSignal reports whether err is one of the two control-flow signals,
// which must always pass through fault handling untouched.
func IsSignal(err error) bool {
	if _, ok := AsEndRun(err); ok {
		return true
	}
	_, ok := AsPause(err)
	return ok
}
