package state

import "fmt"

// Type identifies a run-state variant.
type Type string

const (
	TypePending   Type = "pending"
	TypeScheduled Type = "scheduled"
	TypeRunning   Type = "running"
	TypeSuccess   Type = "success"
	TypeFailed    Type = "failed"
	TypeSkipped   Type = "skipped"
	TypeCached    Type = "cached"
	TypeRetrying  Type = "retrying"
	TypePaused    Type = "paused"
	TypeResume    Type = "resume"

	// Meta variants wrap another state without changing its classification.
	TypeSubmitted Type = "submitted"
	TypeQueued    Type = "queued"
)

// maxUnwrapDepth bounds Unwrap so a hand-built cyclic chain can never loop
// forever. The constructors flatten meta-in-meta, so values built through
// them never need more than one hop.
const maxUnwrapDepth = 8

// State is an immutable snapshot of where a unit of work sits in its
// lifecycle. Transitions always produce a new instance; nothing mutates a
// State after construction.
type State struct {
	Type    Type   `json:"type"`
	Message string `json:"message,omitempty"`

	// Result carries an optional payload for terminal states.
	Result any `json:"result,omitempty"`

	// Inner is the wrapped state for meta variants (Submitted, Queued).
	// It is owned by this value; non-meta states leave it nil.
	Inner *State `json:"inner,omitempty"`
}

// Pending returns a fresh Pending state.
func Pending() *State { return &State{Type: TypePending} }

// Scheduled returns a fresh Scheduled state.
func Scheduled() *State { return &State{Type: TypeScheduled} }

// Running returns a fresh Running state.
func Running() *State { return &State{Type: TypeRunning} }

// Success returns a fresh Success state.
func Success() *State { return &State{Type: TypeSuccess} }

// Failed returns a Failed state with a human-readable message.
func Failed(msg string) *State { return &State{Type: TypeFailed, Message: msg} }

// Failedf is Failed with fmt-style formatting.
func Failedf(format string, args ...any) *State {
	return &State{Type: TypeFailed, Message: fmt.Sprintf(format, args...)}
}

// Skipped returns a fresh Skipped state.
func Skipped() *State { return &State{Type: TypeSkipped} }

// Cached returns a fresh Cached state.
func Cached() *State { return &State{Type: TypeCached} }

// Retrying returns a fresh Retrying state. The runner recognizes this
// variant but never computes it; retry policy lives in the orchestration
// layer.
func Retrying() *State { return &State{Type: TypeRetrying} }

// Paused returns a fresh Paused state.
func Paused() *State { return &State{Type: TypePaused} }

// Resume returns a fresh Resume state.
func Resume() *State { return &State{Type: TypeResume} }

// Submitted wraps an inner state to mark it as handed to an execution slot.
// A meta-state argument is flattened to its innermost state, so constructed
// values never nest meta inside meta.
func Submitted(inner *State) *State {
	return &State{Type: TypeSubmitted, Inner: flatten(inner)}
}

// Queued wraps an inner state to mark it as parked in a queue.
// A meta-state argument is flattened to its innermost state, so constructed
// values never nest meta inside meta.
func Queued(inner *State) *State {
	return &State{Type: TypeQueued, Inner: flatten(inner)}
}

func flatten(inner *State) *State {
	if inner == nil {
		return nil
	}
	return inner.Unwrap()
}

// WithMessage returns a copy carrying the given message.
func (s *State) WithMessage(msg string) *State {
	c := *s
	c.Message = msg
	return &c
}

// WithResult returns a copy carrying the given result payload.
func (s *State) WithResult(result any) *State {
	c := *s
	c.Result = result
	return &c
}

// IsMeta reports whether the state is a wrapper (Submitted or Queued).
func (s *State) IsMeta() bool {
	return s.Type == TypeSubmitted || s.Type == TypeQueued
}

// Unwrap resolves meta states to their inner state. It is idempotent for
// non-meta states and terminates even on malformed input: after
// maxUnwrapDepth hops, or on a meta state with no inner, the current value
// is returned as-is.
func (s *State) Unwrap() *State {
	cur := s
	for i := 0; i < maxUnwrapDepth && cur.IsMeta(); i++ {
		if cur.Inner == nil {
			break
		}
		cur = cur.Inner
	}
	return cur
}

// IsSuccessful reports whether the outermost non-meta variant counts as a
// successful outcome (Success or Cached).
func (s *State) IsSuccessful() bool {
	switch s.Unwrap().Type {
	case TypeSuccess, TypeCached:
		return true
	}
	return false
}

// IsFailed reports whether the run failed.
func (s *State) IsFailed() bool { return s.Unwrap().Type == TypeFailed }

// IsPending reports whether the run has not been picked up yet. Retrying
// counts: the work is waiting to run again.
func (s *State) IsPending() bool {
	switch s.Unwrap().Type {
	case TypePending, TypeRetrying:
		return true
	}
	return false
}

// IsScheduled reports whether the run has a scheduled start.
func (s *State) IsScheduled() bool { return s.Unwrap().Type == TypeScheduled }

// IsRunning reports whether the run is actively executing.
func (s *State) IsRunning() bool { return s.Unwrap().Type == TypeRunning }

// IsSkipped reports whether the run was skipped.
func (s *State) IsSkipped() bool { return s.Unwrap().Type == TypeSkipped }

// IsPaused reports whether the run requested suspension.
func (s *State) IsPaused() bool { return s.Unwrap().Type == TypePaused }

// IsFinished reports whether the run reached a terminal variant.
func (s *State) IsFinished() bool {
	switch s.Unwrap().Type {
	case TypeSuccess, TypeFailed, TypeSkipped, TypeCached:
		return true
	}
	return false
}

// String renders the state for logs, e.g. "failed(step exploded)" or
// "submitted(pending)".
func (s *State) String() string {
	if s.IsMeta() && s.Inner != nil {
		return fmt.Sprintf("%s(%s)", s.Type, s.Inner.String())
	}
	if s.Message != "" {
		return fmt.Sprintf("%s(%s)", s.Type, s.Message)
	}
	return string(s.Type)
}
