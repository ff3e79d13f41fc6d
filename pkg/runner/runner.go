package runner

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pacerkit/pacer/internal/logging"
	"github.com/pacerkit/pacer/pkg/signals"
	"github.com/pacerkit/pacer/pkg/state"
)

// Namespace prefixes every runner logger name, enabling per-type log
// filtering ("pacer.Runner", "pacer.FlowRunner", ...).
const Namespace = "pacer"

// ErrInvalidHandlerConfiguration is returned by New when the state handler
// chain is malformed (a nil handler in the chain).
var ErrInvalidHandlerConfiguration = errors.New("state handlers must be a collection of non-nil handler funcs")

// Context carries caller-owned key/value pairs through initialization and
// every handler invocation. The core threads it by reference and never
// interprets its contents.
type Context map[string]any

// StateHandler observes (and may veto) a state transition. It receives the
// runner, the outgoing state, and the state currently in flight. Returning
// a non-nil state overrides the in-flight state for the next handler in the
// chain; returning nil means "no override". Returning an error aborts the
// remaining chain and propagates to the caller of HandleStateChange.
type StateHandler func(r *Runner, old, new *state.State) (*state.State, error)

// TargetHandler is the overridable hook a concrete runner supplies for
// target-specific transition side effects (persisting the transition,
// updating a task record, ...). It returns the state to adopt; nil means
// "adopt the proposed state unchanged". It may return signals.EndRun or
// signals.Pause to transfer control; any other error is converted by the
// runner into an EndRun carrying a Failed state.
type TargetHandler func(old, new *state.State) (*state.State, error)

// Runner drives a unit of work through its run-state lifecycle. Concrete
// runners compose it and plug in a TargetHandler; the zero configuration is
// usable on its own.
type Runner struct {
	name     string
	logger   *slog.Logger
	handlers []StateHandler
	target   TargetHandler
}

// Option configures a Runner.
type Option func(*Runner)

// WithStateHandlers installs the ordered transition-observer chain.
func WithStateHandlers(handlers []StateHandler) Option {
	return func(r *Runner) {
		r.handlers = handlers
	}
}

// WithTargetHandler plugs in the concrete runner's transition hook.
func WithTargetHandler(h TargetHandler) Option {
	return func(r *Runner) {
		r.target = h
	}
}

// WithLogger sets the base structured logger. The runner decorates it with
// its own logger name.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithTypeName sets the concrete runner type used for logger naming.
// Defaults to "Runner".
func WithTypeName(name string) Option {
	return func(r *Runner) {
		r.name = name
	}
}

// New constructs a Runner and validates its handler chain. A chain holding
// a nil handler fails with ErrInvalidHandlerConfiguration before any run
// occurs.
func New(opts ...Option) (*Runner, error) {
	r := &Runner{name: "Runner"}
	for _, opt := range opts {
		opt(r)
	}

	for i, h := range r.handlers {
		if h == nil {
			return nil, fmt.Errorf("%w: handler at position %d is nil", ErrInvalidHandlerConfiguration, i)
		}
	}

	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	r.logger = r.logger.With("logger", r.LoggerName())

	return r, nil
}

// LoggerName returns the canonical logger name for this runner instance,
// e.g. "pacer.Runner".
func (r *Runner) LoggerName() string {
	return Namespace + "." + r.name
}

// Logger returns the runner's named structured logger.
func (r *Runner) Logger() *slog.Logger {
	return r.logger
}

// StateHandlers returns the installed handler chain.
func (r *Runner) StateHandlers() []StateHandler {
	return r.handlers
}

// InitializeRun normalizes the initial state and context of a run. A nil
// state becomes a fresh Pending; meta states are fully unwrapped. Non-meta
// states and the context pass through with identity preserved. The returned
// state is never a meta state.
func (r *Runner) InitializeRun(s *state.State, rc Context) (*state.State, Context) {
	if s == nil {
		s = state.Pending()
	}
	if s.IsMeta() {
		s = s.Unwrap()
	}
	if rc == nil {
		rc = Context{}
	}
	return s, rc
}

// HandleStateChange is the gate every state transition passes through.
// It calls the target handler first, then runs the handler chain in
// registration order. EndRun and Pause from the target handler re-propagate
// verbatim; any other target-handler error resolves the run into a definite
// failure by raising EndRun with a Failed state. A handler error aborts the
// remaining chain.
func (r *Runner) HandleStateChange(old, new *state.State) (*state.State, error) {
	adopted, err := r.callTarget(old, new)
	if err != nil {
		if signals.IsSignal(err) {
			return nil, err
		}
		r.logger.Error("state transition handler failed",
			"err", err, "old_state", old, "new_state", new)
		failed := state.Failedf("error while handling state change: %v", err)
		return nil, signals.NewEndRun(failed)
	}
	if adopted == nil {
		adopted = new
	}

	for _, handler := range r.handlers {
		next, err := handler(r, old, adopted)
		if err != nil {
			return nil, err
		}
		if next != nil {
			adopted = next
		}
	}
	return adopted, nil
}

func (r *Runner) callTarget(old, new *state.State) (*state.State, error) {
	if r.target == nil {
		return new, nil
	}
	return r.target(old, new)
}
