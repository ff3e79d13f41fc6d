package flow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pacerkit/pacer/pkg/ports"
	"github.com/pacerkit/pacer/pkg/runner"
	"github.com/pacerkit/pacer/pkg/signals"
	"github.com/pacerkit/pacer/pkg/state"
)

// KeyStepsCompleted is the run-context key tracking flow progress, so a
// paused run resumes at the step it stopped before.
const KeyStepsCompleted = "steps_completed"

// KeyResumed is a one-shot run-context marker set when a run starts from an
// explicit Resume state. The pause step consumes it to let the run pass
// exactly one gate; a later gate in the same run pauses again.
const KeyResumed = "resumed"

// Runner executes a flow definition step by step, driving every observed
// state change through the transition gate. It is the concrete
// specialization of the base runner for sequential flows.
type Runner struct {
	*runner.Runner

	def       *Definition
	steps     []Step
	store     ports.StateStore
	runID     string
	heartbeat runner.Heartbeater
	interval  time.Duration

	// Set for the duration of Run; the primary path is synchronous so no
	// locking is needed, and the heartbeat never touches these.
	runCtx     context.Context
	runContext runner.Context
}

// Option configures a flow Runner.
type Option func(*options)

type options struct {
	store     ports.StateStore
	logger    *slog.Logger
	handlers  []runner.StateHandler
	factories map[string]Factory
	runID     string
	heartbeat runner.Heartbeater
	interval  time.Duration
}

// WithStore persists run snapshots on every transition, enabling resume.
func WithStore(store ports.StateStore) Option {
	return func(o *options) { o.store = store }
}

// WithLogger sets the base structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithStateHandlers installs the transition-observer chain.
func WithStateHandlers(handlers []runner.StateHandler) Option {
	return func(o *options) { o.handlers = handlers }
}

// WithStepFactories overrides or extends the built-in step kinds.
func WithStepFactories(factories map[string]Factory) Option {
	return func(o *options) {
		for kind, f := range factories {
			o.factories[kind] = f
		}
	}
}

// WithRunID pins the run ID instead of generating one.
func WithRunID(id string) Option {
	return func(o *options) { o.runID = id }
}

// WithHeartbeater sets the liveness pulse implementation used by Execute.
func WithHeartbeater(hb runner.Heartbeater) Option {
	return func(o *options) { o.heartbeat = hb }
}

// WithHeartbeatInterval sets the pulse cadence used by Execute.
func WithHeartbeatInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

// NewRunner builds a flow runner from a validated definition. Unknown step
// kinds and malformed step options fail here, before any run occurs.
func NewRunner(def *Definition, opts ...Option) (*Runner, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	o := &options{factories: BuiltinSteps(), interval: runner.DefaultHeartbeatInterval}
	for _, opt := range opts {
		opt(o)
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}

	fr := &Runner{
		def:       def,
		store:     o.store,
		runID:     o.runID,
		heartbeat: o.heartbeat,
		interval:  o.interval,
	}

	steps := make([]Step, 0, len(def.Steps))
	for _, sd := range def.Steps {
		factory, ok := o.factories[sd.Uses]
		if !ok {
			return nil, fmt.Errorf("step %q uses unknown kind %q", sd.Name, sd.Uses)
		}
		step, err := factory(sd.With)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", sd.Name, err)
		}
		steps = append(steps, step)
	}
	fr.steps = steps

	base, err := runner.New(
		runner.WithTypeName("FlowRunner"),
		runner.WithLogger(o.logger),
		runner.WithStateHandlers(o.handlers),
		runner.WithTargetHandler(fr.persistTransition),
	)
	if err != nil {
		return nil, err
	}
	fr.Runner = base

	return fr, nil
}

// RunID returns the identifier snapshots are stored under.
func (fr *Runner) RunID() string { return fr.runID }

// Definition returns the flow being executed.
func (fr *Runner) Definition() *Definition { return fr.def }

// Execute runs the flow under heartbeat supervision, using the configured
// Heartbeater (the runner itself by default) and interval.
func (fr *Runner) Execute(ctx context.Context, initial *state.State, rc runner.Context) (*state.State, error) {
	hb := fr.heartbeat
	if hb == nil {
		hb = fr
	}
	return runner.RunWithHeartbeat(ctx, hb, fr.Logger(), fr.interval,
		func(ctx context.Context) (*state.State, error) {
			return fr.Run(ctx, initial, rc)
		})
}

// Heartbeat is the default liveness pulse: a debug log line tagged with the
// run ID. It deliberately never touches run state or context.
func (fr *Runner) Heartbeat(ctx context.Context) error {
	fr.Logger().Debug("heartbeat", "run_id", fr.runID, "flow", fr.def.Name)
	return nil
}

// Run executes the flow's primary path. The returned state is terminal
// (Success/Failed/Skipped/Cached) or the carried state of an absorbed
// EndRun; a Pause signal propagates to the caller as an error, unchanged.
func (fr *Runner) Run(ctx context.Context, initial *state.State, rc runner.Context) (*state.State, error) {
	cur, rc := fr.InitializeRun(initial, rc)
	if cur.Type == state.TypeResume {
		rc[KeyResumed] = true
	}

	fr.runCtx = ctx
	fr.runContext = rc
	defer func() {
		fr.runCtx = nil
		fr.runContext = nil
	}()

	if cur.IsFinished() {
		fr.Logger().Info("run already finished", "run_id", fr.runID, "state", cur)
		return cur, nil
	}
	if cur.IsPaused() {
		// A paused run only proceeds through an explicit Resume state.
		return cur, nil
	}

	next, err := fr.HandleStateChange(cur, state.Running())
	if err != nil {
		return fr.absorb(err)
	}
	cur = next

	for i := stepsCompleted(rc); i < len(fr.def.Steps); i++ {
		sd := fr.def.Steps[i]
		fr.Logger().Info("running step", "run_id", fr.runID, "step", sd.Name, "kind", sd.Uses)

		out, err := fr.steps[i].Run(ctx, rc)
		if err != nil {
			return fr.handleStepError(cur, sd, i, err)
		}
		if out != nil {
			rc["step."+sd.Name] = out
		}
		rc[KeyStepsCompleted] = i + 1
	}

	final := state.Success().WithMessage("all steps completed")
	res, err := fr.HandleStateChange(cur, final)
	if err != nil {
		return fr.absorb(err)
	}
	return res, nil
}

func (fr *Runner) handleStepError(cur *state.State, sd StepDefinition, idx int, err error) (*state.State, error) {
	if pause, ok := signals.AsPause(err); ok {
		return fr.pauseRun(cur, idx, pause)
	}
	if _, ok := signals.AsEndRun(err); ok {
		return fr.absorb(err)
	}

	failed := state.Failedf("step %q failed: %v", sd.Name, err)
	res, herr := fr.HandleStateChange(cur, failed)
	if herr != nil {
		// A handler may veto the failure with a Pause (pause-on-fail);
		// the run holds at this step so resume retries it.
		if pause, ok := signals.AsPause(herr); ok {
			return fr.pauseRun(cur, idx, pause)
		}
		return fr.absorb(herr)
	}
	return res, nil
}

// pauseRun records the run's progress, drives the transition to Paused so
// it is observed and persisted, and hands the pause to the caller.
func (fr *Runner) pauseRun(cur *state.State, idx int, pause *signals.Pause) (*state.State, error) {
	rc := fr.runContext
	rc[KeyStepsCompleted] = idx

	paused := pause.State
	if paused == nil {
		paused = state.Paused()
	}
	if _, herr := fr.HandleStateChange(cur, paused); herr != nil {
		return fr.absorb(herr)
	}
	// Pause is cooperative: it reaches the caller unchanged.
	return nil, pause
}

// absorb resolves a transition-gate error: an EndRun carries the run's
// authoritative terminal state, everything else (including Pause)
// propagates verbatim. Run always returns a state or an error, so an
// EndRun raised without a state resolves to a definite failure.
func (fr *Runner) absorb(err error) (*state.State, error) {
	if end, ok := signals.AsEndRun(err); ok {
		if end.State == nil {
			return state.Failed("run ended without a state"), nil
		}
		return end.State, nil
	}
	return nil, err
}

// persistTransition is the runner's target handler: it saves a snapshot of
// every adopted state so a run can be inspected and resumed.
func (fr *Runner) persistTransition(old, new *state.State) (*state.State, error) {
	fr.Logger().Debug("state change", "run_id", fr.runID, "old_state", old, "new_state", new)
	if fr.store == nil {
		return new, nil
	}

	ctx := fr.runCtx
	if ctx == nil {
		ctx = context.Background()
	}
	snap := &ports.RunSnapshot{
		RunID:     fr.runID,
		FlowName:  fr.def.Name,
		State:     new,
		Context:   fr.runContext,
		UpdatedAt: time.Now().UTC(),
	}
	if err := fr.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to persist transition: %w", err)
	}
	return new, nil
}

// stepsCompleted reads flow progress from the context, tolerating the
// float64 that a JSON round trip through a store produces.
func stepsCompleted(rc runner.Context) int {
	switch v := rc[KeyStepsCompleted].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
