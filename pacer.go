package pacer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pacerkit/pacer/internal/logging"
	"github.com/pacerkit/pacer/pkg/adapters/memory"
	"github.com/pacerkit/pacer/pkg/flow"
	"github.com/pacerkit/pacer/pkg/ports"
	"github.com/pacerkit/pacer/pkg/registry"
	"github.com/pacerkit/pacer/pkg/runner"
	"github.com/pacerkit/pacer/pkg/state"
)

// Version is the release version of the pacer module.
const Version = "0.3.0"

// Engine is the high-level entry point for the pacer library.
// It wraps the flow runner and provides a simplified API for consumers
// who do not need to assemble the pieces themselves.
type Engine struct {
	store      ports.StateStore
	logger     *slog.Logger
	handlers   []runner.StateHandler
	flowOpts   []flow.Option
	definition *flow.Definition
	Name       string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore injects a snapshot store. Defaults to the in-memory store.
func WithStore(store ports.StateStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStateHandlers registers transition observers applied to every run.
func WithStateHandlers(handlers ...runner.StateHandler) Option {
	return func(e *Engine) {
		e.handlers = append(e.handlers, handlers...)
	}
}

// WithFlowOptions forwards additional options to each flow runner the
// engine builds, for callers who need the lower-level knobs.
func WithFlowOptions(opts ...flow.Option) Option {
	return func(e *Engine) {
		e.flowOpts = append(e.flowOpts, opts...)
	}
}

// New initializes a new pacer Engine from a flow definition file.
func New(flowPath string, opts ...Option) (*Engine, error) {
	if flowPath == "" {
		return nil, fmt.Errorf("flowPath is required")
	}

	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	def, err := flow.LoadDefinition(flowPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load flow: %w", err)
	}
	eng.Name = def.Name

	// Handlers named in the flow file resolve against the built-in set and
	// run ahead of any handlers supplied through options.
	logger := eng.logger
	if logger == nil {
		logger = logging.NewNop()
	}
	reg := registry.NewRegistry()
	reg.Register("log", runner.LoggingHandler(logger))
	reg.Register("pause-on-fail", runner.PauseOnFailHandler())
	named, err := reg.Resolve(def.Handlers)
	if err != nil {
		return nil, err
	}

	eng.flowOpts = append([]flow.Option{
		flow.WithStore(eng.store),
		flow.WithStateHandlers(append(named, eng.handlers...)),
	}, eng.flowOpts...)
	if eng.logger != nil {
		eng.flowOpts = append(eng.flowOpts, flow.WithLogger(eng.logger))
	}

	eng.definition = def
	return eng, nil
}

// Run drives the flow from a fresh Pending state under heartbeat
// supervision and returns the terminal (or paused) state plus the run ID.
func (e *Engine) Run(ctx context.Context, rc runner.Context) (*state.State, string, error) {
	fr, err := flow.NewRunner(e.definition, e.flowOpts...)
	if err != nil {
		return nil, "", err
	}
	res, err := fr.Execute(ctx, nil, rc)
	return res, fr.RunID(), err
}

// Resume continues a previously paused run identified by runID.
// The stored snapshot supplies the completed-step progress.
func (e *Engine) Resume(ctx context.Context, runID string) (*state.State, error) {
	snap, err := e.store.Load(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("cannot resume run %s: %w", runID, err)
	}

	initial := snap.State
	if initial != nil && initial.IsPaused() {
		initial = state.Resume()
	}
	rc := snap.Context
	if rc == nil {
		rc = runner.Context{}
	}

	opts := append([]flow.Option{flow.WithRunID(runID)}, e.flowOpts...)
	fr, err := flow.NewRunner(e.definition, opts...)
	if err != nil {
		return nil, err
	}
	return fr.Execute(ctx, initial, rc)
}

// Store returns the snapshot store used by the engine.
func (e *Engine) Store() ports.StateStore {
	return e.store
}
