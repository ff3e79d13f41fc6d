package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pacerkit/pacer"
	"github.com/pacerkit/pacer/internal/config"
	"github.com/pacerkit/pacer/internal/logging"
	"github.com/pacerkit/pacer/internal/presentation/tui"
	"github.com/pacerkit/pacer/pkg/adapters/memory"
	redisstore "github.com/pacerkit/pacer/pkg/adapters/redis"
	"github.com/pacerkit/pacer/pkg/flow"
	"github.com/pacerkit/pacer/pkg/observability"
	"github.com/pacerkit/pacer/pkg/ports"
	"github.com/pacerkit/pacer/pkg/registry"
	"github.com/pacerkit/pacer/pkg/runner"
	"github.com/pacerkit/pacer/pkg/signals"
	"github.com/pacerkit/pacer/pkg/state"
)

// ErrRunFailed marks a run that completed in a Failed state, so the command
// layer can exit non-zero without treating it as a CLI error.
var ErrRunFailed = errors.New("run failed")

// runMetrics is registered once on the default registry, so the serve
// command's /metrics endpoint gathers the run counters.
var runMetrics = observability.NewMetrics(prometheus.DefaultRegisterer)

// RunOptions carries the run command's flags.
type RunOptions struct {
	FlowPath   string
	ConfigPath string
	Resume     string
	StoreKind  string
	Debug      bool
	JSON       bool
}

// RunFlow loads a flow definition and drives it to completion under
// heartbeat supervision.
func RunFlow(ctx context.Context, opts RunOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	level := logging.ParseLevel(cfg.Log.Level)
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := logging.New(level)

	if !opts.JSON {
		tui.PrintBanner(pacer.Version)
	}

	store, err := buildStore(cfg, opts.StoreKind)
	if err != nil {
		return err
	}

	def, err := flow.LoadDefinition(opts.FlowPath)
	if err != nil {
		return err
	}

	handlers, err := builtinRegistry(logger, runMetrics).Resolve(def.Handlers)
	if err != nil {
		return err
	}

	// The default pulse is assigned below; declaring fr here lets the
	// counting heartbeater close over it.
	var fr *flow.Runner
	hb := runMetrics.Heartbeater(runner.HeartbeatFunc(func(ctx context.Context) error {
		return fr.Heartbeat(ctx)
	}))

	frOpts := []flow.Option{
		flow.WithStore(store),
		flow.WithLogger(logger),
		flow.WithStateHandlers(handlers),
		flow.WithHeartbeater(hb),
		flow.WithHeartbeatInterval(cfg.HeartbeatInterval()),
	}

	var initial *state.State
	rc := runner.Context{}
	if opts.Resume != "" {
		snap, err := store.Load(ctx, opts.Resume)
		if err != nil {
			return fmt.Errorf("cannot resume run %s: %w", opts.Resume, err)
		}
		initial, rc = resumeState(snap)
		frOpts = append(frOpts, flow.WithRunID(opts.Resume))
	}

	fr, err = flow.NewRunner(def, frOpts...)
	if err != nil {
		return err
	}

	res, err := fr.Execute(ctx, initial, rc)
	if err != nil {
		if pause, ok := signals.AsPause(err); ok {
			fmt.Printf("Run paused: %s\n", pause.State)
			fmt.Printf("Resume with: pacer run %s --resume %s\n", opts.FlowPath, fr.RunID())
			return nil
		}
		return err
	}

	runMetrics.ObserveRunOutcome(res)
	printResult(opts, def, fr.RunID(), res, rc)

	if res.IsFailed() {
		return fmt.Errorf("%w: %s", ErrRunFailed, res.Message)
	}
	return nil
}

// resumeState maps a stored snapshot to the initial state of the next
// attempt: a paused snapshot resumes, anything else replays as-is (the
// runner short-circuits finished states).
func resumeState(snap *ports.RunSnapshot) (*state.State, runner.Context) {
	rc := snap.Context
	if rc == nil {
		rc = runner.Context{}
	}
	if snap.State != nil && snap.State.IsPaused() {
		return state.Resume(), rc
	}
	return snap.State, rc
}

func printResult(opts RunOptions, def *flow.Definition, runID string, res *state.State, rc runner.Context) {
	if opts.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{
			"run_id": runID,
			"flow":   def.Name,
			"state":  res,
		})
		return
	}
	fmt.Print(tui.RenderReport(def.Name, runID, res, rc))
	fmt.Printf("Result: %s\n", tui.ColorState(string(res.Unwrap().Type)))
}

// buildStore selects the snapshot store. The kind flag overrides config.
func buildStore(cfg *config.Config, kindOverride string) (ports.StateStore, error) {
	kind := cfg.Store.Kind
	if kindOverride != "" {
		kind = kindOverride
	}
	switch kind {
	case "", "memory":
		return memory.NewStore(), nil
	case "redis":
		return redisstore.New(cfg.Store.Redis.Address, cfg.Store.Redis.Password, cfg.Store.Redis.DB), nil
	default:
		return nil, fmt.Errorf("unknown store kind: %s", kind)
	}
}

// builtinRegistry registers the state handlers flow files may reference by
// name.
func builtinRegistry(logger *slog.Logger, metrics *observability.Metrics) *registry.Registry {
	reg := registry.NewRegistry()
	reg.Register("log", runner.LoggingHandler(logger))
	reg.Register("metrics", metrics.Handler())
	reg.Register("pause-on-fail", runner.PauseOnFailHandler())
	return reg
}
