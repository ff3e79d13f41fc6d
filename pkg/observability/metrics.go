package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pacerkit/pacer/pkg/runner"
	"github.com/pacerkit/pacer/pkg/state"
)

// Metrics exposes run lifecycle counters. All counters are registered on
// the registerer passed to NewMetrics, so callers control the scrape
// surface (the serve command wires the default registry).
type Metrics struct {
	transitions       *prometheus.CounterVec
	runsCompleted     *prometheus.CounterVec
	heartbeats        prometheus.Counter
	heartbeatFailures prometheus.Counter
}

// NewMetrics creates and registers the lifecycle counters.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pacer",
			Name:      "state_transitions_total",
			Help:      "State transitions observed by the handler chain.",
		}, []string{"from", "to"}),
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pacer",
			Name:      "runs_completed_total",
			Help:      "Runs that reached a terminal state, by outcome.",
		}, []string{"outcome"}),
		heartbeats: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pacer",
			Name:      "heartbeats_total",
			Help:      "Liveness pulses emitted by the heartbeat supervisor.",
		}),
		heartbeatFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pacer",
			Name:      "heartbeat_failures_total",
			Help:      "Heartbeat pulses that returned an error.",
		}),
	}
	reg.MustRegister(m.transitions, m.runsCompleted, m.heartbeats, m.heartbeatFailures)
	return m
}

// ObserveHeartbeat records a pulse and, when err is non-nil, a failure.
func (m *Metrics) ObserveHeartbeat(err error) {
	m.heartbeats.Inc()
	if err != nil {
		m.heartbeatFailures.Inc()
	}
}

// Heartbeater wraps hb so every pulse is counted, passing the pulse result
// through unchanged.
func (m *Metrics) Heartbeater(hb runner.Heartbeater) runner.Heartbeater {
	return runner.HeartbeatFunc(func(ctx context.Context) error {
		err := hb.Heartbeat(ctx)
		m.ObserveHeartbeat(err)
		return err
	})
}

// ObserveRunOutcome records a terminal state.
func (m *Metrics) ObserveRunOutcome(s *state.State) {
	if s == nil {
		return
	}
	m.runsCompleted.WithLabelValues(string(s.Unwrap().Type)).Inc()
}

// Handler returns a StateHandler that counts transitions. It never
// overrides the state in flight.
func (m *Metrics) Handler() runner.StateHandler {
	return func(r *runner.Runner, old, new *state.State) (*state.State, error) {
		from, to := "none", "none"
		if old != nil {
			from = string(old.Unwrap().Type)
		}
		if new != nil {
			to = string(new.Unwrap().Type)
		}
		m.transitions.WithLabelValues(from, to).Inc()
		return nil, nil
	}
}
