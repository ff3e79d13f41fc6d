package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// counterValue reads a counter from the default registry, optionally
// selecting a label pair. Missing counters read as zero.
func counterValue(t *testing.T, name, labelName, labelValue string) float64 {
	t.Helper()

	mfs, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelName == "" {
				return m.GetCounter().GetValue()
			}
			for _, lp := range m.GetLabel() {
				if lp.GetName() == labelName && lp.GetValue() == labelValue {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestRunFlow_RecordsHeartbeatAndOutcomeMetrics(t *testing.T) {
	dir := t.TempDir()
	flowPath := writeFile(t, dir, "flow.yaml", `name: metrics-run
steps:
  - name: nap
    uses: sleep
    with:
      duration: 80ms
`)
	cfgPath := writeFile(t, dir, "pacer.yaml", "heartbeat:\n  interval_seconds: 0.01\n")

	beats := counterValue(t, "pacer_heartbeats_total", "", "")
	successes := counterValue(t, "pacer_runs_completed_total", "outcome", "success")

	err := RunFlow(context.Background(), RunOptions{
		FlowPath:   flowPath,
		ConfigPath: cfgPath,
		JSON:       true,
	})
	require.NoError(t, err)

	assert.Greater(t, counterValue(t, "pacer_heartbeats_total", "", ""), beats,
		"a run must pulse the heartbeat counters")
	assert.Equal(t, successes+1, counterValue(t, "pacer_runs_completed_total", "outcome", "success"))
}

func TestRunFlow_FailedRunReturnsErrRunFailed(t *testing.T) {
	dir := t.TempDir()
	flowPath := writeFile(t, dir, "flow.yaml", `name: doomed
steps:
  - name: boom
    uses: fail
    with:
      message: wires crossed
`)

	err := RunFlow(context.Background(), RunOptions{FlowPath: flowPath, JSON: true})
	assert.ErrorIs(t, err, ErrRunFailed)
}

func TestRunFlow_UnknownStoreKind(t *testing.T) {
	dir := t.TempDir()
	flowPath := writeFile(t, dir, "flow.yaml", "name: f\nsteps:\n  - {name: s, uses: sleep, with: {duration: 1ms}}\n")

	err := RunFlow(context.Background(), RunOptions{FlowPath: flowPath, StoreKind: "etcd", JSON: true})
	assert.Error(t, err)
}
