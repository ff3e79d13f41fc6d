package signals_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacerkit/pacer/pkg/signals"
	"github.com/pacerkit/pacer/pkg/state"
)

func TestAsEndRun(t *testing.T) {
	sig := signals.NewEndRun(state.Failed("stop"))

	got, ok := signals.AsEndRun(sig)
	require.True(t, ok)
	assert.Same(t, sig, got)

	// Survives wrapping.
	wrapped := fmt.Errorf("transition gate: %w", sig)
	got, ok = signals.AsEndRun(wrapped)
	require.True(t, ok)
	assert.True(t, got.State.IsFailed())

	_, ok = signals.AsEndRun(errors.New("plain"))
	assert.False(t, ok)
}

func TestAsPause(t *testing.T) {
	sig := signals.NewPause(state.Paused())

	got, ok := signals.AsPause(sig)
	require.True(t, ok)
	assert.True(t, got.State.IsPaused())

	_, ok = signals.AsPause(signals.NewEndRun(state.Success()))
	assert.False(t, ok)
}

func TestIsSignal(t *testing.T) {
	assert.True(t, signals.IsSignal(signals.NewEndRun(state.Success())))
	assert.True(t, signals.IsSignal(signals.NewPause(state.Paused())))
	assert.False(t, signals.IsSignal(errors.New("disk on fire")))
	assert.False(t, signals.IsSignal(nil))
}

func TestErrorMessagesNameTheState(t *testing.T) {
	assert.Equal(t, "end run: success", signals.NewEndRun(state.Success()).Error())
	assert.Equal(t, "pause run: paused", signals.NewPause(state.Paused()).Error())
}
