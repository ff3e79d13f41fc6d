package state_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacerkit/pacer/pkg/state"
)

func TestIsMeta(t *testing.T) {
	assert.True(t, state.Submitted(state.Pending()).IsMeta())
	assert.True(t, state.Queued(state.Running()).IsMeta())

	for _, s := range []*state.State{
		state.Pending(), state.Scheduled(), state.Running(), state.Success(),
		state.Failed("boom"), state.Skipped(), state.Cached(), state.Retrying(),
		state.Paused(), state.Resume(),
	} {
		assert.False(t, s.IsMeta(), "state %s should not be meta", s)
	}
}

func TestUnwrap(t *testing.T) {
	inner := state.Retrying()

	// Identity for non-meta states.
	assert.Same(t, inner, inner.Unwrap())

	// Single wrapper.
	assert.Same(t, inner, state.Submitted(inner).Unwrap())
	assert.Same(t, inner, state.Queued(inner).Unwrap())

	// Idempotent: unwrapping an already unwrapped state changes nothing.
	un := state.Queued(inner).Unwrap()
	assert.Same(t, un, un.Unwrap())
}

func TestUnwrap_MalformedChainsTerminate(t *testing.T) {
	// Meta without inner resolves to itself rather than panicking.
	bare := &state.State{Type: state.TypeSubmitted}
	assert.Same(t, bare, bare.Unwrap())

	// A hand-built nested chain (the constructors refuse to produce one)
	// still terminates.
	deep := state.Pending()
	wrapped := deep
	for i := 0; i < 20; i++ {
		wrapped = &state.State{Type: state.TypeQueued, Inner: wrapped}
	}
	res := wrapped.Unwrap()
	require.NotNil(t, res)
}

func TestConstructorsFlattenMetaInMeta(t *testing.T) {
	inner := state.Retrying()

	// Wrapping a wrapper points straight at the innermost state, so a
	// single hop always reaches it.
	s := state.Submitted(state.Queued(inner))
	assert.Same(t, inner, s.Inner)
	assert.Same(t, inner, s.Unwrap())

	s = state.Queued(state.Submitted(state.Queued(inner)))
	assert.Same(t, inner, s.Inner)

	// Nil inner stays nil.
	assert.Nil(t, state.Submitted(nil).Inner)
}

func TestClassificationIgnoresMetaWrapper(t *testing.T) {
	assert.True(t, state.Submitted(state.Success()).IsSuccessful())
	assert.True(t, state.Queued(state.Cached()).IsSuccessful())
	assert.True(t, state.Submitted(state.Failed("nope")).IsFailed())
	assert.True(t, state.Queued(state.Retrying()).IsPending())
	assert.True(t, state.Submitted(state.Running()).IsRunning())
	assert.False(t, state.Queued(state.Pending()).IsFinished())
}

func TestClassification(t *testing.T) {
	cases := []struct {
		s          *state.State
		successful bool
		finished   bool
		pending    bool
	}{
		{state.Pending(), false, false, true},
		{state.Scheduled(), false, false, false},
		{state.Running(), false, false, false},
		{state.Success(), true, true, false},
		{state.Cached(), true, true, false},
		{state.Failed("x"), false, true, false},
		{state.Skipped(), false, true, false},
		{state.Retrying(), false, false, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.successful, tc.s.IsSuccessful(), "IsSuccessful(%s)", tc.s)
		assert.Equal(t, tc.finished, tc.s.IsFinished(), "IsFinished(%s)", tc.s)
		assert.Equal(t, tc.pending, tc.s.IsPending(), "IsPending(%s)", tc.s)
	}
}

func TestWithMessageDoesNotMutate(t *testing.T) {
	orig := state.Success()
	msg := orig.WithMessage("all done")

	assert.Empty(t, orig.Message)
	assert.Equal(t, "all done", msg.Message)
	assert.Equal(t, orig.Type, msg.Type)
}

func TestWithResultDoesNotMutate(t *testing.T) {
	orig := state.Success()
	res := orig.WithResult(42)

	assert.Nil(t, orig.Result)
	assert.Equal(t, 42, res.Result)
}

func TestString(t *testing.T) {
	assert.Equal(t, "pending", state.Pending().String())
	assert.Equal(t, "failed(disk full)", state.Failed("disk full").String())
	assert.Equal(t, "submitted(scheduled)", state.Submitted(state.Scheduled()).String())
}

func TestJSONRoundTrip(t *testing.T) {
	orig := state.Queued(state.Retrying().WithMessage("attempt 3"))

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var got state.State
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, state.TypeQueued, got.Type)
	require.NotNil(t, got.Inner)
	assert.Equal(t, state.TypeRetrying, got.Inner.Type)
	assert.Equal(t, "attempt 3", got.Inner.Message)
}
