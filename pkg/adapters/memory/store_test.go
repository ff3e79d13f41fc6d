package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacerkit/pacer/pkg/adapters/memory"
	"github.com/pacerkit/pacer/pkg/ports"
	"github.com/pacerkit/pacer/pkg/ports/tests"
	"github.com/pacerkit/pacer/pkg/runner"
	"github.com/pacerkit/pacer/pkg/state"
)

func TestMemoryStore_Contract(t *testing.T) {
	tests.StateStoreContract(t, memory.NewStore())
}

func TestMemoryStore_IsolatesStoredContext(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	snap := &ports.RunSnapshot{
		RunID:     "run-1",
		State:     state.Paused(),
		Context:   runner.Context{"key": "original"},
		UpdatedAt: time.Now(),
	}
	require.NoError(t, store.Save(ctx, snap))

	// Mutating the caller's context after Save must not leak into the store.
	snap.Context["key"] = "mutated"

	got, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Context["key"])

	// Mutating the loaded copy must not leak either.
	got.Context["key"] = "mutated again"
	again, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "original", again.Context["key"])
}
