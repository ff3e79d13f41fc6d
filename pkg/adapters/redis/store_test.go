package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisstore "github.com/pacerkit/pacer/pkg/adapters/redis"
	"github.com/pacerkit/pacer/pkg/ports"
	"github.com/pacerkit/pacer/pkg/ports/tests"
	"github.com/pacerkit/pacer/pkg/state"
)

func newTestStore(t *testing.T, opts ...redisstore.Option) (*redisstore.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redisstore.NewFromClient(client, opts...), mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newTestStore(t)
	tests.StateStoreContract(t, store)
}

func TestRedisStore_TTLExpiration(t *testing.T) {
	store, mr := newTestStore(t, redisstore.WithTTL(time.Second))
	ctx := context.Background()

	snap := &ports.RunSnapshot{
		RunID: "run-ttl",
		State: state.Paused(),
	}
	require.NoError(t, store.Save(ctx, snap))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "run-ttl")

	// miniredis lets us advance the clock instead of sleeping.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "run-ttl")
	assert.ErrorIs(t, err, ports.ErrRunNotFound)

	// List prunes the expired entry from the index.
	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids, "run-ttl")
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	store, mr := newTestStore(t, redisstore.WithPrefix("custom:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &ports.RunSnapshot{
		RunID: "run-1",
		State: state.Success(),
	}))

	assert.True(t, mr.Exists("custom:run-1"))
	assert.False(t, mr.Exists("pacer:run:run-1"))
}
