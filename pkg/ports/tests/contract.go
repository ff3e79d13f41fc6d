package tests

import (
	"context"
	"testing"
	"time"

	"github.com/pacerkit/pacer/pkg/ports"
	"github.com/pacerkit/pacer/pkg/runner"
	"github.com/pacerkit/pacer/pkg/state"
)

// StateStoreContract is a reusable suite verifying that an adapter complies
// with ports.StateStore semantics.
func StateStoreContract(t *testing.T, store ports.StateStore) {
	t.Helper()
	ctx := context.Background()

	snap := &ports.RunSnapshot{
		RunID:     "run-contract",
		FlowName:  "deploy",
		State:     state.Paused().WithMessage("operator requested hold"),
		Context:   runner.Context{"attempt": float64(2)},
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "never-saved")
		if err != ports.ErrRunNotFound {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("Save_Load", func(t *testing.T) {
		if err := store.Save(ctx, snap); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		got, err := store.Load(ctx, snap.RunID)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got.State == nil || got.State.Type != state.TypePaused {
			t.Errorf("state mismatch: got %v", got.State)
		}
		if got.State.Message != snap.State.Message {
			t.Errorf("message mismatch: got %q", got.State.Message)
		}
		if got.Context["attempt"] != snap.Context["attempt"] {
			t.Errorf("context mismatch: got %v", got.Context)
		}
	})

	t.Run("Save_Overwrites", func(t *testing.T) {
		updated := *snap
		updated.State = state.Success()
		if err := store.Save(ctx, &updated); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		got, err := store.Load(ctx, snap.RunID)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if !got.State.IsSuccessful() {
			t.Errorf("expected overwritten state, got %v", got.State)
		}
	})

	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		found := false
		for _, id := range ids {
			if id == snap.RunID {
				found = true
			}
		}
		if !found {
			t.Errorf("run %s missing from list %v", snap.RunID, ids)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, snap.RunID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := store.Load(ctx, snap.RunID); err != ports.ErrRunNotFound {
			t.Errorf("expected ErrRunNotFound after delete, got %v", err)
		}
	})
}
