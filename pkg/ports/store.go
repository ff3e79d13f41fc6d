package ports

import (
	"context"
	"errors"
	"time"

	"github.com/pacerkit/pacer/pkg/runner"
	"github.com/pacerkit/pacer/pkg/state"
)

// ErrRunNotFound is returned when a run ID has no stored snapshot.
var ErrRunNotFound = errors.New("run not found")

// RunSnapshot is the latest known state of a run, persisted to support
// pause/resume. Save always overwrites: the store keeps one snapshot per
// run, never a history.
type RunSnapshot struct {
	RunID     string         `json:"run_id"`
	FlowName  string         `json:"flow_name,omitempty"`
	State     *state.State   `json:"state"`
	Context   runner.Context `json:"context,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// StateStore persists run snapshots. Implementations must be safe for
// concurrent use.
type StateStore interface {
	// Save persists the snapshot under its run ID, replacing any previous one.
	Save(ctx context.Context, snap *RunSnapshot) error

	// Load retrieves the snapshot for a run ID.
	// Returns ErrRunNotFound if the run is unknown.
	Load(ctx context.Context, runID string) (*RunSnapshot, error)

	// Delete removes the snapshot for a run ID.
	Delete(ctx context.Context, runID string) error

	// List returns the IDs of all stored runs.
	List(ctx context.Context) ([]string, error)
}
