package pacer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pacerkit/pacer"
	"github.com/pacerkit/pacer/pkg/signals"
)

func TestFacade_Integration(t *testing.T) {
	// 0. Setup temp flow file
	dir := t.TempDir()
	flowPath := filepath.Join(dir, "hello.yaml")
	content := []byte(`name: hello
steps:
  - name: greet
    uses: command
    with:
      command: echo
      args: ["hello world"]
`)
	if err := os.WriteFile(flowPath, content, 0o644); err != nil {
		t.Fatal(err)
	}

	// 1. Test Initialization
	eng, err := pacer.New(flowPath)
	if err != nil {
		t.Fatalf("Failed to initialize engine with path %s: %v", flowPath, err)
	}
	if eng.Name != "hello" {
		t.Errorf("Expected engine name 'hello', got '%s'", eng.Name)
	}

	// 2. Test Run
	ctx := context.Background()
	final, runID, err := eng.Run(ctx, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if runID == "" {
		t.Error("Expected a run ID, got empty string")
	}
	if !final.IsSuccessful() {
		t.Errorf("Expected successful final state, got '%s'", final)
	}

	// 3. The latest snapshot is retrievable through the store
	snap, err := eng.Store().Load(ctx, runID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !snap.State.IsSuccessful() {
		t.Errorf("Expected stored state to be successful, got '%s'", snap.State)
	}
}

func TestFacade_PauseAndResume(t *testing.T) {
	dir := t.TempDir()
	flowPath := filepath.Join(dir, "gated.yaml")
	content := []byte(`name: gated
steps:
  - name: prepare
    uses: command
    with:
      command: "true"
  - name: gate
    uses: pause
    with:
      message: waiting for approval
  - name: finish
    uses: command
    with:
      command: "true"
`)
	if err := os.WriteFile(flowPath, content, 0o644); err != nil {
		t.Fatal(err)
	}

	eng, err := pacer.New(flowPath)
	if err != nil {
		t.Fatalf("Failed to initialize engine: %v", err)
	}

	ctx := context.Background()
	_, runID, err := eng.Run(ctx, nil)
	pause, ok := signals.AsPause(err)
	if !ok {
		t.Fatalf("Expected a pause signal, got %v", err)
	}
	if !pause.State.IsPaused() {
		t.Errorf("Expected paused state, got '%s'", pause.State)
	}

	final, err := eng.Resume(ctx, runID)
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if !final.IsSuccessful() {
		t.Errorf("Expected successful final state after resume, got '%s'", final)
	}
}

func TestFacade_RequiresFlowPath(t *testing.T) {
	if _, err := pacer.New(""); err == nil {
		t.Error("Expected an error for empty flow path, got nil")
	}
}
