package flow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/pacerkit/pacer/pkg/runner"
	"github.com/pacerkit/pacer/pkg/signals"
	"github.com/pacerkit/pacer/pkg/state"
)

// Step is a single unit of flow work. Run returns an optional result that
// the flow runner records under "step.<name>" in the run context.
type Step interface {
	Run(ctx context.Context, rc runner.Context) (any, error)
}

// Factory builds a Step from the declaration's With options.
type Factory func(options map[string]any) (Step, error)

// BuiltinSteps returns the step kinds shipped with pacer.
func BuiltinSteps() map[string]Factory {
	return map[string]Factory{
		"command": newCommandStep,
		"sleep":   newSleepStep,
		"fail":    newFailStep,
		"pause":   newPauseStep,
	}
}

type commandStep struct {
	Command string            `mapstructure:"command"`
	Args    []string          `mapstructure:"args"`
	Dir     string            `mapstructure:"dir"`
	Env     map[string]string `mapstructure:"env"`
}

func newCommandStep(options map[string]any) (Step, error) {
	var step commandStep
	if err := mapstructure.Decode(options, &step); err != nil {
		return nil, fmt.Errorf("invalid command step options: %w", err)
	}
	if step.Command == "" {
		return nil, errors.New("command step requires a command")
	}
	return &step, nil
}

func (s *commandStep) Run(ctx context.Context, rc runner.Context) (any, error) {
	cmd := exec.CommandContext(ctx, s.Command, s.Args...)
	cmd.Dir = s.Dir
	cmd.Env = os.Environ()
	for k, v := range s.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		return nil, fmt.Errorf("command %q failed: %w (output: %s)", s.Command, err, output)
	}
	return output, nil
}

type sleepStep struct {
	duration time.Duration
}

func newSleepStep(options map[string]any) (Step, error) {
	var cfg struct {
		Duration string `mapstructure:"duration"`
	}
	if err := mapstructure.Decode(options, &cfg); err != nil {
		return nil, fmt.Errorf("invalid sleep step options: %w", err)
	}
	d, err := time.ParseDuration(cfg.Duration)
	if err != nil {
		return nil, fmt.Errorf("invalid sleep duration %q: %w", cfg.Duration, err)
	}
	return &sleepStep{duration: d}, nil
}

func (s *sleepStep) Run(ctx context.Context, rc runner.Context) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.duration):
		return nil, nil
	}
}

type failStep struct {
	Message string `mapstructure:"message"`
}

func newFailStep(options map[string]any) (Step, error) {
	var step failStep
	if err := mapstructure.Decode(options, &step); err != nil {
		return nil, fmt.Errorf("invalid fail step options: %w", err)
	}
	if step.Message == "" {
		step.Message = "step failed"
	}
	return &step, nil
}

func (s *failStep) Run(ctx context.Context, rc runner.Context) (any, error) {
	return nil, errors.New(s.Message)
}

type pauseStep struct {
	Message string `mapstructure:"message"`
}

func newPauseStep(options map[string]any) (Step, error) {
	var step pauseStep
	if err := mapstructure.Decode(options, &step); err != nil {
		return nil, fmt.Errorf("invalid pause step options: %w", err)
	}
	return &step, nil
}

func (s *pauseStep) Run(ctx context.Context, rc runner.Context) (any, error) {
	if resumed, _ := rc[KeyResumed].(bool); resumed {
		delete(rc, KeyResumed)
		return nil, nil
	}
	paused := state.Paused()
	if s.Message != "" {
		paused = paused.WithMessage(s.Message)
	}
	return nil, signals.NewPause(paused)
}
