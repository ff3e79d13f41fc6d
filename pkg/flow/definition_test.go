package flow_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacerkit/pacer/pkg/flow"
)

func writeFlow(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefinition(t *testing.T) {
	path := writeFlow(t, `
name: deploy
handlers: [log, metrics]
steps:
  - name: build
    uses: command
    with:
      command: make
      args: [build]
  - name: nap
    uses: sleep
    with:
      duration: 1s
`)

	def, err := flow.LoadDefinition(path)
	require.NoError(t, err)

	assert.Equal(t, "deploy", def.Name)
	assert.Equal(t, []string{"log", "metrics"}, def.Handlers)
	require.Len(t, def.Steps, 2)
	assert.Equal(t, "command", def.Steps[0].Uses)
	assert.Equal(t, "make", def.Steps[0].With["command"])
}

func TestLoadDefinition_MissingFile(t *testing.T) {
	_, err := flow.LoadDefinition(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		def     flow.Definition
		wantErr string
	}{
		{
			name:    "missing name",
			def:     flow.Definition{Steps: []flow.StepDefinition{{Name: "s", Uses: "sleep"}}},
			wantErr: "name is required",
		},
		{
			name:    "no steps",
			def:     flow.Definition{Name: "empty"},
			wantErr: "no steps",
		},
		{
			name: "unnamed step",
			def: flow.Definition{Name: "f", Steps: []flow.StepDefinition{
				{Uses: "sleep"},
			}},
			wantErr: "no name",
		},
		{
			name: "duplicate step names",
			def: flow.Definition{Name: "f", Steps: []flow.StepDefinition{
				{Name: "s", Uses: "sleep"},
				{Name: "s", Uses: "sleep"},
			}},
			wantErr: "duplicate",
		},
		{
			name: "step without kind",
			def: flow.Definition{Name: "f", Steps: []flow.StepDefinition{
				{Name: "s"},
			}},
			wantErr: "kind",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.def.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
