package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/pacerkit/pacer/pkg/runner"
	"github.com/pacerkit/pacer/pkg/state"
)

// RenderReport builds a run summary. On a TTY the markdown is rendered with
// glamour; otherwise the plain markdown is returned so pipes stay clean.
func RenderReport(flowName, runID string, s *state.State, rc runner.Context) string {
	md := buildMarkdown(flowName, runID, s, rc)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return md
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func buildMarkdown(flowName, runID string, s *state.State, rc runner.Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Run %s\n\n", runID)
	fmt.Fprintf(&b, "- **Flow**: %s\n", flowName)
	fmt.Fprintf(&b, "- **State**: %s\n", s)
	if s != nil && s.Message != "" {
		fmt.Fprintf(&b, "- **Message**: %s\n", s.Message)
	}

	var steps []string
	for key, val := range rc {
		if name, ok := strings.CutPrefix(key, "step."); ok {
			steps = append(steps, fmt.Sprintf("- `%s`: %v", name, val))
		}
	}
	if len(steps) > 0 {
		b.WriteString("\n## Step results\n\n")
		for _, line := range steps {
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
