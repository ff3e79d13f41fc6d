package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the CLI banner with the run-state palette.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	name := termenv.String("pacer").Foreground(p.Color("#818cf8")).Bold()
	ver := termenv.String("v" + strings.TrimSpace(version)).Foreground(p.Color("#a78bfa"))
	tag := termenv.String("run-state driver").Foreground(p.Color("#c084fc"))

	fmt.Println()
	fmt.Printf("  %s %s %s\n", name, ver, tag)
	fmt.Println()
}

// ColorState paints a state string by outcome for terminal output.
func ColorState(kind string) string {
	p := termenv.ColorProfile()
	switch kind {
	case "success", "cached":
		return termenv.String(kind).Foreground(p.Color("#22c55e")).String()
	case "failed":
		return termenv.String(kind).Foreground(p.Color("#ef4444")).String()
	case "paused":
		return termenv.String(kind).Foreground(p.Color("#eab308")).String()
	default:
		return kind
	}
}
