// Package ui holds terminal color helpers for the Optura CLI.
package ui

import "fmt"

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent  = 74  // blue
	colorCmd     = 250 // light gray
	colorMuted   = 245 // medium gray
	colorGood    = 114 // green
	colorWarn    = 214 // orange
	colorDanger  = 203 // red
	colorPending = 250 // light gray
)

var noColor bool

func render(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return render(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render(colorMuted, s) }

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return render(colorCmd, s) }

// RenderStatus returns a task or project status colored by how much
// attention it needs: green for done, orange for waiting on a human,
// red for failed or blocked, gray otherwise.
func RenderStatus(status string) string {
	switch status {
	case "completed", "approved":
		return render(colorGood, status)
	case "review", "planning":
		return render(colorWarn, status)
	case "failed", "blocked":
		return render(colorDanger, status)
	case "in_progress":
		return render(colorAccent, status)
	default:
		return render(colorPending, status)
	}
}

// RenderRisk returns a risk level colored green/orange/red.
func RenderRisk(risk string) string {
	switch risk {
	case "low":
		return render(colorGood, risk)
	case "high":
		return render(colorDanger, risk)
	default:
		return render(colorWarn, risk)
	}
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
