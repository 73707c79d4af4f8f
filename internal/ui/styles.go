package ui

import (
	"fmt"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent  = 74  // blue
	colorCmd     = 250 // light gray
	colorError   = 203 // red
	colorWarning = 214 // orange
	colorOK      = 114 // green
	colorMuted   = 245 // medium gray
)

var noColor bool

func render(color int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", color, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return render(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render(colorMuted, s) }

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return render(colorCmd, s) }

// RenderOK returns s in the success (green) color.
func RenderOK(s string) string { return render(colorOK, s) }

// RenderSeverity colors s by diagnostic severity.
func RenderSeverity(sev model.Severity, s string) string {
	switch sev {
	case model.SeverityError:
		return render(colorError, s)
	case model.SeverityWarning:
		return render(colorWarning, s)
	}
	return s
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
