// Package ui provides terminal styling for repodist output.
package ui

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/klauern/repodist/internal/model"
)

// Color function types for styled output.
var (
	// Success is used for files that were written (green).
	Success = color.New(color.FgGreen).SprintFunc()
	// Error is used for errors and failures (red).
	Error = color.New(color.FgRed).SprintFunc()
	// Warning is used for conflicts and skipped repos (yellow).
	Warning = color.New(color.FgYellow).SprintFunc()
	// Info is used for informational messages (cyan).
	Info = color.New(color.FgCyan).SprintFunc()
	// Bold is used for emphasis (bold white).
	Bold = color.New(color.Bold).SprintFunc()
	// Dim is used for secondary information (faint).
	Dim = color.New(color.Faint).SprintFunc()
	// Header is used for table headers (bold cyan).
	Header = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Status symbols with colors.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolSkipped = "-"
	SymbolDeleted = "⌫"
)

// StatusSuccess returns a green checkmark with optional message.
func StatusSuccess(msg string) string {
	return withMessage(Success(SymbolSuccess), msg)
}

// StatusError returns a red X with optional message.
func StatusError(msg string) string {
	return withMessage(Error(SymbolError), msg)
}

// StatusWarning returns a yellow warning with optional message.
func StatusWarning(msg string) string {
	return withMessage(Warning(SymbolWarning), msg)
}

// StatusSkipped returns a dimmed skip symbol with optional message.
func StatusSkipped(msg string) string {
	return withMessage(Dim(SymbolSkipped), msg)
}

// StatusDeleted returns a yellow delete symbol with optional message.
func StatusDeleted(msg string) string {
	return withMessage(Warning(SymbolDeleted), msg)
}

// StatusFor renders msg with the symbol that matches a per-file effect.
func StatusFor(effect model.Effect, msg string) string {
	switch effect {
	case model.EffectCreated, model.EffectOverwritten:
		return StatusSuccess(msg)
	case model.EffectDeleted:
		return StatusDeleted(msg)
	case model.EffectSkippedConflict:
		return StatusWarning(msg)
	case model.EffectFailed, model.EffectFatal:
		return StatusError(msg)
	default:
		return StatusSkipped(msg)
	}
}

func withMessage(symbol, msg string) string {
	if msg == "" {
		return symbol
	}
	return symbol + " " + msg
}

// DisableColors disables all color output.
// This is useful for piping output or for users who prefer no colors.
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output.
func EnableColors() {
	color.NoColor = false
}

// IsColorEnabled returns whether colors are currently enabled.
func IsColorEnabled() bool {
	return !color.NoColor
}

// ConfigureColors applies a color mode (auto, always, never). In auto mode
// colors follow NO_COLOR and whether stdout is a terminal.
func ConfigureColors(mode string) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		EnableColors()
	case "never":
		DisableColors()
	default:
		if os.Getenv("NO_COLOR") != "" || !IsTerminal(os.Stdout) {
			DisableColors()
		}
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd())) // #nosec G115 - file descriptors fit in int
}
