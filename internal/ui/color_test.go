package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/repodist/internal/model"
)

func TestStatusFunctions(t *testing.T) {
	// Disable colors for consistent test output
	DisableColors()
	defer EnableColors()

	tests := []struct {
		name     string
		fn       func(string) string
		input    string
		contains string
	}{
		{"StatusSuccess empty", StatusSuccess, "", SymbolSuccess},
		{"StatusSuccess with msg", StatusSuccess, "done", SymbolSuccess + " done"},
		{"StatusError empty", StatusError, "", SymbolError},
		{"StatusError with msg", StatusError, "failed", SymbolError + " failed"},
		{"StatusWarning empty", StatusWarning, "", SymbolWarning},
		{"StatusWarning with msg", StatusWarning, "caution", SymbolWarning + " caution"},
		{"StatusSkipped empty", StatusSkipped, "", SymbolSkipped},
		{"StatusSkipped with msg", StatusSkipped, "skip", SymbolSkipped + " skip"},
		{"StatusDeleted with msg", StatusDeleted, "gone", SymbolDeleted + " gone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(tt.input)
			if got != tt.contains {
				t.Errorf("got %q, want %q", got, tt.contains)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tests := map[model.Effect]string{
		model.EffectCreated:         SymbolSuccess,
		model.EffectOverwritten:     SymbolSuccess,
		model.EffectDeleted:         SymbolDeleted,
		model.EffectSkippedConflict: SymbolWarning,
		model.EffectFailed:          SymbolError,
		model.EffectFatal:           SymbolError,
		model.EffectSkippedAbsent:   SymbolSkipped,
		model.EffectNoop:            SymbolSkipped,
	}
	for effect, symbol := range tests {
		if got := StatusFor(effect, "x"); got != symbol+" x" {
			t.Errorf("StatusFor(%s) = %q, want %q", effect, got, symbol+" x")
		}
	}
}

func TestColorToggle(t *testing.T) {
	initial := IsColorEnabled()
	defer func() {
		if initial {
			EnableColors()
		} else {
			DisableColors()
		}
	}()

	DisableColors()
	if IsColorEnabled() {
		t.Error("expected colors to be disabled")
	}
	EnableColors()
	if !IsColorEnabled() {
		t.Error("expected colors to be enabled")
	}
}

func TestConfigureColors(t *testing.T) {
	initial := IsColorEnabled()
	defer func() {
		if initial {
			EnableColors()
		} else {
			DisableColors()
		}
	}()

	ConfigureColors("always")
	if !IsColorEnabled() {
		t.Error("always: expected colors enabled")
	}
	ConfigureColors("never")
	if IsColorEnabled() {
		t.Error("never: expected colors disabled")
	}

	EnableColors()
	t.Setenv("NO_COLOR", "1")
	ConfigureColors("auto")
	if IsColorEnabled() {
		t.Error("auto with NO_COLOR: expected colors disabled")
	}
}

func TestIsTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if IsTerminal(f) {
		t.Error("a regular file is not a terminal")
	}
	if IsTerminal(nil) {
		t.Error("nil is not a terminal")
	}
}
