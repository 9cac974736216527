package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/klauern/repodist/internal/model"
	"github.com/klauern/repodist/internal/ui"
)

func TestConsoleOutcome(t *testing.T) {
	ui.DisableColors()
	defer ui.EnableColors()

	tests := map[string]struct {
		outcome model.Outcome
		verbose bool
		wantOut string
		wantErr string
	}{
		"created": {
			outcome: model.Outcome{Repo: "beta", Path: "LICENSE", Effect: model.EffectCreated},
			wantOut: "✓ beta: create    LICENSE\n",
		},
		"deleted": {
			outcome: model.Outcome{Repo: "beta", Path: "legacy/old.cfg", Effect: model.EffectDeleted},
			wantOut: "⌫ beta: delete    legacy/old.cfg\n",
		},
		"conflict goes to stderr": {
			outcome: model.Outcome{Repo: "beta", Path: "setup.cfg", Effect: model.EffectSkippedConflict, Reason: "destination is newer"},
			wantErr: "⚠ beta: newer     setup.cfg (destination is newer)\n",
		},
		"noop hidden": {
			outcome: model.Outcome{Repo: "beta", Path: "LICENSE", Effect: model.EffectNoop},
		},
		"absent hidden": {
			outcome: model.Outcome{Repo: "beta", Path: ".editorconfig", Effect: model.EffectSkippedAbsent},
		},
		"noop verbose": {
			outcome: model.Outcome{Repo: "beta", Path: "LICENSE", Effect: model.EffectNoop},
			verbose: true,
			wantOut: "- beta: unchanged LICENSE\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			c := NewConsole(&out, &errOut, tt.verbose)
			c.Outcome(tt.outcome)

			if out.String() != tt.wantOut {
				t.Errorf("stdout = %q, want %q", out.String(), tt.wantOut)
			}
			if errOut.String() != tt.wantErr {
				t.Errorf("stderr = %q, want %q", errOut.String(), tt.wantErr)
			}
		})
	}
}

func TestConsoleRepoSkipped(t *testing.T) {
	ui.DisableColors()
	defer ui.EnableColors()

	var out, errOut bytes.Buffer
	c := NewConsole(&out, &errOut, false)
	c.RepoSkipped(model.Repo{Name: "alpha"}, "/projects/work/alpha", errors.New("missing"))

	if out.Len() != 0 {
		t.Errorf("stdout = %q, want empty", out.String())
	}
	if !strings.Contains(errOut.String(), "repo alpha not found at /projects/work/alpha") {
		t.Errorf("stderr = %q", errOut.String())
	}
}
