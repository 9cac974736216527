package sync

import (
	"bytes"
	"strings"
	"testing"

	"github.com/klauern/repodist/internal/logging"
	"github.com/klauern/repodist/internal/model"
)

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := LogSink{Logger: logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf})}

	sink.Outcome(model.Outcome{Repo: "beta", Path: "a.txt", Category: model.CategoryMandatory, Effect: model.EffectCreated})
	sink.Outcome(model.Outcome{Repo: "beta", Path: "b.txt", Category: model.CategoryMandatory, Effect: model.EffectNoop})
	sink.Outcome(model.Outcome{Repo: "beta", Path: "c.txt", Category: model.CategoryMandatory, Effect: model.EffectSkippedConflict, Reason: "destination is newer"})
	sink.RepoSkipped(model.Repo{Name: "alpha"}, "/projects/alpha", ErrRepoNotFound)

	output := buf.String()
	if !strings.Contains(output, "path=a.txt") {
		t.Errorf("created outcome not logged: %s", output)
	}
	if strings.Contains(output, "path=b.txt") {
		t.Errorf("noop outcome logged at info: %s", output)
	}
	if !strings.Contains(output, "level=ERROR") || !strings.Contains(output, "path=c.txt") {
		t.Errorf("conflict not logged at error: %s", output)
	}
	if !strings.Contains(output, "level=WARN") || !strings.Contains(output, "repo=alpha") {
		t.Errorf("skipped repo not logged at warn: %s", output)
	}
}

func TestMultiSink(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	sink := MultiSink{a, b, Discard}

	sink.Outcome(model.Outcome{Path: "x", Effect: model.EffectDeleted})
	sink.RepoSkipped(model.Repo{Name: "alpha"}, "", nil)

	for i, r := range []*Recorder{a, b} {
		if len(r.Outcomes()) != 1 || len(r.Skipped()) != 1 {
			t.Errorf("recorder %d: outcomes=%d skipped=%d", i, len(r.Outcomes()), len(r.Skipped()))
		}
	}
}
