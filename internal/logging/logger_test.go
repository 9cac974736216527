package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/klauern/repodist/internal/logging"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %q is not JSON: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestOutcomeLineJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf, JSON: true}).
		With(logging.RunID("run-1"))

	logger.Info("file distributed",
		logging.Repo("beta"),
		logging.Path("config/base.json"),
		logging.Category("mandatory"),
		logging.Effect("overwritten"),
	)

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d lines, want 1", len(entries))
	}
	want := map[string]string{
		logging.KeyRunID:    "run-1",
		logging.KeyRepo:     "beta",
		logging.KeyPath:     "config/base.json",
		logging.KeyCategory: "mandatory",
		logging.KeyEffect:   "overwritten",
		"msg":               "file distributed",
	}
	for key, value := range want {
		if entries[0][key] != value {
			t.Errorf("%s = %v, want %q", key, entries[0][key], value)
		}
	}
}

func TestLevels(t *testing.T) {
	tests := map[string]struct {
		level slog.Level
		want  []string
	}{
		"quiet default": {level: logging.LevelWarn, want: []string{"repo missing", "write failed"}},
		"verbose":       {level: logging.LevelInfo, want: []string{"checking repos", "repo missing", "write failed"}},
		"debug":         {level: logging.LevelDebug, want: []string{"resolved actions", "checking repos", "repo missing", "write failed"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := logging.New(logging.Options{Level: tt.level, Output: &buf})
			logger.Debug("resolved actions")
			logger.Info("checking repos")
			logger.Warn("repo missing")
			logger.Error("write failed")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != len(tt.want) {
				t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(tt.want), buf.String())
			}
			for i, msg := range tt.want {
				if !strings.Contains(lines[i], msg) {
					t.Errorf("line %d = %q, want %q", i, lines[i], msg)
				}
			}
		})
	}
}

func TestDefaultOptionsAndNilOutput(t *testing.T) {
	opts := logging.DefaultOptions()
	if opts.Level != logging.LevelInfo || opts.JSON || opts.AddSource {
		t.Errorf("DefaultOptions() = %+v", opts)
	}
	if logging.New(logging.Options{}) == nil {
		t.Error("New() with no output returned nil")
	}
}

func TestAddSource(t *testing.T) {
	var buf bytes.Buffer
	logging.New(logging.Options{Level: logging.LevelDebug, Output: &buf, AddSource: true}).Debug("where")
	if !strings.Contains(buf.String(), "logger_test.go") {
		t.Errorf("expected source location in %q", buf.String())
	}
}

func TestContextCarriesRunLogger(t *testing.T) {
	var buf bytes.Buffer
	runLogger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf}).
		With(logging.RunID("run-7"))

	if logging.FromContext(context.Background()) != nil {
		t.Fatal("FromContext() on a bare context should be nil")
	}

	ctx := logging.NewContext(context.Background(), runLogger)
	if logging.FromContext(ctx) != runLogger {
		t.Fatal("FromContext() did not return the attached logger")
	}
	logging.WithContext(ctx).Info("sync started")
	if !strings.Contains(buf.String(), "run_id=run-7") {
		t.Errorf("context logger lost the run id: %q", buf.String())
	}
}

func TestDefaultFollowsSetDefault(t *testing.T) {
	var buf bytes.Buffer
	logging.SetDefault(logging.New(logging.Options{Level: logging.LevelDebug, Output: &buf}))
	t.Cleanup(func() { logging.SetDefault(logging.New(logging.DefaultOptions())) })

	logging.Debug("resolved actions", logging.Repo("gamma"), logging.Count(4))
	logging.Info("checking repos")
	logging.Warn("repo missing", logging.Path("/projects/work/alpha"))
	logging.Error("write failed", logging.Err(errors.New("disk full")))
	logging.With("component", "watch").Info("change detected")
	logging.WithContext(context.Background()).Info("fallback")

	out := buf.String()
	for _, want := range []string{
		"repo=gamma", "count=4", "checking repos",
		"path=/projects/work/alpha", `error="disk full"`,
		"component=watch", "fallback",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("default logger output missing %q:\n%s", want, out)
		}
	}
}

func TestErrNil(t *testing.T) {
	if attr := logging.Err(nil); attr.Key != "" {
		t.Errorf("Err(nil) = %v, want empty attr", attr)
	}
}

func TestTimer(t *testing.T) {
	var buf bytes.Buffer
	logging.SetDefault(logging.New(logging.Options{Level: logging.LevelDebug, Output: &buf}))
	t.Cleanup(func() { logging.SetDefault(logging.New(logging.DefaultOptions())) })

	logging.Timer("distribute")()

	out := buf.String()
	if !strings.Contains(out, "operation=distribute") || !strings.Contains(out, logging.KeyDuration+"=") {
		t.Errorf("Timer() output = %q", out)
	}
}
