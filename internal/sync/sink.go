package sync

import (
	"context"
	"log/slog"
	gosync "sync"

	"github.com/klauern/repodist/internal/logging"
	"github.com/klauern/repodist/internal/model"
)

// Sink receives per-file outcomes and repo warnings as a run progresses.
// Implementations must be safe for concurrent use.
type Sink interface {
	Outcome(out model.Outcome)
	RepoSkipped(repo model.Repo, root string, reason error)
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Outcome(model.Outcome)                 {}
func (discard) RepoSkipped(model.Repo, string, error) {}

// MultiSink forwards to every sink in order.
type MultiSink []Sink

func (m MultiSink) Outcome(out model.Outcome) {
	for _, s := range m {
		s.Outcome(out)
	}
}

func (m MultiSink) RepoSkipped(repo model.Repo, root string, reason error) {
	for _, s := range m {
		s.RepoSkipped(repo, root, reason)
	}
}

// LogSink writes outcomes to a structured logger at a level derived from
// their severity. Silent outcomes are logged at debug.
type LogSink struct {
	Logger *slog.Logger
}

func (l LogSink) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return logging.Default()
}

func (l LogSink) Outcome(out model.Outcome) {
	level := logging.LevelDebug
	switch out.Severity() {
	case model.SeverityUpdate, model.SeverityInfo:
		level = logging.LevelInfo
	case model.SeverityError, model.SeverityFatal:
		level = logging.LevelError
	}
	attrs := []any{
		logging.Repo(out.Repo),
		logging.Path(out.Path),
		logging.Category(string(out.Category)),
		logging.Effect(string(out.Effect)),
	}
	if out.Reason != "" {
		attrs = append(attrs, slog.String("reason", out.Reason))
	}
	l.logger().Log(context.Background(), level, "file processed", attrs...)
}

func (l LogSink) RepoSkipped(repo model.Repo, root string, reason error) {
	l.logger().Warn("repo not found, skipping",
		logging.Repo(repo.Name),
		logging.Path(root),
		logging.Err(reason),
	)
}

// Recorder keeps every outcome it receives. It is mainly useful in tests and
// for reports that need per-file detail after a run.
type Recorder struct {
	mu       gosync.Mutex
	outcomes []model.Outcome
	skipped  []string
}

func (r *Recorder) Outcome(out model.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, out)
}

func (r *Recorder) RepoSkipped(repo model.Repo, _ string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped = append(r.skipped, repo.Name)
}

// Outcomes returns a copy of the recorded outcomes in arrival order.
func (r *Recorder) Outcomes() []model.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Outcome(nil), r.outcomes...)
}

// Skipped returns the names of skipped repos in arrival order.
func (r *Recorder) Skipped() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.skipped...)
}

// Filter returns recorded outcomes with the given effect.
func (r *Recorder) Filter(effect model.Effect) []model.Outcome {
	var filtered []model.Outcome
	for _, out := range r.Outcomes() {
		if out.Effect == effect {
			filtered = append(filtered, out)
		}
	}
	return filtered
}
