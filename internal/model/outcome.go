package model

// Effect is what applying an action did to the destination file.
type Effect string

const (
	EffectCreated         Effect = "created"
	EffectOverwritten     Effect = "overwritten"
	EffectSkippedConflict Effect = "skippedConflict"
	EffectSkippedAbsent   Effect = "skippedAbsent"
	EffectDeleted         Effect = "deleted"
	EffectNoop            Effect = "noop"
	EffectFailed          Effect = "failed"
	EffectFatal           Effect = "fatal"
)

// Severity is the reporting level attached to an effect.
type Severity int

const (
	SeveritySilent Severity = iota
	SeverityInfo
	SeverityUpdate
	SeverityError
	SeverityFatal
)

// String returns the name of the severity.
func (s Severity) String() string {
	switch s {
	case SeveritySilent:
		return "silent"
	case SeverityInfo:
		return "info"
	case SeverityUpdate:
		return "update"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Severity returns the reporting level of the effect.
func (e Effect) Severity() Severity {
	switch e {
	case EffectCreated, EffectOverwritten, EffectDeleted:
		return SeverityUpdate
	case EffectSkippedConflict, EffectFailed:
		return SeverityError
	case EffectFatal:
		return SeverityFatal
	case EffectSkippedAbsent:
		return SeverityInfo
	default:
		return SeveritySilent
	}
}

// Modified reports whether the effect changed the destination tree.
func (e Effect) Modified() bool {
	return e == EffectCreated || e == EffectOverwritten || e == EffectDeleted
}

// Verb returns the word used for the effect in console output.
func (e Effect) Verb() string {
	switch e {
	case EffectCreated:
		return "create"
	case EffectOverwritten:
		return "copy"
	case EffectDeleted:
		return "delete"
	case EffectSkippedConflict:
		return "newer"
	case EffectSkippedAbsent:
		return "absent"
	case EffectFailed:
		return "failed"
	case EffectFatal:
		return "fatal"
	default:
		return "unchanged"
	}
}

// String returns the string representation of the effect.
func (e Effect) String() string {
	return string(e)
}

// Outcome is the result of applying one action to one repo.
type Outcome struct {
	Path     string
	Repo     string
	Category Category
	Effect   Effect
	Reason   string
}

// Severity returns the reporting level of the outcome.
func (o Outcome) Severity() Severity {
	return o.Effect.Severity()
}

// Modified reports whether the outcome changed the destination tree.
func (o Outcome) Modified() bool {
	return o.Effect.Modified()
}

// RepoStatus summarizes one repo after a run.
type RepoStatus struct {
	Name string
	Root string
	// Skipped is set when the destination root was unreachable.
	Skipped bool
	// Counts holds the number of outcomes per effect.
	Counts map[Effect]int
}

// Modified returns the number of created, overwritten, and deleted files.
func (s RepoStatus) Modified() int {
	return s.Counts[EffectCreated] + s.Counts[EffectOverwritten] + s.Counts[EffectDeleted]
}

// Conflicts returns the number of files skipped because the destination was newer.
func (s RepoStatus) Conflicts() int {
	return s.Counts[EffectSkippedConflict]
}

// RunSummary aggregates a run. FilesModified == 0 implies ReposTouched == 0.
type RunSummary struct {
	ReposTouched  int
	FilesModified int
	Repos         []RepoStatus
	DryRun        bool
}

// Add folds one repo status into the summary.
func (s *RunSummary) Add(status RepoStatus) {
	s.Repos = append(s.Repos, status)
	if n := status.Modified(); n > 0 {
		s.ReposTouched++
		s.FilesModified += n
	}
}

// Skipped returns the names of repos whose destination root was unreachable.
func (s RunSummary) Skipped() []string {
	var names []string
	for _, r := range s.Repos {
		if r.Skipped {
			names = append(names, r.Name)
		}
	}
	return names
}

// Conflicts returns the total number of conflict skips across repos.
func (s RunSummary) Conflicts() int {
	n := 0
	for _, r := range s.Repos {
		n += r.Conflicts()
	}
	return n
}
