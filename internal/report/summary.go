// Package report turns run outcomes into console output.
package report

import (
	"fmt"

	"github.com/dustin/go-humanize/english"

	"github.com/klauern/repodist/internal/model"
)

// Summarize returns the final summary line of a run, for example
// "modified 2 files in 1 repo".
func Summarize(s model.RunSummary) string {
	if s.FilesModified == 0 {
		if s.DryRun {
			return "no files would be modified"
		}
		return "no files modified"
	}

	verb := "modified"
	if s.DryRun {
		verb = "would modify"
	}
	return fmt.Sprintf("%s %s in %s", verb,
		english.Plural(s.FilesModified, "file", "files"),
		english.Plural(s.ReposTouched, "repo", "repos"),
	)
}

// Notes returns secondary lines for conflicts and skipped repos, if any.
func Notes(s model.RunSummary) []string {
	var notes []string
	if n := s.Conflicts(); n > 0 {
		notes = append(notes, fmt.Sprintf("%s left untouched because the destination is newer (use --force to overwrite)",
			english.Plural(n, "file", "files")))
	}
	if skipped := s.Skipped(); len(skipped) > 0 {
		notes = append(notes, fmt.Sprintf("%s not found: %s",
			english.PluralWord(len(skipped), "repo", "repos"),
			english.OxfordWordSeries(skipped, "and")))
	}
	return notes
}
