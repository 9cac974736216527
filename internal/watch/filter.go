package watch

import (
	"path/filepath"
	"strings"
)

// DefaultExcludes are base-name patterns that never trigger a run.
var DefaultExcludes = []string{".git", ".repodist-tmp-*", "*.swp", "*~", ".DS_Store"}

// Filter decides which paths are worth reacting to.
type Filter struct {
	// Exclude holds glob patterns matched against the base name and the full path.
	Exclude []string
	// Dirs are directory trees ignored entirely, such as a backup location
	// inside the source tree.
	Dirs []string
}

// Matches returns true if path passes the filter.
func (f Filter) Matches(path string) bool {
	for _, dir := range f.Dirs {
		if dir != "" && (path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))) {
			return false
		}
	}

	base := filepath.Base(path)
	for _, pattern := range f.Exclude {
		if matched, _ := filepath.Match(pattern, base); matched {
			return false
		}
		if matched, _ := filepath.Match(pattern, path); matched {
			return false
		}
	}
	return true
}
