package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/klauern/repodist/internal/model"
	"github.com/klauern/repodist/internal/ui"
)

// Console prints one line per file that changed, conflicted or failed, and a
// warning per unreachable repo. Informational outcomes are printed only when
// Verbose is set. It is safe for concurrent use.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	verbose bool
}

// NewConsole creates a console sink. Warnings and errors go to errOut.
func NewConsole(out, errOut io.Writer, verbose bool) *Console {
	return &Console{out: out, errOut: errOut, verbose: verbose}
}

// Outcome prints a single file outcome.
func (c *Console) Outcome(o model.Outcome) {
	sev := o.Severity()
	if !c.verbose && (sev == model.SeveritySilent || sev == model.SeverityInfo) {
		return
	}

	line := fmt.Sprintf("%s: %-9s %s", ui.Bold(o.Repo), o.Effect.Verb(), o.Path)
	if o.Reason != "" {
		line += " " + ui.Dim("("+o.Reason+")")
	}

	w := c.out
	if sev == model.SeverityError || sev == model.SeverityFatal {
		w = c.errOut
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(w, ui.StatusFor(o.Effect, line))
}

// RepoSkipped prints a warning for an unreachable repo.
func (c *Console) RepoSkipped(repo model.Repo, root string, _ error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.errOut, ui.StatusWarning(fmt.Sprintf("repo %s not found at %s, skipping", ui.Bold(repo.Name), root)))
}
