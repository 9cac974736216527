package sync

import (
	"errors"
	"fmt"
)

// ErrMissingSource indicates that a file listed in the catalog is missing from
// the canonical source tree.
var ErrMissingSource = errors.New("canonical source file is missing")

// FatalError aborts a whole run. Nothing already written is rolled back.
type FatalError struct {
	Repo string
	Path string
	Err  error
}

// Error returns a formatted error message.
func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %s (repo %s): %v", e.Path, e.Repo, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err aborts a run.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
