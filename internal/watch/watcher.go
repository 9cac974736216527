package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/klauern/repodist/internal/logging"
)

// DefaultDebounce is used when no debounce window is given.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a directory tree and reports batches of changed paths once
// the tree has been quiet for the debounce window.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	filter   Filter
	onChange func(paths []string)

	mu      sync.Mutex
	pending map[string]struct{}
}

// New creates a watcher. onChange receives the sorted set of paths that
// changed since the previous call.
func New(debounce time.Duration, filter Filter, onChange func(paths []string)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		watcher:  w,
		debounce: debounce,
		filter:   filter,
		onChange: onChange,
		pending:  make(map[string]struct{}),
	}, nil
}

// AddRecursive adds a directory and all its subdirectories to the watcher,
// skipping directories the filter rejects.
func (w *Watcher) AddRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && !w.filter.Matches(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run starts the event loop. It blocks until the context is cancelled and
// closes the underlying watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	debouncer := NewDebouncer(w.debounce, w.flush)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event.Op) || !w.filter.Matches(event.Name) {
				continue
			}

			// New directories are watched as they appear.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.AddRecursive(event.Name); err != nil {
						logging.Warn("failed to watch new directory", logging.Path(event.Name), logging.Err(err))
					}
				}
			}

			logging.Debug("source changed", logging.Path(event.Name), "op", event.Op.String())
			w.mu.Lock()
			w.pending[event.Name] = struct{}{}
			w.mu.Unlock()
			debouncer.Trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(paths) == 0 || w.onChange == nil {
		return
	}
	sort.Strings(paths)
	w.onChange(paths)
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Create) || op.Has(fsnotify.Write) ||
		op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}
