package sync

import (
	"context"
	"errors"
	gosync "sync"

	"golang.org/x/sync/errgroup"

	"github.com/klauern/repodist/internal/fsys"
	"github.com/klauern/repodist/internal/logging"
	"github.com/klauern/repodist/internal/model"
)

// ErrRepoNotFound is reported to the sink when a destination root is missing.
var ErrRepoNotFound = errors.New("destination root does not exist")

// Config is the resolved input of a run. It is built once and never changed
// while the run is in progress.
type Config struct {
	// SourceRoot is the canonical source tree.
	SourceRoot string
	// DestinationRoot is joined with each repo's path and name.
	DestinationRoot string
	Registry        model.Registry
	Catalog         model.Catalog
}

// Options configures a run.
type Options struct {
	// Force overrides the timestamp guard.
	Force bool
	// DryRun computes outcomes without touching any destination.
	DryRun bool
	// Workers bounds how many repos are processed at once. Values below 2
	// process repos one after another.
	Workers int
	// Backups stores destination files before they are overwritten or deleted.
	Backups Backuper
	// Progress is called once per repo after it has been processed.
	// Calls are serialized.
	Progress func(model.RepoStatus)
}

// Driver iterates the registry and applies each repo's actions.
type Driver struct {
	fs   fsys.FS
	cfg  *Config
	sink Sink
	opts Options
	exec *Executor

	progressMu gosync.Mutex
}

// NewDriver creates a Driver. A nil sink discards outcomes.
func NewDriver(fs fsys.FS, cfg *Config, sink Sink, opts Options) *Driver {
	if sink == nil {
		sink = Discard
	}
	return &Driver{
		fs:   fs,
		cfg:  cfg,
		sink: sink,
		opts: opts,
		exec: NewExecutor(fs, opts.Force, opts.DryRun, opts.Backups),
	}
}

// Run processes every repo and returns the aggregate summary. On a fatal
// error the summary covers the repos finished before the abort.
func (d *Driver) Run(ctx context.Context) (model.RunSummary, error) {
	defer logging.Timer("distribute")()

	logging.Info("checking repos",
		logging.Count(len(d.cfg.Registry)),
		logging.Path(d.cfg.SourceRoot),
	)

	statuses := make([]*model.RepoStatus, len(d.cfg.Registry))
	var err error
	if d.opts.Workers > 1 {
		err = d.runParallel(ctx, statuses)
	} else {
		err = d.runSequential(ctx, statuses)
	}

	summary := model.RunSummary{DryRun: d.opts.DryRun}
	for _, st := range statuses {
		if st != nil {
			summary.Add(*st)
		}
	}
	return summary, err
}

func (d *Driver) runSequential(ctx context.Context, statuses []*model.RepoStatus) error {
	for i, repo := range d.cfg.Registry {
		if err := ctx.Err(); err != nil {
			return err
		}
		st, err := d.processRepo(ctx, repo)
		d.record(statuses, i, st, err)
		if err != nil {
			return err
		}
	}
	return nil
}

// runParallel fans repos out over a bounded errgroup. The first fatal error
// cancels the shared context so siblings stop before their next action.
func (d *Driver) runParallel(ctx context.Context, statuses []*model.RepoStatus) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)

	for i, repo := range d.cfg.Registry {
		g.Go(func() error {
			// repos still queued behind the limit when the group is
			// cancelled never start and leave no status behind
			if err := gctx.Err(); err != nil {
				return err
			}
			st, err := d.processRepo(gctx, repo)
			d.record(statuses, i, st, err)
			return err
		})
	}

	return g.Wait()
}

func (d *Driver) processRepo(ctx context.Context, repo model.Repo) (model.RepoStatus, error) {
	root := repo.Root(d.cfg.DestinationRoot)
	st := model.RepoStatus{Name: repo.Name, Root: root, Counts: make(map[model.Effect]int)}

	ok, err := d.fs.IsDir(root)
	if err != nil || !ok {
		if err == nil {
			err = ErrRepoNotFound
		}
		st.Skipped = true
		d.sink.RepoSkipped(repo, root, err)
		return st, nil
	}

	actions := Resolve(repo, d.cfg.Catalog)
	logging.Debug("resolved actions",
		logging.Repo(repo.Name),
		logging.Count(len(actions)),
	)

	for _, action := range actions {
		out, err := d.exec.Apply(ctx, repo.Name, d.cfg.SourceRoot, root, action)
		if err != nil && !IsFatal(err) {
			// cancelled before the action ran
			return st, err
		}
		st.Counts[out.Effect]++
		d.sink.Outcome(out)
		if err != nil {
			return st, err
		}
	}

	return st, nil
}

// record stores the status of a repo that did some work. A repo cancelled
// before its first action is left out of the summary.
func (d *Driver) record(statuses []*model.RepoStatus, i int, st model.RepoStatus, err error) {
	if err != nil && !IsFatal(err) && len(st.Counts) == 0 {
		return
	}
	statuses[i] = &st
	d.progress(st)
}

func (d *Driver) progress(st model.RepoStatus) {
	if d.opts.Progress == nil {
		return
	}
	d.progressMu.Lock()
	defer d.progressMu.Unlock()
	d.opts.Progress(st)
}
