package sync

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/klauern/repodist/internal/fsys"
	"github.com/klauern/repodist/internal/logging"
	"github.com/klauern/repodist/internal/model"
)

// Backuper keeps the previous content of a destination file before it is
// overwritten or deleted.
type Backuper interface {
	Backup(repo, relPath string, content []byte, modTime time.Time) error
}

// Executor applies single actions to single files.
type Executor struct {
	fs      fsys.FS
	cmp     *Comparator
	force   bool
	dryRun  bool
	backups Backuper
}

// NewExecutor creates an Executor. backups may be nil.
func NewExecutor(fs fsys.FS, force, dryRun bool, backups Backuper) *Executor {
	return &Executor{
		fs:      fs,
		cmp:     NewComparator(fs),
		force:   force,
		dryRun:  dryRun,
		backups: backups,
	}
}

// Apply evaluates action for one repo. Recoverable problems are part of the
// returned outcome; the error is non-nil only for a *FatalError or a
// cancelled context.
func (e *Executor) Apply(ctx context.Context, repo, sourceRoot, destinationRoot string, action model.Action) (model.Outcome, error) {
	out := model.Outcome{Path: action.Path, Repo: repo, Category: action.Category}
	if err := ctx.Err(); err != nil {
		return out, err
	}

	src := filepath.Join(sourceRoot, filepath.FromSlash(action.Path))
	dst := filepath.Join(destinationRoot, filepath.FromSlash(action.Path))

	switch action.Category {
	case model.CategoryDelete:
		return e.remove(out, dst), nil
	case model.CategoryMandatory, model.CategoryOptional, model.CategoryNew:
	default:
		return failed(out, "resolve", fmt.Errorf("unknown category %q", action.Category)), nil
	}

	dstTime, dstExists, err := e.cmp.ModTime(dst)
	if err != nil {
		return failed(out, "stat destination", err), nil
	}

	if !dstExists {
		switch action.Category {
		case model.CategoryOptional:
			out.Effect = model.EffectSkippedAbsent
			out.Reason = "destination absent, optional files are never created"
			return out, nil
		case model.CategoryMandatory, model.CategoryNew:
			return e.copy(out, src, dst, model.EffectCreated)
		}
	}

	if action.Category == model.CategoryNew {
		out.Effect = model.EffectNoop
		out.Reason = "destination present, new files are never overwritten"
		return out, nil
	}

	content, srcTime, err := e.readSource(out, src)
	if err != nil {
		return fatal(out, err), err
	}

	equal, err := e.cmp.EqualTo(dst, content)
	if err != nil {
		return failed(out, "compare", err), nil
	}
	if equal {
		out.Effect = model.EffectNoop
		return out, nil
	}

	if !MayOverwrite(srcTime, dstTime, e.force) {
		out.Effect = model.EffectSkippedConflict
		out.Reason = fmt.Sprintf("destination is newer (%s > %s)",
			dstTime.Format(time.RFC3339), srcTime.Format(time.RFC3339))
		return out, nil
	}

	if err := e.backup(repo, action.Path, dst, dstTime); err != nil {
		return failed(out, "backup", err), nil
	}
	return e.write(out, dst, content, srcTime, model.EffectOverwritten), nil
}

// copy reads the source and writes it to a destination that does not exist yet.
func (e *Executor) copy(out model.Outcome, src, dst string, effect model.Effect) (model.Outcome, error) {
	content, srcTime, err := e.readSource(out, src)
	if err != nil {
		return fatal(out, err), err
	}
	return e.write(out, dst, content, srcTime, effect), nil
}

// readSource reads a canonical file. Its absence is fatal.
func (e *Executor) readSource(out model.Outcome, src string) ([]byte, time.Time, error) {
	srcTime, ok, err := e.fs.ModTime(src)
	if err == nil && !ok {
		err = ErrMissingSource
	}
	if err != nil {
		return nil, time.Time{}, &FatalError{Repo: out.Repo, Path: src, Err: err}
	}
	content, err := e.fs.ReadFile(src)
	if err != nil {
		return nil, time.Time{}, &FatalError{Repo: out.Repo, Path: src, Err: err}
	}
	return content, srcTime, nil
}

// write replaces dst with content and stamps it with the source time so the
// next run's guard compares meaningful times.
func (e *Executor) write(out model.Outcome, dst string, content []byte, srcTime time.Time, effect model.Effect) model.Outcome {
	out.Effect = effect
	if e.dryRun {
		out.Reason = "would " + effect.Verb()
		return out
	}
	if err := e.fs.WriteFile(dst, content); err != nil {
		return failed(out, "write", err)
	}
	if err := e.fs.SetModTime(dst, srcTime); err != nil {
		return failed(out, "set modification time", err)
	}
	logging.Debug("wrote file",
		logging.Repo(out.Repo),
		logging.Path(out.Path),
		logging.Effect(string(effect)),
	)
	return out
}

func (e *Executor) remove(out model.Outcome, dst string) model.Outcome {
	dstTime, ok, err := e.fs.ModTime(dst)
	if err != nil {
		return failed(out, "stat destination", err)
	}
	if ok {
		ok, err = e.fs.Exists(dst)
		if err != nil {
			return failed(out, "stat destination", err)
		}
	}
	if !ok {
		out.Effect = model.EffectNoop
		return out
	}

	out.Effect = model.EffectDeleted
	if e.dryRun {
		out.Reason = "would delete"
		return out
	}
	if err := e.backup(out.Repo, out.Path, dst, dstTime); err != nil {
		return failed(out, "backup", err)
	}
	if err := e.fs.Remove(dst); err != nil {
		return failed(out, "remove", err)
	}
	return out
}

func (e *Executor) backup(repo, relPath, dst string, modTime time.Time) error {
	if e.backups == nil || e.dryRun {
		return nil
	}
	content, err := e.fs.ReadFile(dst)
	if err != nil {
		return err
	}
	return e.backups.Backup(repo, relPath, content, modTime)
}

func failed(out model.Outcome, op string, err error) model.Outcome {
	out.Effect = model.EffectFailed
	out.Reason = fmt.Sprintf("%s: %v", op, err)
	return out
}

func fatal(out model.Outcome, err error) model.Outcome {
	out.Effect = model.EffectFatal
	out.Reason = err.Error()
	return out
}
