// Package fsys is the filesystem capability used by the sync engine.
// It narrows afero to the handful of operations distribution needs so
// the engine runs unchanged against the real disk or an in-memory tree.
package fsys

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const (
	// DirPerm is the permission for directories created on the destination.
	DirPerm = 0o750
	// FilePerm is the permission for files written to the destination.
	FilePerm = 0o644
)

// FS is the set of filesystem operations the engine depends on.
type FS interface {
	// Exists reports whether a regular file exists at path.
	Exists(path string) (bool, error)
	// IsDir reports whether a directory exists at path.
	IsDir(path string) (bool, error)
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces path atomically, creating parent directories.
	WriteFile(path string, data []byte) error
	// ModTime returns the modification time, or ok=false if path does not exist.
	ModTime(path string) (t time.Time, ok bool, err error)
	SetModTime(path string, t time.Time) error
	// Remove deletes a file. A missing file is not an error.
	Remove(path string) error
	MkdirAll(path string) error
}

// Afero implements FS on top of an afero filesystem.
type Afero struct {
	fs afero.Fs
}

// New wraps an afero filesystem.
func New(fs afero.Fs) *Afero {
	return &Afero{fs: fs}
}

// OS returns an FS backed by the operating system.
func OS() *Afero {
	return New(afero.NewOsFs())
}

// Memory returns an empty in-memory FS.
func Memory() *Afero {
	return New(afero.NewMemMapFs())
}

func (a *Afero) Exists(path string) (bool, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (a *Afero) IsDir(path string) (bool, error) {
	return afero.DirExists(a.fs, path)
}

func (a *Afero) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(a.fs, path)
}

func (a *Afero) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := a.fs.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}

	tmp, err := afero.TempFile(a.fs, dir, ".repodist-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %q: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = a.fs.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %q: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %q: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %q: %w", tmpPath, err)
	}
	if err := a.fs.Chmod(tmpPath, FilePerm); err != nil {
		return fmt.Errorf("failed to chmod %q: %w", tmpPath, err)
	}
	if err := a.fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename %q to %q: %w", tmpPath, path, err)
	}
	return nil
}

func (a *Afero) ModTime(path string) (time.Time, bool, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return info.ModTime(), true, nil
}

// SetModTime sets both access and modification time.
func (a *Afero) SetModTime(path string, t time.Time) error {
	return a.fs.Chtimes(path, t, t)
}

func (a *Afero) Remove(path string) error {
	if err := a.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (a *Afero) MkdirAll(path string) error {
	return a.fs.MkdirAll(path, DirPerm)
}
