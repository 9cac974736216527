package sync

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/klauern/repodist/internal/fsys"
)

// Digest returns the hex SHA-256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Comparator decides file equality by content digest, never by size or time,
// so a file that was touched but not altered is not reported as changed.
type Comparator struct {
	fs fsys.FS
}

// NewComparator creates a Comparator over fs.
func NewComparator(fs fsys.FS) *Comparator {
	return &Comparator{fs: fs}
}

// FileDigest returns the digest of the file at path.
func (c *Comparator) FileDigest(path string) (string, error) {
	data, err := c.fs.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", path, err)
	}
	return Digest(data), nil
}

// ContentsEqual reports whether both files have the same content digest.
func (c *Comparator) ContentsEqual(pathA, pathB string) (bool, error) {
	a, err := c.FileDigest(pathA)
	if err != nil {
		return false, err
	}
	b, err := c.FileDigest(pathB)
	if err != nil {
		return false, err
	}
	return a == b, nil
}

// EqualTo reports whether the file at path has the given content.
func (c *Comparator) EqualTo(path string, content []byte) (bool, error) {
	d, err := c.FileDigest(path)
	if err != nil {
		return false, err
	}
	return d == Digest(content), nil
}

// ModTime returns the modification time of path; ok is false when path is absent.
func (c *Comparator) ModTime(path string) (t time.Time, ok bool, err error) {
	return c.fs.ModTime(path)
}
