package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/klauern/repodist/internal/logging"
)

const (
	// DirPerm is the permission for backup directories (rwxr-x---)
	DirPerm = 0o750
	// FilePerm is the permission for backup files (rw-r-----)
	FilePerm = 0o640
	// IndexFilename is the bbolt database holding backup metadata.
	IndexFilename = "index.db"
)

var bucketBackups = []byte("backups")

// ErrNotFound is returned for an unknown backup ID.
var ErrNotFound = errors.New("backup not found")

// Store saves backup content under a directory and indexes it in bbolt.
// It is safe for concurrent use.
type Store struct {
	dir string
	db  *bolt.DB
	now func() time.Time
	// put writes one index entry.
	put func(b *bolt.Bucket, key, value []byte) error
}

// Open opens or creates the store in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create backups directory: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dir, IndexFilename), 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open backup index: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBackups)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize backup index: %w", err)
	}

	return &Store{dir: dir, db: db, now: time.Now, put: (*bolt.Bucket).Put}, nil
}

// Close releases the index database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Backup stores content as the previous version of relPath in repo.
func (s *Store) Backup(repo, relPath string, content []byte, modTime time.Time) error {
	md, err := s.Create(repo, relPath, content, modTime)
	if err != nil {
		return err
	}
	logging.Debug("created backup",
		logging.Repo(repo),
		logging.Path(relPath),
		"id", md.ID,
	)
	return nil
}

// Create writes content to the store and records its metadata.
func (s *Store) Create(repo, relPath string, content []byte, modTime time.Time) (*Metadata, error) {
	hash := sha256.Sum256(content)
	hashStr := hex.EncodeToString(hash[:])
	now := s.now()

	repoDir := filepath.Join(s.dir, safeName(repo))
	if err := os.MkdirAll(repoDir, DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create repo backup directory: %w", err)
	}

	md := &Metadata{
		Repo:       repo,
		Path:       relPath,
		CreatedAt:  now,
		ModifiedAt: modTime,
		Hash:       hashStr,
		Size:       int64(len(content)),
	}

	written := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBackups)

		base := now.Format("20060102-150405-") + hashStr[:8]
		id := base
		for n := 1; b.Get([]byte(id)) != nil; n++ {
			id = fmt.Sprintf("%s-%d", base, n)
		}
		md.ID = id
		md.BackupPath = filepath.Join(repoDir, id+filepath.Ext(relPath))

		if err := os.WriteFile(md.BackupPath, content, FilePerm); err != nil {
			return fmt.Errorf("failed to write backup file: %w", err)
		}
		written = true

		data, err := json.Marshal(md)
		if err != nil {
			return err
		}
		return s.put(b, []byte(id), data)
	})
	if err != nil {
		// the index rolled back, so the file would be unreachable
		if written {
			_ = os.Remove(md.BackupPath)
		}
		return nil, fmt.Errorf("failed to add backup to index: %w", err)
	}

	return md, nil
}

// Get returns the metadata of one backup.
func (s *Store) Get(id string) (Metadata, error) {
	var md Metadata
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketBackups).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return json.Unmarshal(data, &md)
	})
	return md, err
}

// List returns backups newest first, optionally filtered by repo.
func (s *Store) List(repo string) ([]Metadata, error) {
	var backups []Metadata
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBackups).ForEach(func(_, v []byte) error {
			var md Metadata
			if err := json.Unmarshal(v, &md); err != nil {
				return err
			}
			if repo == "" || md.Repo == repo {
				backups = append(backups, md)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read backup index: %w", err)
	}

	slices.SortFunc(backups, func(a, b Metadata) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return backups, nil
}

// Restore writes a backup to target after verifying its hash, and restores
// the modification time the file had when it was backed up.
func (s *Store) Restore(id, target string) error {
	md, err := s.Get(id)
	if err != nil {
		return err
	}

	// #nosec G304 - BackupPath comes from the store's own index
	content, err := os.ReadFile(md.BackupPath)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	hash := sha256.Sum256(content)
	if hex.EncodeToString(hash[:]) != md.Hash {
		return fmt.Errorf("backup file corrupted: hash mismatch")
	}

	if err := os.MkdirAll(filepath.Dir(target), DirPerm); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}
	// #nosec G306 - restored files get the permissions distribution would give them
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return fmt.Errorf("failed to write target file: %w", err)
	}
	if !md.ModifiedAt.IsZero() {
		if err := os.Chtimes(target, md.ModifiedAt, md.ModifiedAt); err != nil {
			return fmt.Errorf("failed to restore modification time: %w", err)
		}
	}
	return nil
}

// Delete removes a backup file and its index entry.
func (s *Store) Delete(id string) error {
	md, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := os.Remove(md.BackupPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete backup file: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBackups).Delete([]byte(id))
	})
}

// Stats returns statistics about all backups.
func (s *Store) Stats() (*Stats, error) {
	backups, err := s.List("")
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalBackups:  len(backups),
		BackupsByRepo: make(map[string]int),
	}
	for _, md := range backups {
		stats.TotalSize += md.Size
		stats.BackupsByRepo[md.Repo]++
		if stats.OldestBackup.IsZero() || md.CreatedAt.Before(stats.OldestBackup) {
			stats.OldestBackup = md.CreatedAt
		}
		if md.CreatedAt.After(stats.NewestBackup) {
			stats.NewestBackup = md.CreatedAt
		}
	}
	return stats, nil
}

// safeName turns a repo name into a single path element.
func safeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' {
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}
