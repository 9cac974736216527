// Package backup keeps copies of destination files before distribution
// overwrites or deletes them.
package backup

import (
	"time"
)

// Metadata describes a single backup.
type Metadata struct {
	ID         string    `json:"id"`          // timestamp plus content hash prefix
	Repo       string    `json:"repo"`        // destination repo name
	Path       string    `json:"path"`        // path relative to the repo root
	BackupPath string    `json:"backup_path"` // where the content is stored
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"` // modification time of the replaced file
	Hash       string    `json:"hash"`        // SHA256 of content
	Size       int64     `json:"size"`
}

// groupKey identifies all backups of one destination file.
func (m Metadata) groupKey() string {
	return m.Repo + ":" + m.Path
}

// Stats contains statistics about stored backups.
type Stats struct {
	TotalBackups  int
	TotalSize     int64
	BackupsByRepo map[string]int
	OldestBackup  time.Time
	NewestBackup  time.Time
}
