package backup

import (
	"fmt"
	"time"
)

// CleanupOptions configures backup cleanup behavior
type CleanupOptions struct {
	// MaxBackups limits the number of backups kept per destination file (0 = unlimited)
	MaxBackups int

	// MaxAge is the maximum age of backups to keep (0 = unlimited)
	MaxAge time.Duration

	// KeepAtLeastOne keeps the newest backup of every file regardless of age
	KeepAtLeastOne bool

	// Repo filters cleanup to one repo (empty = all repos)
	Repo string

	// DryRun reports what would be deleted without deleting
	DryRun bool
}

// DefaultCleanupOptions returns sensible defaults for cleanup
func DefaultCleanupOptions() CleanupOptions {
	return CleanupOptions{
		MaxBackups:     10,
		MaxAge:         30 * 24 * time.Hour,
		KeepAtLeastOne: true,
	}
}

// Cleanup removes old backups and returns the IDs it removed (or would remove).
func (s *Store) Cleanup(opts CleanupOptions) ([]string, error) {
	backups, err := s.List(opts.Repo)
	if err != nil {
		return nil, err
	}

	// List is newest first, so each group is too.
	groups := make(map[string][]Metadata)
	var order []string
	for _, md := range backups {
		key := md.groupKey()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], md)
	}

	now := s.now()
	var toDelete []string
	for _, key := range order {
		for idx, md := range groups[key] {
			if idx == 0 && opts.KeepAtLeastOne {
				continue
			}
			tooOld := opts.MaxAge > 0 && now.Sub(md.CreatedAt) > opts.MaxAge
			tooMany := opts.MaxBackups > 0 && idx >= opts.MaxBackups
			if tooOld || tooMany {
				toDelete = append(toDelete, md.ID)
			}
		}
	}

	if opts.DryRun {
		return toDelete, nil
	}

	var deleted []string
	for _, id := range toDelete {
		if err := s.Delete(id); err != nil {
			return deleted, fmt.Errorf("failed to delete backup %q: %w", id, err)
		}
		deleted = append(deleted, id)
	}
	return deleted, nil
}
