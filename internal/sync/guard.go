package sync

import "time"

// MayOverwrite decides whether a destination file may be replaced by the
// source. The source tree is canonical, but a destination edited after the
// last distribution is newer than its source and is protected unless force
// is set.
func MayOverwrite(sourceTime, destinationTime time.Time, force bool) bool {
	if force {
		return true
	}
	return !destinationTime.After(sourceTime)
}
