// Package sync distributes canonical files from a source tree to many
// destination repos.
//
// A run is driven by a Driver. For every repo in the registry it checks that
// the destination root exists, resolves the repo's actions from the catalog
// (Resolve), and applies them in order with an Executor. The Executor
// compares content digests (Comparator) and consults the timestamp guard
// (MayOverwrite) before replacing a destination file.
//
// # Categories
//
//   - mandatory: create when absent, overwrite when content differs
//   - optional: overwrite when content differs, never create
//   - new: create when absent, never overwrite, even with Force
//   - delete: remove when present
//
// # Conflicts
//
// A destination file whose modification time is newer than the source and
// whose content differs is a conflict. Without Force it is skipped and
// reported at error severity; the run continues.
//
// # Fatal errors
//
// A missing source file that a copy requires means the canonical tree is
// incomplete. Apply returns a *FatalError and the Driver aborts the run,
// cancelling sibling repos when running with several workers.
//
//	drv := sync.NewDriver(fsys.OS(), &sync.Config{...}, sink, sync.Options{Force: force})
//	summary, err := drv.Run(ctx)
package sync
