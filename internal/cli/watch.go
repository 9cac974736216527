package cli

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"

	"github.com/urfave/cli/v3"

	"github.com/klauern/repodist/internal/logging"
	"github.com/klauern/repodist/internal/sync"
	"github.com/klauern/repodist/internal/ui"
	"github.com/klauern/repodist/internal/watch"
)

func watchCommand() *cli.Command {
	flags := append(syncFlags(), &cli.DurationFlag{
		Name:  "debounce",
		Usage: "Quiet period after the last change before distributing",
		Value: watch.DefaultDebounce,
	})

	return &cli.Command{
		Name:      "watch",
		Usage:     "Distribute once, then again whenever the source tree changes",
		UsageText: "repodist watch [options]",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			opts := runOptionsFrom(cmd, cfg)
			out, errOut := stdout(cmd), stderr(cmd)

			// Runs never overlap; a change during a run queues the next one.
			var mu gosync.Mutex
			run := func() {
				mu.Lock()
				defer mu.Unlock()
				if ctx.Err() != nil {
					return
				}
				if _, err := distribute(ctx, cfg, opts, out, errOut); err != nil && !errors.Is(err, context.Canceled) {
					_, _ = fmt.Fprintln(errOut, ui.StatusError(err.Error()))
					if sync.IsFatal(err) {
						logging.Error("distribution aborted", logging.Err(err))
					}
				}
			}

			w, err := watch.New(cmd.Duration("debounce"), watch.Filter{
				Exclude: watch.DefaultExcludes,
				Dirs:    []string{cfg.Backup.Location},
			}, func(paths []string) {
				logging.Info("source changed", logging.Count(len(paths)))
				_, _ = fmt.Fprintln(out, ui.Info(fmt.Sprintf("source changed (%d paths), distributing", len(paths))))
				run()
			})
			if err != nil {
				return err
			}
			if err := w.AddRecursive(cfg.Source); err != nil {
				return err
			}

			run()
			_, _ = fmt.Fprintln(out, ui.Dim("watching "+cfg.Source+" (Ctrl+C to stop)"))

			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
