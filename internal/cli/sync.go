package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/klauern/repodist/internal/backup"
	"github.com/klauern/repodist/internal/config"
	"github.com/klauern/repodist/internal/fsys"
	"github.com/klauern/repodist/internal/logging"
	"github.com/klauern/repodist/internal/model"
	"github.com/klauern/repodist/internal/progress"
	"github.com/klauern/repodist/internal/report"
	"github.com/klauern/repodist/internal/sync"
	"github.com/klauern/repodist/internal/ui"
	"github.com/klauern/repodist/internal/validation"
)

// runOptions are the per-invocation knobs of a distribution run.
type runOptions struct {
	Force    bool
	DryRun   bool
	Workers  int
	NoBackup bool
	Quiet    bool
	Report   bool
	Verbose  bool
}

func syncFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "Overwrite destination files even when they are newer than the source",
		},
		&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"n"},
			Usage:   "Show what would change without modifying files",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of repos processed concurrently (default: from config)",
		},
		&cli.BoolFlag{
			Name:  "no-backup",
			Usage: "Do not back up files before overwriting or deleting them",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Print only the summary (shows a progress bar on terminals)",
		},
		&cli.BoolFlag{
			Name:  "report",
			Usage: "Print a per-repo table after the summary",
		},
	}
}

func runOptionsFrom(cmd *cli.Command, cfg *config.Config) runOptions {
	workers := cmd.Int("workers")
	if workers <= 0 {
		workers = cfg.EffectiveWorkers()
	}
	return runOptions{
		Force:    cmd.Bool("force"),
		DryRun:   cmd.Bool("dry-run"),
		Workers:  workers,
		NoBackup: cmd.Bool("no-backup"),
		Quiet:    cmd.Bool("quiet"),
		Report:   cmd.Bool("report"),
		Verbose:  verbose(cmd),
	}
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Distribute the canonical files to every configured repo",
		UsageText: "repodist sync [options]",
		Description: `Copy mandatory, optional and new files from the source tree into every
   repo of the registry and remove files listed for deletion.

   A destination file that is newer than its source is left alone unless
   --force is given.

   Examples:
     repodist sync
     repodist sync --dry-run --report
     repodist -c settings/repos.yaml -c settings/actions.yaml sync -f`,
		Flags: syncFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			_, err = distribute(ctx, cfg, runOptionsFrom(cmd, cfg), stdout(cmd), stderr(cmd))
			return err
		},
	}
}

// distribute validates the configuration, runs the driver and prints the
// outcome lines and the summary.
func distribute(ctx context.Context, cfg *config.Config, opts runOptions, out, errOut io.Writer) (model.RunSummary, error) {
	fs := fsys.OS()
	registry := cfg.Registry()
	catalog := cfg.Catalog()

	result, err := validation.Validate(fs, validation.Input{
		SourceRoot: cfg.Source,
		Registry:   registry,
		Catalog:    catalog,
	})
	for _, w := range result.Warnings {
		logging.Warn(w)
	}
	if err != nil {
		return model.RunSummary{}, err
	}

	var backups sync.Backuper
	if cfg.Backup.Enabled && !opts.NoBackup && !opts.DryRun {
		store, err := backup.Open(cfg.Backup.Location)
		if err != nil {
			return model.RunSummary{}, err
		}
		defer func() { _ = store.Close() }()
		backups = store
	}

	var sinks sync.MultiSink
	if !opts.Quiet {
		sinks = append(sinks, report.NewConsole(out, errOut, opts.Verbose))
	}
	if opts.Verbose {
		sinks = append(sinks, sync.LogSink{Logger: logging.FromContext(ctx)})
	}

	bar := progress.ForRepos(len(registry), !opts.Quiet)
	driver := sync.NewDriver(fs, &sync.Config{
		SourceRoot:      cfg.Source,
		DestinationRoot: cfg.Root,
		Registry:        registry,
		Catalog:         catalog,
	}, sinks, sync.Options{
		Force:    opts.Force,
		DryRun:   opts.DryRun,
		Workers:  opts.Workers,
		Backups:  backups,
		Progress: bar.RepoDone,
	})

	summary, runErr := driver.Run(ctx)
	_ = bar.Finish()

	_, _ = fmt.Fprintln(out, summaryLine(summary, runErr))
	for _, note := range report.Notes(summary) {
		_, _ = fmt.Fprintln(errOut, ui.Dim(note))
	}
	if opts.Report {
		_, _ = fmt.Fprintln(out, report.Table(summary))
	}

	return summary, runErr
}

func summaryLine(summary model.RunSummary, err error) string {
	line := report.Summarize(summary)
	switch {
	case err == nil:
		return ui.StatusSuccess(line)
	case sync.IsFatal(err):
		return ui.StatusError(line + " before abort")
	default:
		return ui.StatusWarning(line + " before interruption")
	}
}
