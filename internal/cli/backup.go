package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/urfave/cli/v3"

	"github.com/klauern/repodist/internal/backup"
	"github.com/klauern/repodist/internal/config"
	"github.com/klauern/repodist/internal/ui"
)

func backupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Manage backups of overwritten and deleted files",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List backups, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "repo", Usage: "Only list backups of this repo"},
				},
				Action: backupListAction,
			},
			{
				Name:      "restore",
				Usage:     "Restore a backup to its repo, or to --target",
				UsageText: "repodist backup restore <id> [--target PATH]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "target", Usage: "Write the backup here instead of its original location"},
				},
				Action: backupRestoreAction,
			},
			{
				Name:  "cleanup",
				Usage: "Delete old backups",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "max-backups", Usage: "Backups kept per file (default: from config)"},
					&cli.DurationFlag{Name: "max-age", Usage: "Delete backups older than this (default: from config)"},
					&cli.StringFlag{Name: "repo", Usage: "Only clean up backups of this repo"},
					&cli.BoolFlag{Name: "dry-run", Aliases: []string{"n"}, Usage: "Show what would be deleted"},
				},
				Action: backupCleanupAction,
			},
		},
	}
}

func openBackups(cmd *cli.Command) (*config.Config, *backup.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	store, err := backup.Open(cfg.Backup.Location)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

func backupListAction(_ context.Context, cmd *cli.Command) error {
	_, store, err := openBackups(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	backups, err := store.List(cmd.String("repo"))
	if err != nil {
		return err
	}

	w := stdout(cmd)
	if len(backups) == 0 {
		_, _ = fmt.Fprintln(w, "No backups found")
		return nil
	}

	for _, md := range backups {
		_, _ = fmt.Fprintf(w, "%s  %s  %s  %s\n",
			ui.Bold(md.ID),
			md.Repo+"/"+md.Path,
			ui.Dim(humanize.Bytes(uint64(md.Size))), // #nosec G115 - sizes are never negative
			ui.Dim(humanize.Time(md.CreatedAt)),
		)
	}

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "%s, %s total\n",
		english.Plural(stats.TotalBackups, "backup", "backups"),
		humanize.Bytes(uint64(stats.TotalSize))) // #nosec G115 - sizes are never negative
	return nil
}

func backupRestoreAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("restore requires exactly 1 argument: <id>")
	}
	id := cmd.Args().First()

	cfg, store, err := openBackups(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	md, err := store.Get(id)
	if err != nil {
		return err
	}

	target := cmd.String("target")
	if target == "" {
		repo, ok := cfg.Registry().Find(md.Repo)
		if !ok {
			return fmt.Errorf("repo %q is no longer configured; use --target", md.Repo)
		}
		target = filepath.Join(repo.Root(cfg.Root), filepath.FromSlash(md.Path))
	}

	if err := store.Restore(id, target); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout(cmd), ui.StatusSuccess("restored "+target))
	return nil
}

func backupCleanupAction(_ context.Context, cmd *cli.Command) error {
	cfg, store, err := openBackups(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	opts := backup.DefaultCleanupOptions()
	opts.Repo = cmd.String("repo")
	opts.DryRun = cmd.Bool("dry-run")
	if cfg.Backup.MaxBackups > 0 {
		opts.MaxBackups = cfg.Backup.MaxBackups
	}
	if cfg.Backup.MaxAge > 0 {
		opts.MaxAge = cfg.Backup.MaxAge
	}
	if n := cmd.Int("max-backups"); n > 0 {
		opts.MaxBackups = n
	}
	if d := cmd.Duration("max-age"); d > 0 {
		opts.MaxAge = d
	}

	deleted, err := store.Cleanup(opts)
	if err != nil {
		return err
	}

	verb := "deleted"
	if opts.DryRun {
		verb = "would delete"
	}
	_, _ = fmt.Fprintln(stdout(cmd), ui.StatusSuccess(fmt.Sprintf("%s %s", verb, english.Plural(len(deleted), "backup", "backups"))))
	return nil
}
