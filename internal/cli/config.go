package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/klauern/repodist/internal/config"
	"github.com/klauern/repodist/internal/fsys"
	"github.com/klauern/repodist/internal/ui"
	"github.com/klauern/repodist/internal/util"
	"github.com/klauern/repodist/internal/validation"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect, validate or create the configuration",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the merged configuration",
				Action: configShowAction,
			},
			{
				Name:   "validate",
				Usage:  "Check repos, catalog paths and the source tree",
				Action: configValidateAction,
			},
			{
				Name:      "init",
				Usage:     "Write starter repos.yaml and actions.yaml",
				UsageText: "repodist config init [--dir DIR] [--single] [--force]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Settings directory (default: $REPODIST_HOME or ./settings)",
					},
					&cli.BoolFlag{
						Name:  "single",
						Usage: "Write one repodist.yaml instead of repos.yaml and actions.yaml",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite existing settings files",
					},
				},
				Action: configInitAction,
			},
		},
	}
}

func configShowAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	w := stdout(cmd)
	for _, f := range cfg.Files {
		_, _ = fmt.Fprintf(w, "# %s\n", f)
	}
	_, err = w.Write(data)
	return err
}

func configValidateAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	result, err := validation.Validate(fsys.OS(), validation.Input{
		SourceRoot: cfg.Source,
		Registry:   cfg.Registry(),
		Catalog:    cfg.Catalog(),
	})

	w := stdout(cmd)
	for _, warning := range result.Warnings {
		_, _ = fmt.Fprintln(w, ui.StatusWarning(warning))
	}
	for _, e := range result.Errors {
		_, _ = fmt.Fprintln(w, ui.StatusError(e.Error()))
	}
	if err != nil {
		return errors.New(result.Summary())
	}

	_, _ = fmt.Fprintln(w, ui.StatusSuccess(fmt.Sprintf("%s (%d repos, %d catalog entries)",
		result.Summary(), len(cfg.Repos), cfg.Catalog().Len())))
	return nil
}

func configInitAction(_ context.Context, cmd *cli.Command) error {
	dir := cmd.String("dir")
	if dir == "" {
		dir = util.RepodistHome()
	}

	if existing := config.SettingsFiles(dir); len(existing) > 0 && !cmd.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", existing[0])
	}

	if cmd.Bool("single") {
		path := filepath.Join(dir, config.SingleFileName)
		if err := starterConfig().SaveToPath(path); err != nil {
			return fmt.Errorf("failed to write settings: %w", err)
		}
		_, _ = fmt.Fprintln(stdout(cmd), ui.StatusSuccess("wrote "+path))
		return nil
	}

	if err := starterConfig().SaveSplit(dir); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	_, _ = fmt.Fprintln(stdout(cmd), ui.StatusSuccess("wrote "+filepath.Join(dir, config.ReposFileName)+" and "+config.ActionsFileName))
	return nil
}

// starterConfig is the configuration written by config init.
func starterConfig() *config.Config {
	cfg := config.Default()
	cfg.Root = util.HomeDir()
	cfg.Repos = []config.RepoConfig{
		{Name: "example", Path: "projects", Git: true},
	}
	cfg.Actions = config.ActionsConfig{
		Copy: config.CopyConfig{
			Mandatory: config.ScopedConfig{Common: []string{"LICENSE"}},
			Optional:  config.ScopedConfig{Common: []string{".editorconfig"}},
			New:       config.ScopedConfig{Git: []string{".gitignore"}},
		},
	}
	return cfg
}
