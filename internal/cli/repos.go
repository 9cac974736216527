package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/klauern/repodist/internal/fsys"
	"github.com/klauern/repodist/internal/model"
	"github.com/klauern/repodist/internal/sync"
	"github.com/klauern/repodist/internal/ui"
)

func reposCommand() *cli.Command {
	return &cli.Command{
		Name:  "repos",
		Usage: "List the configured repos and whether their roots exist",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			fs := fsys.OS()
			w := stdout(cmd)
			registry := cfg.Registry()
			if len(registry) == 0 {
				_, _ = fmt.Fprintln(w, "No repos configured")
				return nil
			}

			for _, repo := range registry {
				root := repo.Root(cfg.Root)
				status := ui.StatusSuccess(ui.Bold(repo.Name))
				if ok, err := fs.IsDir(root); err != nil || !ok {
					status = ui.StatusWarning(ui.Bold(repo.Name) + " " + ui.Warning("(not found)"))
				}
				_, _ = fmt.Fprintf(w, "%s\n    %s %s\n", status, ui.Dim(root), flagSummary(repo))
			}
			return nil
		},
	}
}

func flagSummary(repo model.Repo) string {
	var flags []string
	if repo.HasLibFiles {
		flags = append(flags, "lib")
	}
	if repo.HasGitFiles {
		flags = append(flags, "git")
	}
	if !repo.CopyEnabled {
		flags = append(flags, "no-copy")
	}
	if !repo.DeleteEnabled {
		flags = append(flags, "no-delete")
	}
	if len(flags) == 0 {
		return ""
	}
	return "[" + strings.Join(flags, " ") + "]"
}

func planCommand() *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "Show the ordered actions that sync would apply to a repo",
		UsageText: "repodist plan [--category mandatory] [--explain] <repo>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "category",
				Usage: "Only show actions of this category (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "explain",
				Usage: "Describe each category shown",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("plan requires exactly 1 argument: <repo>")
			}
			name := cmd.Args().First()

			only, err := parseCategories(cmd.StringSlice("category"))
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			registry := cfg.Registry()
			repo, ok := registry.Find(name)
			if !ok {
				return fmt.Errorf("unknown repo %q (configured: %s)", name, strings.Join(registry.Names(), ", "))
			}

			w := stdout(cmd)
			_, _ = fmt.Fprintf(w, "%s %s\n", ui.Header(repo.Name), ui.Dim(repo.Root(cfg.Root)))

			shown := make(map[model.Category]bool)
			for _, a := range sync.Resolve(repo, cfg.Catalog()) {
				if len(only) > 0 && !only[a.Category] {
					continue
				}
				shown[a.Category] = true
				_, _ = fmt.Fprintf(w, "  %-9s %-6s %s\n", a.Category, a.Scope, a.Path)
			}
			if len(shown) == 0 {
				_, _ = fmt.Fprintln(w, "  no actions")
				return nil
			}

			if cmd.Bool("explain") {
				_, _ = fmt.Fprintln(w)
				for _, c := range model.AllCategories() {
					if shown[c] {
						_, _ = fmt.Fprintf(w, "  %-9s %s\n", c, ui.Dim(c.Description()))
					}
				}
			}
			return nil
		},
	}
}

// parseCategories turns --category values into a lookup set.
func parseCategories(values []string) (map[model.Category]bool, error) {
	set := make(map[model.Category]bool, len(values))
	for _, v := range values {
		c, err := model.ParseCategory(v)
		if err != nil {
			return nil, err
		}
		set[c] = true
	}
	return set, nil
}
