// Package cli provides the command-line interface for repodist.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/klauern/repodist/internal/config"
	"github.com/klauern/repodist/internal/logging"
	"github.com/klauern/repodist/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	return newApp(os.Stdout, os.Stderr).Run(ctx, args)
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "repodist",
		Usage:     "Distribute canonical files to many repositories",
		Version:   Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Configuration file (repeatable, merged in order; default: repos.yaml and actions.yaml in $REPODIST_HOME or ./settings)",
				Sources: cli.EnvVars("REPODIST_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging, unchanged files listed)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Write logs as JSON",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			configureColors(cmd)
			return configureLogging(ctx, cmd)
		},
		Commands: []*cli.Command{
			syncCommand(),
			watchCommand(),
			reposCommand(),
			planCommand(),
			configCommand(),
			backupCommand(),
			versionCommand(),
		},
	}
}

// configureColors sets up color output based on CLI flags.
func configureColors(cmd *cli.Command) {
	if cmd.Bool("no-color") {
		ui.DisableColors()
	}
}

// configureLogging sets up the logger from CLI flags and tags it with a
// run ID. The logger is installed as default and attached to the context.
func configureLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	opts := logging.DefaultOptions()
	opts.Level = logging.LevelWarn
	opts.Output = cmd.Root().ErrWriter
	opts.JSON = cmd.Bool("log-json")

	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") {
		opts.Level = slog.LevelInfo
	}

	logger := logging.New(opts).With(logging.RunID(uuid.NewString()))
	logging.SetDefault(logger)

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))

	return logging.NewContext(ctx, logger), nil
}

// verbose reports whether --verbose or --debug is set.
func verbose(cmd *cli.Command) bool {
	return cmd.Bool("verbose") || cmd.Bool("debug")
}

// loadConfig loads the files named by --config, or the default settings files.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.StringSlice("config")...)
	if err != nil {
		return nil, err
	}
	if !cmd.Bool("no-color") {
		ui.ConfigureColors(cfg.Output.Color)
	}
	logging.Debug("configuration loaded",
		slog.Any("files", cfg.Files),
		logging.Path(cfg.Source),
	)
	return cfg, nil
}

func stdout(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}

func stderr(cmd *cli.Command) io.Writer {
	return cmd.Root().ErrWriter
}
