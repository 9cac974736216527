// Package config loads the distribution settings: the repo registry, the file
// catalog and the ambient options. Several YAML (or TOML) files are merged in
// order, then environment variables override the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/klauern/repodist/internal/backup"
	"github.com/klauern/repodist/internal/model"
	"github.com/klauern/repodist/internal/util"
)

// Config represents the complete repodist configuration.
type Config struct {
	// Source is the canonical source tree
	Source string `yaml:"source,omitempty"`
	// Root is joined in front of every relative repo path
	Root string `yaml:"root,omitempty"`
	// Workers is the number of repos processed concurrently
	Workers int `yaml:"workers"`

	Repos   []RepoConfig  `yaml:"repos,omitempty"`
	Actions ActionsConfig `yaml:"actions,omitempty"`

	// Backup configures backup behavior
	Backup BackupConfig `yaml:"backup"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output"`

	// Files lists the configuration files that were merged, in order.
	Files []string `yaml:"-"`
}

// RepoConfig describes one destination repo.
type RepoConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	Lib  bool   `yaml:"lib,omitempty"`
	Git  bool   `yaml:"git,omitempty"`
	// Copy and Delete default to true when omitted.
	Copy   *bool `yaml:"copy,omitempty"`
	Delete *bool `yaml:"delete,omitempty"`
}

// ActionsConfig is the file catalog.
type ActionsConfig struct {
	Copy   CopyConfig `yaml:"copy,omitempty"`
	Delete []string   `yaml:"delete,omitempty"`
}

// CopyConfig holds the copy categories.
type CopyConfig struct {
	Mandatory ScopedConfig `yaml:"mandatory,omitempty"`
	Optional  ScopedConfig `yaml:"optional,omitempty"`
	New       ScopedConfig `yaml:"new,omitempty"`
}

// ScopedConfig holds the paths of one category per scope.
type ScopedConfig struct {
	Common []string `yaml:"common,omitempty"`
	Lib    []string `yaml:"lib,omitempty"`
	Git    []string `yaml:"git,omitempty"`
}

// BackupConfig holds backup settings.
type BackupConfig struct {
	// Enabled stores replaced and deleted files before they change
	Enabled bool `yaml:"enabled"`
	// Location is the backup directory path
	Location string `yaml:"location"`
	// MaxBackups is the number of backups kept per file by cleanup
	MaxBackups int `yaml:"max_backups"`
	// MaxAge is the age after which cleanup removes backups
	MaxAge time.Duration `yaml:"max_age"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Color controls color output (auto, always, never)
	Color string `yaml:"color"`
}

// Default file names inside the settings directory.
const (
	ReposFileName   = "repos.yaml"
	ActionsFileName = "actions.yaml"
	// SingleFileName holds repos and actions together.
	SingleFileName = "repodist.yaml"
)

// ErrNoConfig is returned by Load when no configuration file exists.
var ErrNoConfig = errors.New("no configuration found")

// Default returns the default configuration.
func Default() *Config {
	retention := backup.DefaultCleanupOptions()
	return &Config{
		Workers: 1,
		Backup: BackupConfig{
			Enabled:    true,
			Location:   util.RepodistBackupsPath(),
			MaxBackups: retention.MaxBackups,
			MaxAge:     retention.MaxAge,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// DefaultPaths returns the settings files that exist in the settings directory.
func DefaultPaths() []string {
	return SettingsFiles(util.RepodistHome())
}

// SettingsFiles returns the known settings files present in dir, in merge order.
func SettingsFiles(dir string) []string {
	var paths []string
	for _, name := range []string{SingleFileName, ReposFileName, ActionsFileName} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	return paths
}

// Load merges the given files over the defaults. With no paths it uses
// DefaultPaths. Relative source and root paths are resolved against the
// directory of the first file; an empty source means that directory's parent.
func Load(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = DefaultPaths()
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoConfig, util.RepodistHome())
	}

	merged := map[string]any{}
	for _, p := range paths {
		doc, err := readDocument(p)
		if err != nil {
			return nil, err
		}
		merged = mergeMaps(merged, doc)
	}

	if err := expandPlaceholders(merged); err != nil {
		return nil, err
	}

	// Round-trip through YAML so the typed decoding rules apply to every format.
	data, err := yaml.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to encode merged configuration: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.Files = paths

	baseDir, err := filepath.Abs(filepath.Dir(paths[0]))
	if err != nil {
		return nil, err
	}
	cfg.resolvePaths(baseDir)
	cfg.applyEnvironment()

	return cfg, nil
}

func (c *Config) resolvePaths(baseDir string) {
	if c.Source == "" {
		c.Source = filepath.Dir(baseDir)
	} else {
		c.Source = util.ResolvePath(c.Source, baseDir)
	}
	c.Root = util.ResolvePath(c.Root, baseDir)
	c.Backup.Location = util.ExpandHome(c.Backup.Location)
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern REPODIST_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("REPODIST_SOURCE"); v != "" {
		c.Source = util.ExpandHome(v)
	}
	if v := os.Getenv("REPODIST_ROOT"); v != "" {
		c.Root = util.ExpandHome(v)
	}
	if v := os.Getenv("REPODIST_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workers = n
		}
	}

	// Backup settings
	if v := os.Getenv("REPODIST_BACKUP_ENABLED"); v != "" {
		c.Backup.Enabled = parseBool(v)
	}
	if v := os.Getenv("REPODIST_BACKUP_LOCATION"); v != "" {
		c.Backup.Location = util.ExpandHome(v)
	}

	if v := os.Getenv("REPODIST_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// Registry builds the repo registry. Copy and delete default to enabled.
func (c *Config) Registry() model.Registry {
	registry := make(model.Registry, 0, len(c.Repos))
	for _, r := range c.Repos {
		registry = append(registry, model.Repo{
			Name:          r.Name,
			Path:          util.ExpandHome(r.Path),
			HasLibFiles:   r.Lib,
			HasGitFiles:   r.Git,
			CopyEnabled:   r.Copy == nil || *r.Copy,
			DeleteEnabled: r.Delete == nil || *r.Delete,
		})
	}
	return registry
}

// Catalog builds the file catalog.
func (c *Config) Catalog() model.Catalog {
	scoped := func(s ScopedConfig) model.ScopedPaths {
		return model.ScopedPaths{
			Common: clonePaths(s.Common),
			Lib:    clonePaths(s.Lib),
			Git:    clonePaths(s.Git),
		}
	}
	return model.Catalog{
		Mandatory: scoped(c.Actions.Copy.Mandatory),
		Optional:  scoped(c.Actions.Copy.Optional),
		New:       scoped(c.Actions.Copy.New),
		Delete:    clonePaths(c.Actions.Delete),
	}
}

func clonePaths(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	out := make([]string, len(paths))
	copy(out, paths)
	return out
}

// EffectiveWorkers returns the configured worker count, at least 1.
func (c *Config) EffectiveWorkers() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}

// Marshal returns the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// SaveToPath writes the configuration to a specific path.
func (c *Config) SaveToPath(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// SaveSplit writes the configuration as repos.yaml and actions.yaml in dir,
// the layout Load expects by default.
func (c *Config) SaveSplit(dir string) error {
	repos := *c
	repos.Actions = ActionsConfig{}
	reposData, err := yaml.Marshal(&repos)
	if err != nil {
		return err
	}

	actionsData, err := yaml.Marshal(map[string]ActionsConfig{"actions": c.Actions})
	if err != nil {
		return err
	}

	if err := writeFile(filepath.Join(dir, ReposFileName), reposData); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, ActionsFileName), actionsData)
}

func writeFile(path string, data []byte) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}
