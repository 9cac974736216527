package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauern/repodist/internal/util"
)

// workspace is a source tree, a projects root and a settings directory.
type workspace struct {
	dir      string
	source   string
	root     string
	backups  string
	settings string
}

func (ws workspace) configArgs() []string {
	return []string{
		"-c", filepath.Join(ws.settings, "repos.yaml"),
		"-c", filepath.Join(ws.settings, "actions.yaml"),
	}
}

func (ws workspace) repoFile(repo, rel string) string {
	return filepath.Join(ws.root, "work", repo, filepath.FromSlash(rel))
}

var baseTime = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

// newWorkspace creates a source tree with LICENSE, .editorconfig, lib/setup.cfg
// and .gitignore, an existing repo beta (lib) and gamma, and an absent repo alpha.
func newWorkspace(t *testing.T) workspace {
	t.Helper()
	for _, k := range []string{"REPODIST_HOME", "REPODIST_SOURCE", "REPODIST_ROOT", "REPODIST_WORKERS",
		"REPODIST_BACKUP_ENABLED", "REPODIST_BACKUP_LOCATION", "REPODIST_OUTPUT_COLOR", "REPODIST_CONFIG"} {
		t.Setenv(k, "")
	}

	dir := t.TempDir()
	ws := workspace{
		dir:      dir,
		source:   filepath.Join(dir, "canon"),
		root:     filepath.Join(dir, "projects"),
		backups:  filepath.Join(dir, "backups"),
		settings: filepath.Join(dir, "canon", "settings"),
	}

	for rel, content := range map[string]string{
		"LICENSE":       "MIT\n",
		".editorconfig": "root = true\n",
		"lib/setup.cfg": "[metadata]\n",
		".gitignore":    "*.pyc\n",
	} {
		p := filepath.Join(ws.source, filepath.FromSlash(rel))
		util.WriteFile(t, p, content)
		util.Touch(t, p, baseTime)
	}

	for _, repo := range []string{"beta", "gamma"} {
		if err := os.MkdirAll(filepath.Join(ws.root, "work", repo), 0o750); err != nil {
			t.Fatal(err)
		}
	}

	util.WriteFile(t, filepath.Join(ws.settings, "repos.yaml"), fmt.Sprintf(`source: %s
root: %s
repos:
  - {name: alpha, path: work}
  - {name: beta, path: work, lib: true}
  - {name: gamma, path: work, git: true}
backup:
  enabled: true
  location: %s
`, ws.source, ws.root, ws.backups))

	util.WriteFile(t, filepath.Join(ws.settings, "actions.yaml"), `actions:
  copy:
    mandatory:
      common: [LICENSE]
      lib: [lib/setup.cfg]
    optional:
      common: [.editorconfig]
    new:
      git: [.gitignore]
  delete: [legacy/old.cfg]
`)
	return ws
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// runApp runs the CLI with captured output.
func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := newApp(&out, &errOut).Run(context.Background(), append([]string{"repodist"}, args...))
	return out.String(), errOut.String(), err
}
