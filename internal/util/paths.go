package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// RepodistHome returns the directory holding the settings files.
// REPODIST_HOME overrides the default ./settings.
func RepodistHome() string {
	if dir := os.Getenv("REPODIST_HOME"); dir != "" {
		return ExpandHome(dir)
	}
	return "settings"
}

// RepodistDataPath returns the per-user data directory (~/.repodist).
func RepodistDataPath() string {
	return filepath.Join(HomeDir(), ".repodist")
}

// RepodistBackupsPath returns the default backup location.
func RepodistBackupsPath() string {
	return filepath.Join(RepodistDataPath(), "backups")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		return filepath.Join(HomeDir(), path[2:])
	}
	return path
}

// ResolvePath expands ~ and makes a relative path absolute against baseDir.
// Empty paths stay empty.
func ResolvePath(path, baseDir string) string {
	if path == "" {
		return ""
	}
	path = ExpandHome(path)
	if filepath.IsAbs(path) || baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}
