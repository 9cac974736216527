package model

import (
	"fmt"
	"path/filepath"
)

// Repo is a destination tree that receives copies of the canonical files.
// Repos are built once from configuration and never modified during a run.
type Repo struct {
	// Name identifies the repo and is the last element of its destination root.
	Name string
	// Path is the parent directory of the repo, relative to the configured root
	// unless absolute.
	Path string
	// HasLibFiles enables the lib scope of every copy category.
	HasLibFiles bool
	// HasGitFiles enables the git scope of every copy category.
	HasGitFiles bool
	// CopyEnabled allows copy actions for this repo.
	CopyEnabled bool
	// DeleteEnabled allows delete actions for this repo.
	DeleteEnabled bool
}

// Root returns the destination root of the repo below root.
func (r Repo) Root(root string) string {
	if filepath.IsAbs(r.Path) || root == "" {
		return filepath.Join(r.Path, r.Name)
	}
	return filepath.Join(root, r.Path, r.Name)
}

// Scopes returns the catalog scopes that apply to the repo, in resolution order.
func (r Repo) Scopes() []Scope {
	scopes := []Scope{ScopeCommon}
	if r.HasLibFiles {
		scopes = append(scopes, ScopeLib)
	}
	if r.HasGitFiles {
		scopes = append(scopes, ScopeGit)
	}
	return scopes
}

// String returns a compact description of the repo and its flags.
func (r Repo) String() string {
	return fmt.Sprintf("%s (lib=%t git=%t copy=%t delete=%t)",
		r.Name, r.HasLibFiles, r.HasGitFiles, r.CopyEnabled, r.DeleteEnabled)
}

// Registry is the ordered list of destination repos for a run.
type Registry []Repo

// Find returns the repo with the given name.
func (r Registry) Find(name string) (Repo, bool) {
	for _, repo := range r {
		if repo.Name == name {
			return repo, true
		}
	}
	return Repo{}, false
}

// Names returns repo names in registry order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for _, repo := range r {
		names = append(names, repo.Name)
	}
	return names
}
