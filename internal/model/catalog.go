package model

import (
	"fmt"
	"strings"
)

// Category determines the copy, overwrite, and creation policy for a file.
type Category string

const (
	// CategoryMandatory files are created when absent and refreshed when changed.
	CategoryMandatory Category = "mandatory"

	// CategoryOptional files are refreshed when changed but never created.
	CategoryOptional Category = "optional"

	// CategoryNew files are created once and never overwritten.
	CategoryNew Category = "new"

	// CategoryDelete files are removed from the destination.
	CategoryDelete Category = "delete"
)

// CopyCategories returns the copy categories in resolution order.
func CopyCategories() []Category {
	return []Category{CategoryMandatory, CategoryOptional, CategoryNew}
}

// AllCategories returns every category, copy categories first.
func AllCategories() []Category {
	return []Category{CategoryMandatory, CategoryOptional, CategoryNew, CategoryDelete}
}

// IsValid returns true if the category is recognized.
func (c Category) IsValid() bool {
	switch c {
	case CategoryMandatory, CategoryOptional, CategoryNew, CategoryDelete:
		return true
	default:
		return false
	}
}

// IsCopy returns true for the categories that copy from the source tree.
func (c Category) IsCopy() bool {
	return c == CategoryMandatory || c == CategoryOptional || c == CategoryNew
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// Description returns a human-readable description of the category.
func (c Category) Description() string {
	switch c {
	case CategoryMandatory:
		return "Create if missing, overwrite if changed"
	case CategoryOptional:
		return "Overwrite if changed, never create"
	case CategoryNew:
		return "Create if missing, never overwrite"
	case CategoryDelete:
		return "Remove from destination"
	default:
		return "Unknown category"
	}
}

// ParseCategory converts a string to a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.IsValid() {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q (valid: mandatory, optional, new, delete)", s)
}

// Scope selects which repos a copy list applies to.
type Scope string

const (
	// ScopeCommon lists apply to every repo.
	ScopeCommon Scope = "common"
	// ScopeLib lists apply to repos with library files.
	ScopeLib Scope = "lib"
	// ScopeGit lists apply to repos with git files.
	ScopeGit Scope = "git"
)

// AllScopes returns the scopes in resolution order.
func AllScopes() []Scope {
	return []Scope{ScopeCommon, ScopeLib, ScopeGit}
}

// IsValid returns true if the scope is recognized.
func (s Scope) IsValid() bool {
	return s == ScopeCommon || s == ScopeLib || s == ScopeGit
}

// String returns the string representation of the scope.
func (s Scope) String() string {
	return string(s)
}

// ScopedPaths holds the relative file paths of one copy category, per scope.
type ScopedPaths struct {
	Common []string
	Lib    []string
	Git    []string
}

// For returns the paths listed for scope.
func (sp ScopedPaths) For(scope Scope) []string {
	switch scope {
	case ScopeCommon:
		return sp.Common
	case ScopeLib:
		return sp.Lib
	case ScopeGit:
		return sp.Git
	default:
		return nil
	}
}

// Catalog is the static mapping from category and scope to relative file paths.
// It is read-only once loaded.
type Catalog struct {
	Mandatory ScopedPaths
	Optional  ScopedPaths
	New       ScopedPaths
	Delete    []string
}

// Copy returns the scoped paths of a copy category.
func (c Catalog) Copy(category Category) ScopedPaths {
	switch category {
	case CategoryMandatory:
		return c.Mandatory
	case CategoryOptional:
		return c.Optional
	case CategoryNew:
		return c.New
	default:
		return ScopedPaths{}
	}
}

// Len returns the total number of paths in the catalog.
func (c Catalog) Len() int {
	n := len(c.Delete)
	for _, category := range CopyCategories() {
		sp := c.Copy(category)
		n += len(sp.Common) + len(sp.Lib) + len(sp.Git)
	}
	return n
}
