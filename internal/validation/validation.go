// Package validation checks a distribution setup before any file is touched.
package validation

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauern/repodist/internal/fsys"
	"github.com/klauern/repodist/internal/model"
)

// Error represents a validation failure with context.
type Error struct {
	// Field is the name of the field or component that failed validation
	Field string
	// Message describes the validation failure
	Message string
	// Err is the underlying error (if any)
	Err error
}

// Error returns a formatted validation error message.
func (ve *Error) Error() string {
	if ve.Err != nil {
		return fmt.Sprintf("validation failed for %q: %s: %v", ve.Field, ve.Message, ve.Err)
	}
	return fmt.Sprintf("validation failed for %q: %s", ve.Field, ve.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (ve *Error) Unwrap() error {
	return ve.Err
}

// Errors collects multiple validation errors.
type Errors []error

// Error returns a formatted error message for all validation failures.
func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	return fmt.Sprintf("%d validation errors:\n- %s", len(ve), errors.Join(ve...))
}

// Result contains the outcome of a validation check.
type Result struct {
	// Valid indicates whether all validations passed
	Valid bool
	// Warnings contains non-fatal validation issues
	Warnings []string
	// Errors contains validation failures that prevent the operation
	Errors []error
}

// AddError adds an error to the validation result.
func (r *Result) AddError(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// AddWarning adds a warning to the validation result.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Error returns the combined validation error.
func (r *Result) Error() error {
	if !r.HasErrors() {
		return nil
	}
	if len(r.Errors) == 1 {
		return r.Errors[0]
	}
	return Errors(r.Errors)
}

// Summary returns a human-readable summary of the validation result.
func (r *Result) Summary() string {
	if r.Valid && len(r.Warnings) == 0 {
		return "All validations passed"
	}
	var msg string
	if r.Valid {
		msg = "Validation passed with warnings"
	} else {
		msg = "Validation failed"
	}
	if len(r.Warnings) > 0 {
		msg += fmt.Sprintf(" (%d warning(s))", len(r.Warnings))
	}
	return msg
}

// Input is everything a distribution run depends on.
type Input struct {
	SourceRoot string
	Registry   model.Registry
	Catalog    model.Catalog
}

// Validate checks repos, catalog paths and the source root. The returned
// error is nil when the result is valid.
func Validate(fs fsys.FS, in Input) (*Result, error) {
	result := &Result{Valid: true}

	validateSourceRoot(fs, in.SourceRoot, result)
	validateRegistry(in.Registry, result)
	validateCatalog(in.Catalog, result)

	return result, result.Error()
}

func validateSourceRoot(fs fsys.FS, root string, result *Result) {
	if root == "" {
		result.AddError(&Error{Field: "source", Message: "source root cannot be empty"})
		return
	}
	ok, err := fs.IsDir(root)
	if err != nil {
		result.AddError(&Error{Field: "source", Message: fmt.Sprintf("cannot access %s", root), Err: err})
		return
	}
	if !ok {
		result.AddError(&Error{Field: "source", Message: fmt.Sprintf("not a directory: %s", root)})
	}
}

func validateRegistry(registry model.Registry, result *Result) {
	if len(registry) == 0 {
		result.AddWarning("No repos configured")
		return
	}

	seen := make(map[string]int)
	for i, repo := range registry {
		field := fmt.Sprintf("repos[%d].name", i)
		switch {
		case repo.Name == "":
			result.AddError(&Error{Field: field, Message: "repo name cannot be empty"})
			continue
		case strings.ContainsAny(repo.Name, `/\`) || repo.Name == "." || repo.Name == "..":
			result.AddError(&Error{Field: field, Message: fmt.Sprintf("repo name %q must be a single path element", repo.Name)})
		}

		if prev, dup := seen[repo.Name]; dup {
			result.AddError(&Error{
				Field:   field,
				Message: fmt.Sprintf("duplicate repo name %q (also repos[%d])", repo.Name, prev),
			})
			continue
		}
		seen[repo.Name] = i

		if !repo.CopyEnabled && !repo.DeleteEnabled {
			result.AddWarning(fmt.Sprintf("repo %q has copy and delete disabled", repo.Name))
		}
	}
}

func validateCatalog(catalog model.Catalog, result *Result) {
	if catalog.Len() == 0 {
		result.AddWarning("No catalog entries configured")
		return
	}

	owner := make(map[string]string)
	check := func(field, p string) {
		if err := CheckRelPath(p); err != nil {
			result.AddError(&Error{Field: field, Message: err.Error()})
			return
		}
		key := path.Clean(filepath.ToSlash(p))
		if prev, dup := owner[key]; dup {
			result.AddError(&Error{
				Field:   field,
				Message: fmt.Sprintf("path %q is already listed under %s", p, prev),
			})
			return
		}
		owner[key] = field
	}

	for _, cat := range model.CopyCategories() {
		paths := catalog.Copy(cat)
		for _, scope := range model.AllScopes() {
			for i, p := range paths.For(scope) {
				check(fmt.Sprintf("actions.copy.%s.%s[%d]", cat, scope, i), p)
			}
		}
	}
	for i, p := range catalog.Delete {
		check(fmt.Sprintf("actions.delete[%d]", i), p)
	}
}

// CheckRelPath reports whether p is a usable catalog path: non-empty,
// relative, and not escaping the root it is joined to.
func CheckRelPath(p string) error {
	if strings.TrimSpace(p) == "" {
		return errors.New("path cannot be empty")
	}
	slashed := filepath.ToSlash(p)
	if path.IsAbs(slashed) || filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return fmt.Errorf("path %q must be relative", p)
	}
	clean := path.Clean(slashed)
	if clean == "." {
		return fmt.Errorf("path %q refers to the root itself", p)
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("path %q escapes the root", p)
	}
	return nil
}
