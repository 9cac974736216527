package model

import "testing"

func TestParseCategory(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    Category
		wantErr bool
	}{
		"mandatory":  {input: "mandatory", want: CategoryMandatory},
		"upper case": {input: "OPTIONAL", want: CategoryOptional},
		"whitespace": {input: "  new ", want: CategoryNew},
		"delete":     {input: "delete", want: CategoryDelete},
		"unknown":    {input: "sometimes", wantErr: true},
		"empty":      {input: "", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCategoryIsCopy(t *testing.T) {
	for _, c := range CopyCategories() {
		if !c.IsCopy() {
			t.Errorf("%q.IsCopy() = false", c)
		}
	}
	if CategoryDelete.IsCopy() {
		t.Error("delete.IsCopy() = true")
	}
}

func TestCatalogLen(t *testing.T) {
	cat := Catalog{
		Mandatory: ScopedPaths{Common: []string{"a", "b"}, Lib: []string{"c"}},
		Optional:  ScopedPaths{Git: []string{"d"}},
		New:       ScopedPaths{Common: []string{"e"}},
		Delete:    []string{"f", "g"},
	}

	if got := cat.Len(); got != 7 {
		t.Errorf("Len() = %d, want 7", got)
	}
	if got := cat.Copy(CategoryDelete); len(got.Common) != 0 {
		t.Errorf("Copy(delete) = %v, want empty", got)
	}
	if got := cat.Copy(CategoryOptional).For(ScopeGit); len(got) != 1 || got[0] != "d" {
		t.Errorf("Optional git = %v", got)
	}
}
