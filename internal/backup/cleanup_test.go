package backup

import (
	"slices"
	"testing"
	"time"
)

func TestCleanup(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// Four backups of beta/a.txt, 1, 10, 40 and 50 days old, and one old
	// backup of alpha/b.txt.
	seed := func(t *testing.T) (*Store, map[string]string) {
		t.Helper()
		s := openTestStore(t)
		ids := make(map[string]string)
		add := func(label, repo, path string, age time.Duration) {
			at := now.Add(-age)
			s.now = func() time.Time { return at }
			md, err := s.Create(repo, path, []byte(label), at)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			ids[label] = md.ID
		}
		day := 24 * time.Hour
		add("a1", "beta", "a.txt", 1*day)
		add("a10", "beta", "a.txt", 10*day)
		add("a40", "beta", "a.txt", 40*day)
		add("a50", "beta", "a.txt", 50*day)
		add("b60", "alpha", "b.txt", 60*day)
		s.now = func() time.Time { return now }
		return s, ids
	}

	tests := map[string]struct {
		opts CleanupOptions
		want []string
	}{
		"max age keeps newest": {
			opts: CleanupOptions{MaxAge: 30 * 24 * time.Hour, KeepAtLeastOne: true},
			want: []string{"a40", "a50"},
		},
		"max age without keep": {
			opts: CleanupOptions{MaxAge: 30 * 24 * time.Hour},
			want: []string{"a40", "a50", "b60"},
		},
		"max backups per file": {
			opts: CleanupOptions{MaxBackups: 2, KeepAtLeastOne: true},
			want: []string{"a40", "a50"},
		},
		"repo filter": {
			opts: CleanupOptions{MaxAge: 30 * 24 * time.Hour, Repo: "alpha"},
			want: []string{"b60"},
		},
		"unlimited": {
			opts: CleanupOptions{KeepAtLeastOne: true},
			want: nil,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, ids := seed(t)
			var want []string
			for _, label := range tt.want {
				want = append(want, ids[label])
			}

			deleted, err := s.Cleanup(tt.opts)
			if err != nil {
				t.Fatalf("Cleanup() error = %v", err)
			}
			slices.Sort(deleted)
			slices.Sort(want)
			if !slices.Equal(deleted, want) {
				t.Errorf("Cleanup() deleted %v, want %v", deleted, want)
			}

			remaining, err := s.List("")
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(remaining) != 5-len(want) {
				t.Errorf("%d backups remain, want %d", len(remaining), 5-len(want))
			}
		})
	}
}

func TestCleanupDryRun(t *testing.T) {
	s := openTestStore(t)
	old := time.Now().Add(-90 * 24 * time.Hour)
	s.now = func() time.Time { return old }
	if _, err := s.Create("beta", "a.txt", []byte("x"), old); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	s.now = time.Now

	deleted, err := s.Cleanup(CleanupOptions{MaxAge: time.Hour, DryRun: true})
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if len(deleted) != 1 {
		t.Fatalf("Cleanup() reported %d, want 1", len(deleted))
	}

	remaining, err := s.List("")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("dry run removed backups: %d remain", len(remaining))
	}
}

func TestDefaultCleanupOptions(t *testing.T) {
	opts := DefaultCleanupOptions()
	if opts.MaxBackups != 10 || opts.MaxAge != 30*24*time.Hour || !opts.KeepAtLeastOne {
		t.Errorf("DefaultCleanupOptions() = %+v", opts)
	}
}
