package fsys

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileCreatesParents(t *testing.T) {
	for name, f := range map[string]*Afero{"memory": Memory(), "os": OS()} {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			path := filepath.Join(root, "a", "b", "c.txt")

			require.NoError(t, f.WriteFile(path, []byte("hello")))

			ok, err := f.Exists(path)
			require.NoError(t, err)
			assert.True(t, ok)

			data, err := f.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "hello", string(data))

			ok, err = f.IsDir(filepath.Join(root, "a", "b"))
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestWriteFileReplaces(t *testing.T) {
	f := Memory()
	require.NoError(t, f.WriteFile("/x/file", []byte("one")))
	require.NoError(t, f.WriteFile("/x/file", []byte("two")))

	data, err := f.ReadFile("/x/file")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestModTime(t *testing.T) {
	f := Memory()

	_, ok, err := f.ModTime("/missing")
	require.NoError(t, err)
	assert.False(t, ok, "missing file reports absent")

	require.NoError(t, f.WriteFile("/file", []byte("x")))
	want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, f.SetModTime("/file", want))

	got, ok, err := f.ModTime("/file")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, got.Equal(want), "got %v want %v", got, want)
}

func TestRemoveMissingIsNotAnError(t *testing.T) {
	f := Memory()
	assert.NoError(t, f.Remove("/nothing/here"))

	require.NoError(t, f.WriteFile("/here", []byte("x")))
	require.NoError(t, f.Remove("/here"))
	ok, err := f.Exists("/here")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExistsIsFalseForDirectory(t *testing.T) {
	f := Memory()
	require.NoError(t, f.MkdirAll("/dir"))

	ok, err := f.Exists("/dir")
	require.NoError(t, err)
	assert.False(t, ok)
}
