package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "file.md")

	written, err := WriteIfChanged(path, []byte("one\n"))
	require.NoError(t, err)
	require.True(t, written)

	written, err = WriteIfChanged(path, []byte("one\n"))
	require.NoError(t, err)
	require.False(t, written)

	written, err = WriteIfChanged(path, []byte("two\n"))
	require.NoError(t, err)
	require.True(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "two\n", string(data))
}

func TestWriteIfMissingKeepsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.md")
	require.NoError(t, os.WriteFile(path, []byte("mine\n"), 0644))

	created, err := WriteIfMissing(path, []byte("template\n"))
	require.NoError(t, err)
	require.False(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "mine\n", string(data))
}

func TestAtomicWriteFileLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spec.md")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0644))

	require.NoError(t, AtomicWriteFile(path, []byte("new\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "new\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestWriteJSONIndents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"a": 1}))
	require.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestSortedUnique(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, SortedUnique([]string{"c", "a", "b", "a"}))
	require.Equal(t, []string{"x", "y"}, DedupeStrings([]string{"x", "y", "x"}))
	require.Equal(t, "a\n", EnsureTrailingNewline("a"))
}
