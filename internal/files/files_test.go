package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindWorkbooks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "A.XLSX", "~$b.xlsx", "data.csv", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	found, err := FindWorkbooks(dir)
	require.NoError(t, err)
	require.Len(t, found, 2)

	assert.Equal(t, "A.XLSX", found[0].Name)
	assert.Equal(t, "b.xlsx", found[1].Name)
	assert.Equal(t, filepath.Join(dir, "b.xlsx"), found[1].Path)
	assert.Equal(t, int64(1), found[0].Size)
}

func TestFindWorkbooksMissingDir(t *testing.T) {
	_, err := FindWorkbooks(filepath.Join(t.TempDir(), "gone"))
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	files := []FileInfo{{Path: "/a/x.xlsx"}, {Path: "/a/y.xlsx"}}
	assert.Equal(t, []string{"/a/x.xlsx", "/a/y.xlsx"}, Paths(files))
}

func TestWriteAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "deck.pptx")
	w := NewWriter(nil)

	require.NoError(t, w.WriteAtomic(path, []byte("content")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	// no stray temp files
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteAtomicOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	w := NewWriter(nil)

	require.NoError(t, w.WriteAtomic(path, []byte("first")))
	require.NoError(t, w.WriteAtomic(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}
