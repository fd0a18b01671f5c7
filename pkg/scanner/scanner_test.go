package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644))
	}
}

func TestScanFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.svg", "a.PNG", "c.jpeg", "notes.txt", ".gitignore", ".DS_Store", "._a.svg")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested.svg"), 0o755))

	res, err := New([]string{"svg", ".png", "JPG", "jpeg"}).Scan(dir)
	require.NoError(t, err)

	assert.False(t, res.Missing)
	assert.Equal(t, []string{"a.PNG", "b.svg", "c.jpeg"}, res.Files)
	assert.Equal(t, []string{".DS_Store", "._a.svg", ".gitignore", "notes.txt"}, res.Skipped)
	assert.True(t, res.Contains("b.svg"))
	assert.False(t, res.Contains("notes.txt"))
	assert.Equal(t, []string{"b.svg"}, res.Vectors())
}

func TestScanMissingDirectory(t *testing.T) {
	res, err := New([]string{"svg"}).Scan(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.True(t, res.Missing)
	assert.Empty(t, res.Files)
}

func TestNameHelpers(t *testing.T) {
	assert.True(t, IsVector("Acme.SVG"))
	assert.False(t, IsVector("acme.png"))
	assert.Equal(t, "acme-inc", BaseName("logos/acme-inc.svg"))
	assert.Equal(t, "JPEG", FormatTag("photo.jpeg"))
}
