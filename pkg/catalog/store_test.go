package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Absent(t *testing.T) {
	records, status, err := Load(filepath.Join(t.TempDir(), "data", "logos.json"))
	require.NoError(t, err)
	assert.Equal(t, Absent, status)
	assert.Empty(t, records)
}

func TestLoad_CorruptStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logos.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "broken"`), 0o644))

	records, status, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Corrupt, status)
	assert.Empty(t, records)
}

func TestLoad_NullEntryIsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logos.json")
	require.NoError(t, os.WriteFile(path, []byte(`[null]`), 0o644))

	_, status, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Corrupt, status)
}

func TestEncode_EmptyCatalog(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestSave_ReportsChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "logos.json")
	records := []*AssetRecord{NewRecord("acme.svg")}

	changed, err := Save(path, records)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = Save(path, records)
	require.NoError(t, err)
	assert.False(t, changed)

	loaded, status, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Loaded, status)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Acme", loaded[0].Name)
	assert.Equal(t, []string{}, loaded[0].Tags)
}

func TestLoadStatus_String(t *testing.T) {
	assert.Equal(t, "loaded", Loaded.String())
	assert.Equal(t, "absent", Absent.String())
	assert.Equal(t, "corrupt", Corrupt.String())
	assert.Equal(t, "unknown", LoadStatus(42).String())
}
