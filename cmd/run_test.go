package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/brandkit/pkg/config"
	"github.com/fulmenhq/brandkit/pkg/exitcode"
	"github.com/fulmenhq/brandkit/pkg/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SingleCollection(t *testing.T) {
	public := seedPublic(t)
	reportPath := filepath.Join(t.TempDir(), "run.md")

	out, err := execRoot(t, []string{"run", "--public-dir", public, "-c", "logos", "--skip-raster", "--report", reportPath})
	require.NoError(t, err, out)
	assert.Contains(t, out, "Logos")
	assert.Contains(t, out, "Manifest:")

	assert.FileExists(t, filepath.Join(public, "images/logos_variants/acme-inc__set_1.svg"))
	assert.NoFileExists(t, filepath.Join(public, "images/logos_variants/acme-inc.png"))
	assert.FileExists(t, filepath.Join(public, "pwa-files-to-cache.json"))

	md, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "Logos")
}

func TestRun_JSONReport(t *testing.T) {
	public := seedPublic(t)

	out, err := execRoot(t, []string{"run", "--public-dir", public, "-c", "logos", "--skip-raster", "--skip-manifest", "--json"})
	require.NoError(t, err, out)

	var rep pipeline.RunReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep), out)
	require.Len(t, rep.Collections, 1)
	assert.Equal(t, "logos", rep.Collections[0].Name)
	assert.Equal(t, 1, rep.Collections[0].Variants)
	assert.Nil(t, rep.Manifest)
	assert.NoFileExists(t, filepath.Join(public, "pwa-files-to-cache.json"))
}

func TestRun_AllReportsPartialFailure(t *testing.T) {
	public := seedPublic(t)

	_, err := execRoot(t, []string{"run", "--public-dir", public, "-c", config.AllCollections, "--skip-raster"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errPartialFailure))
	assert.Equal(t, exitcode.PartialFailure, exitCodeFor(err))
	// logos still processed and the manifest written
	assert.FileExists(t, filepath.Join(public, "images/logos_variants/acme-inc__set_1.svg"))
	assert.FileExists(t, filepath.Join(public, "pwa-files-to-cache.json"))
}

func TestRun_MissingSourceDir(t *testing.T) {
	public := seedPublic(t)

	_, err := execRoot(t, []string{"run", "--public-dir", public, "-c", "flags"})
	require.Error(t, err)
	assert.Equal(t, exitcode.FileSystemError, exitCodeFor(err))
}

func TestRun_UnknownCollection(t *testing.T) {
	public := seedPublic(t)

	_, err := execRoot(t, []string{"run", "--public-dir", public, "-c", "stickers"})
	require.Error(t, err)
	assert.Equal(t, exitcode.UsageError, exitCodeFor(err))
}

func TestRun_InvalidConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "brandkit.yaml")
	writeFile(t, cfgPath, "workers: -3\n")

	_, err := execRoot(t, []string{"run", "--config", cfgPath})
	require.Error(t, err)
	assert.Equal(t, exitcode.ConfigError, exitCodeFor(err))
}

func TestSync_NoOpWritesNothing(t *testing.T) {
	public := seedPublic(t)
	catalogPath := filepath.Join(public, "data/logos.json")
	before, err := os.ReadFile(catalogPath)
	require.NoError(t, err)

	out, err := execRoot(t, []string{"sync", "--public-dir", public, "-c", "logos", "--no-op", "--json"})
	require.NoError(t, err, out)

	var rep pipeline.RunReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep), out)
	assert.True(t, rep.NoOp)
	assert.True(t, rep.Collections[0].CatalogChanged)

	after, err := os.ReadFile(catalogPath)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestSync_ThenVariants(t *testing.T) {
	public := seedPublic(t)

	_, err := execRoot(t, []string{"sync", "--public-dir", public, "-c", "logos", "--normalize"})
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(public, "images/logos_variants/acme-inc__set_1.svg"))

	_, err = execRoot(t, []string{"variants", "--public-dir", public, "-c", "logos", "--skip-raster"})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(public, "images/logos_variants/acme-inc__set_1.svg"))
	assert.FileExists(t, filepath.Join(public, "images/logos_variants/.gitignore"))
}

func TestNormalize(t *testing.T) {
	public := seedPublic(t)

	_, err := execRoot(t, []string{"normalize", "--public-dir", public, "-c", "logos"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(public, "images/logos/acme-inc.svg"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "<?xml")
	assert.Contains(t, string(data), `viewBox="0 0 100 50"`)
	assert.Contains(t, string(data), `id="acme-inc_a"`)
}
