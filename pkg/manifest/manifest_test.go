package manifest

import (
	"encoding/json"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, fs billy.Filesystem, files ...string) {
	t.Helper()
	for _, f := range files {
		require.NoError(t, util.WriteFile(fs, f, []byte("x"), 0o644))
	}
}

func TestCollect(t *testing.T) {
	fs := memfs.New()
	writeFiles(t, fs,
		"index.html",
		"sw.js",
		"CNAME",
		"pwa-files-to-cache.json",
		".DS_Store",
		"images/logos/acme.svg",
		"images/logos/.DS_Store",
		"images/logos_variants/.gitignore",
		"images/logos_variants/acme__set_1.svg",
		"data/logos.json",
	)

	b, err := New(fs, Options{})
	require.NoError(t, err)
	got, err := b.Collect()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/data/logos.json",
		"/images/logos/acme.svg",
		"/images/logos_variants/acme__set_1.svg",
		"/index.html",
	}, got)
}

func TestCollect_IgnoreFileAndExtraSources(t *testing.T) {
	public := memfs.New()
	writeFiles(t, public, "index.html", "drafts/wip.svg", "app.js.map", ".brandkitignore")
	require.NoError(t, util.WriteFile(public, ".brandkitignore", []byte("drafts/\n*.map\n.brandkitignore\n"), 0o644))

	extra := memfs.New()
	writeFiles(t, extra, "a.png", "nested/b.png")

	b, err := New(public, Options{IgnoreFile: ".brandkitignore", Extra: []Source{{FS: extra, URLPrefix: "/logos_gen/"}}})
	require.NoError(t, err)
	got, err := b.Collect()
	require.NoError(t, err)

	assert.Equal(t, []string{"/index.html", "/logos_gen/a.png", "/logos_gen/nested/b.png"}, got)
}

func TestCollect_DeduplicatesAcrossSources(t *testing.T) {
	public := memfs.New()
	writeFiles(t, public, "logos/a.svg")
	extra := memfs.New()
	writeFiles(t, extra, "a.svg")

	b, err := New(public, Options{Extra: []Source{{FS: extra, URLPrefix: "logos"}}})
	require.NoError(t, err)
	got, err := b.Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"/logos/a.svg"}, got)
}

func TestBuild_WritesOnlyOnChange(t *testing.T) {
	fs := memfs.New()
	writeFiles(t, fs, "index.html", "images/a.svg")

	b, err := New(fs, Options{})
	require.NoError(t, err)

	res, err := b.Build(false)
	require.NoError(t, err)
	assert.True(t, res.Changed)

	data, err := util.ReadFile(fs, DefaultFile)
	require.NoError(t, err)
	var entries []string
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Equal(t, []string{"/images/a.svg", "/index.html"}, entries)

	res, err = b.Build(false)
	require.NoError(t, err)
	assert.False(t, res.Changed, "manifest excludes itself so a rebuild is stable")
}

func TestBuild_NoOp(t *testing.T) {
	fs := memfs.New()
	writeFiles(t, fs, "index.html")

	b, err := New(fs, Options{})
	require.NoError(t, err)
	res, err := b.Build(true)
	require.NoError(t, err)
	assert.True(t, res.Changed)

	_, err = fs.Stat(DefaultFile)
	assert.Error(t, err)
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New(memfs.New(), Options{Exclude: []string{"[unclosed"}})
	assert.Error(t, err)
}

func TestEncode_Empty(t *testing.T) {
	data, err := Encode([]string{})
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestCollect_HousekeepingExcludedAtAnyDepth(t *testing.T) {
	fs := memfs.New()
	writeFiles(t, fs,
		"index.html",
		"docs/CNAME",
		"docs/sw.js",
		"docs/pwa-files-to-cache.json",
		"docs/guide.html",
		"js/app.js",
	)

	b, err := New(fs, Options{})
	require.NoError(t, err)
	got, err := b.Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"/docs/guide.html", "/index.html", "/js/app.js"}, got)
}
