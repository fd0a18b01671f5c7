package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legacyRecord(colorConfig string, colors ...string) *AssetRecord {
	r := NewRecord("acme.svg")
	r.ColorConfig = json.RawMessage(colorConfig)
	if len(colors) > 0 {
		r.Colors = NewColors()
		for i := 0; i+1 < len(colors); i += 2 {
			r.Colors.Set(colors[i], Color(colors[i+1]))
		}
	}
	return r
}

func mapOf(m *ColorSet) map[string]string {
	out := map[string]string{}
	for p := m.Oldest(); p != nil; p = p.Next() {
		out[p.Key] = p.Value
	}
	return out
}

func TestMigrate_SingleTarget(t *testing.T) {
	r := legacyRecord(`{"target":"#a"}`, "brand_blue", "#0000FF", "red", "#f00")
	require.True(t, Migrate(r))

	assert.Equal(t, map[string]string{"main": "#a"}, mapOf(r.Targets))
	assert.Equal(t, []string{"set_1", "set_2"}, r.SetNames())
	s1, _ := r.Sets.Get("set_1")
	s2, _ := r.Sets.Get("set_2")
	assert.Equal(t, map[string]string{"main": "brand_blue"}, mapOf(s1))
	assert.Equal(t, map[string]string{"main": "red"}, mapOf(s2))
	assert.JSONEq(t, `{"target":"#a"}`, string(r.ColorConfig))
}

func TestMigrate_SelectorList(t *testing.T) {
	r := legacyRecord(`{"selector":"#a, #b,, path"}`, "ink", "#111")
	require.True(t, Migrate(r))

	var keys []string
	for p := r.Targets.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key+"="+p.Value)
	}
	assert.Equal(t, []string{"selector_1=#a", "selector_2=#b", "selector_3=path"}, keys)

	s1, _ := r.Sets.Get("set_1")
	assert.Equal(t, map[string]string{"selector_1": "ink", "selector_2": "ink", "selector_3": "ink"}, mapOf(s1))
}

func TestMigrate_Idempotent(t *testing.T) {
	r := legacyRecord(`{"target":"#a"}`, "brand_blue", "#0000FF")
	require.True(t, Migrate(r))
	first, err := marshalNoEscape(r)
	require.NoError(t, err)

	assert.False(t, Migrate(r))
	second, err := marshalNoEscape(r)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestMigrate_Guards(t *testing.T) {
	assert.False(t, Migrate(legacyRecord(`{"target":"#a"}`)), "no colors")
	assert.False(t, Migrate(legacyRecord(`{}`, "a", "#000")), "no colorConfig")
	assert.False(t, Migrate(legacyRecord(`{"selector":" , "}`, "a", "#000")), "empty targets")

	png := legacyRecord(`{"target":"#a"}`, "a", "#000")
	png.Format = "png"
	assert.False(t, Migrate(png), "raster records are not migrated")
}

func TestMigrate_KeepsExistingTargets(t *testing.T) {
	r := legacyRecord(`{"target":"#a"}`, "a", "#000")
	r.Targets = NewTargets()
	r.Targets.Set("outline", "#o")
	require.True(t, Migrate(r))

	assert.Equal(t, map[string]string{"outline": "#o"}, mapOf(r.Targets))
	s1, _ := r.Sets.Get("set_1")
	assert.Equal(t, map[string]string{"outline": "a"}, mapOf(s1))
}
