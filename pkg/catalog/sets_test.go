package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRecord() *AssetRecord {
	r := NewRecord("acme.svg")
	r.Colors = NewColors()
	r.Colors.Set("blue", Color("#00f"))
	r.Colors.Set("night", ColorValue{Value: "#111", Theme: "dark"})
	r.Targets = NewTargets()
	r.Targets.Set("main", "#a")
	r.Targets.Set("ring", "#b")
	r.Sets = NewSets()

	good := NewColorSet()
	good.Set("main", "blue")
	good.Set("ring", "night")
	r.Sets.Set("good", good)

	bad := NewColorSet()
	bad.Set("main", "missing")
	bad.Set("ghost", "blue")
	r.Sets.Set("bad", bad)
	return r
}

func TestResolveSet(t *testing.T) {
	r := setRecord()

	resolved, problems := r.ResolveSet("good")
	assert.Empty(t, problems)
	assert.Equal(t, map[string]string{"main": "#00f", "ring": "#111"}, resolved)

	resolved, problems = r.ResolveSet("bad")
	assert.Empty(t, resolved)
	require.Len(t, problems, 2)
	assert.Equal(t, "unknown color", problems[0].Reason)
	assert.Equal(t, "unknown target", problems[1].Reason)

	resolved, problems = r.ResolveSet("absent")
	assert.Nil(t, resolved)
	assert.Nil(t, problems)
}

func TestValidateSets(t *testing.T) {
	problems := setRecord().ValidateSets()
	require.Len(t, problems, 2)
	assert.Equal(t, "bad", problems[0].Set)
	assert.Contains(t, problems[0].String(), `set "bad" target "main"`)
}

func TestValidateCatalog_FlagsDuplicatePaths(t *testing.T) {
	problems := ValidateCatalog([]*AssetRecord{NewRecord("a.svg"), NewRecord("a.svg"), NewRecord("b.svg")})
	require.Len(t, problems, 1)
	assert.Equal(t, "a.svg", problems[0].Record)
	assert.Equal(t, "path appears 2 times", problems[0].Reason)
}
