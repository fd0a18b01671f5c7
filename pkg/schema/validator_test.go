package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCatalog_Valid(t *testing.T) {
	doc := []byte(`[
  {"name": "Acme Inc", "path": "acme-inc.svg", "format": "svg", "disable": false,
   "colors": {"brand_blue": "#0000FF", "night": {"theme": "dark", "value": "#111"}},
   "targets": {"main": "#a"},
   "sets": {"set_1": {"main": "brand_blue"}}}
]`)
	res, err := ValidateCatalog(doc)
	require.NoError(t, err)
	assert.True(t, res.Valid, "%v", res.Errors)
}

func TestValidateCatalog_Invalid(t *testing.T) {
	doc := []byte(`[{"name": "", "path": "images/a.svg", "disable": "no"}]`)
	res, err := ValidateCatalog(doc)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Errors)
}

func TestValidateCatalog_NotAnArray(t *testing.T) {
	res, err := ValidateCatalog([]byte(`{"name": "x"}`))
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "root", res.Errors[0].Path)
}

func TestValidateConfig(t *testing.T) {
	res, err := ValidateConfig(map[string]interface{}{
		"public_dir": "public",
		"raster":     map[string]interface{}{"width": 0},
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)

	res, err = ValidateConfig(map[string]interface{}{"public_dir": "public", "workers": 4})
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestEmbedded_Unknown(t *testing.T) {
	_, err := Embedded("nope.json")
	assert.Error(t, err)
}
