package svgmarkup

import (
	"errors"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const acmeSource = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">
<!-- exported by hand -->
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="120px" height="60">
  <!-- shapes -->
  <defs><linearGradient id="g"><stop offset="0"/></linearGradient></defs>
  <path id="a" fill="#000" d="M0 0h10v10z"/>
  <rect id="logo-body" fill="url(#g)" width="5" height="5"/>
  <use xlink:href="#a"/>
  <use href="#a"/>
  <style>.x { fill: url('#g'); }</style>
</svg>
`

func parseOut(t *testing.T, data []byte) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func TestNormalize(t *testing.T) {
	out, changed, err := Normalize([]byte(acmeSource), "acme-inc")
	require.NoError(t, err)
	assert.True(t, changed)

	s := string(out)
	assert.NotContains(t, s, "<?xml")
	assert.NotContains(t, s, "DOCTYPE")
	assert.NotContains(t, s, "<!--")

	root := parseOut(t, out)
	assert.Equal(t, "0 0 120 60", root.SelectAttrValue("viewBox", ""))
	assert.Equal(t, "100%", root.SelectAttrValue("width", ""))
	assert.Equal(t, "100%", root.SelectAttrValue("height", ""))

	assert.NotNil(t, root.FindElement(`//path[@id='acme-inc_a']`))
	assert.NotNil(t, root.FindElement(`//linearGradient[@id='acme-inc_g']`))
	assert.NotNil(t, root.FindElement(`//rect[@id='logo-body']`), "multi-character ids are untouched")
	assert.Equal(t, "url(#acme-inc_g)", root.FindElement(`//rect`).SelectAttrValue("fill", ""))

	uses := root.FindElements(`//use`)
	require.Len(t, uses, 2)
	assert.Equal(t, "#acme-inc_a", uses[0].SelectAttrValue("xlink:href", ""))
	assert.Equal(t, "#acme-inc_a", uses[1].SelectAttrValue("href", ""))

	assert.Contains(t, root.FindElement(`//style`).Text(), "url('#acme-inc_g')")
}

func TestNormalize_Idempotent(t *testing.T) {
	once, _, err := Normalize([]byte(acmeSource), "acme-inc")
	require.NoError(t, err)

	twice, changed, err := Normalize(once, "acme-inc")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, string(once), string(twice))
}

func TestNormalize_KeepsExistingViewBox(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 20" width="300" height="600"><g id="b"/></svg>`
	out, _, err := Normalize([]byte(in), "flag")
	require.NoError(t, err)

	root := parseOut(t, out)
	assert.Equal(t, "0 0 10 20", root.SelectAttrValue("viewBox", ""))
	assert.Equal(t, "100%", root.SelectAttrValue("width", ""))
	assert.NotNil(t, root.FindElement(`//g[@id='flag_b']`))
}

func TestNormalize_Errors(t *testing.T) {
	_, _, err := Normalize([]byte(`<html><body/></html>`), "x")
	assert.True(t, errors.Is(err, ErrNoRoot))

	_, _, err = Normalize([]byte(`just text`), "x")
	assert.Error(t, err)

	_, _, err = Normalize([]byte(`<svg xmlns="http://www.w3.org/2000/svg"><path/></svg>`), "x")
	assert.True(t, errors.Is(err, ErrNoSizing))

	_, _, err = Normalize([]byte(`<svg width="1" height="1"><path d="M0></svg>`), "x")
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestNormalize_DistinctAssetsDoNotShareIDs(t *testing.T) {
	src := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1 1"><path id="a"/></svg>`
	one, _, err := Normalize([]byte(src), "one")
	require.NoError(t, err)
	two, _, err := Normalize([]byte(src), "two")
	require.NoError(t, err)

	idOne := parseOut(t, one).FindElement(`//path`).SelectAttrValue("id", "")
	idTwo := parseOut(t, two).FindElement(`//path`).SelectAttrValue("id", "")
	assert.Equal(t, "one_a", idOne)
	assert.Equal(t, "two_a", idTwo)
}

func TestParseLength(t *testing.T) {
	v, ok := parseLength("64px")
	assert.True(t, ok)
	assert.Equal(t, 64.0, v)

	v, ok = parseLength(" 12.5 ")
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	_, ok = parseLength("50%")
	assert.False(t, ok)
	_, ok = parseLength("auto")
	assert.False(t, ok)
	_, ok = parseLength("0")
	assert.False(t, ok)
}

func TestVariantName(t *testing.T) {
	assert.Equal(t, "acme-inc__set_1.svg", VariantName("acme-inc.svg", "set_1"))
	assert.Equal(t, "flag__dark", VariantName("flag", "dark"))
}

func TestNormalize_PartialSizing(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		width  string
		height string
	}{
		{
			name:  "width only",
			in:    `<svg xmlns="http://www.w3.org/2000/svg" width="40"><path id="a" fill="#000"/></svg>`,
			width: "100%",
		},
		{
			name:   "relative sizes",
			in:     `<svg xmlns="http://www.w3.org/2000/svg" width="100%" height="100%"><path id="a" fill="#000"/></svg>`,
			width:  "100%",
			height: "100%",
		},
		{
			name: "viewBox only",
			in:   `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 4 4"><path id="a" fill="#000"/></svg>`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := Normalize([]byte(tc.in), "acme")
			require.NoError(t, err)

			root := parseOut(t, out)
			assert.NotNil(t, root.FindElement(`//path[@id='acme_a']`))
			assert.Equal(t, tc.width, root.SelectAttrValue("width", ""))
			assert.Equal(t, tc.height, root.SelectAttrValue("height", ""))

			again, changed, err := Normalize(out, "acme")
			require.NoError(t, err)
			assert.False(t, changed)
			assert.Equal(t, string(out), string(again))
		})
	}
}

func TestNormalize_WidthOnlyHasNoDerivedViewBox(t *testing.T) {
	out, _, err := Normalize([]byte(`<svg width="40"><path id="b"/></svg>`), "flag")
	require.NoError(t, err)
	root := parseOut(t, out)
	assert.Nil(t, root.SelectAttr("viewBox"))
	assert.Nil(t, root.SelectAttr("height"), "undeclared sizes are not added")
}
