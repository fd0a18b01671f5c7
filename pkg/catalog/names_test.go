package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"acme-inc.svg":      "Acme Inc",
		"acme-inc_labs.svg": "Acme Inc Labs",
		"zeta.png":          "Zeta",
		"ALPHA_beta.jpg":    "Alpha Beta",
	}
	for in, want := range cases {
		assert.Equal(t, want, DisplayName(in), in)
	}
}

func TestNameOrder_IgnoresCase(t *testing.T) {
	o := newNameOrder()
	assert.True(t, o.Less("alpha", "Beta"))
	assert.True(t, o.Less("Alpha", "beta"))
	assert.False(t, o.Less("Beta", "beta"))
	assert.False(t, o.Less("Charlie", "Beta"))
}
