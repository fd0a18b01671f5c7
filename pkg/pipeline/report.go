package pipeline

import (
	"github.com/fulmenhq/brandkit/pkg/catalog"
	"github.com/fulmenhq/brandkit/pkg/manifest"
)

// CollectionReport records what one collection run did.
type CollectionReport struct {
	Name  string `json:"name"`
	Label string `json:"label"`

	Files           int `json:"files"`
	Normalized      int `json:"normalized"`
	NormalizeFailed int `json:"normalizeFailed"`

	CatalogStatus  string                 `json:"catalogStatus,omitempty"`
	Stats          catalog.ReconcileStats `json:"stats"`
	CatalogChanged bool                   `json:"catalogChanged"`

	Cleaned         int      `json:"cleaned"`
	Variants        int      `json:"variants"`
	VariantsSkipped int      `json:"variantsSkipped"`
	VariantFiles    []string `json:"variantFiles,omitempty"`

	Rasters      int `json:"rasters"`
	RasterFailed int `json:"rasterFailed"`

	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Failed reports whether the collection ended with a fatal error.
func (c *CollectionReport) Failed() bool { return c.Error != "" }

func (c *CollectionReport) warn(msg string) {
	c.Warnings = append(c.Warnings, msg)
}

// RunReport aggregates a pipeline invocation.
type RunReport struct {
	PublicDir   string              `json:"publicDir"`
	NoOp        bool                `json:"noOp"`
	Collections []*CollectionReport `json:"collections"`
	Manifest    *manifest.Result    `json:"manifest,omitempty"`
}

// Failed returns the collections that ended with a fatal error.
func (r *RunReport) Failed() []*CollectionReport {
	var out []*CollectionReport
	for _, c := range r.Collections {
		if c.Failed() {
			out = append(out, c)
		}
	}
	return out
}
