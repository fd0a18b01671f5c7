package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/brandkit/pkg/catalog"
	"github.com/fulmenhq/brandkit/pkg/config"
	"github.com/fulmenhq/brandkit/pkg/schema"
)

// ValidationReport lists the problems found in one collection's catalog.
type ValidationReport struct {
	Collection   string                   `json:"collection"`
	File         string                   `json:"file"`
	Absent       bool                     `json:"absent,omitempty"`
	SchemaErrors []schema.ValidationError `json:"schemaErrors,omitempty"`
	SetProblems  []catalog.SetProblem     `json:"setProblems,omitempty"`
	MissingFiles []string                 `json:"missingFiles,omitempty"`
}

// Valid reports whether no problem was found.
func (v *ValidationReport) Valid() bool {
	return len(v.SchemaErrors) == 0 && len(v.SetProblems) == 0 && len(v.MissingFiles) == 0
}

// Validate checks the catalogs of the selected collections without
// modifying anything: schema conformance, set consistency, and enabled
// entries whose file is gone.
func (r *Runner) Validate(selector string) ([]*ValidationReport, error) {
	collections, err := r.registry.Resolve(selector)
	if err != nil {
		return nil, err
	}
	out := make([]*ValidationReport, 0, len(collections))
	for _, c := range collections {
		rep, err := r.validateCollection(c)
		if err != nil {
			return out, fmt.Errorf("collection %s: %w", c.Name, err)
		}
		out = append(out, rep)
	}
	return out, nil
}

func (r *Runner) validateCollection(c config.CollectionConfig) (*ValidationReport, error) {
	path := r.cfg.Path(c.MetadataFile)
	rep := &ValidationReport{Collection: c.Name, File: c.MetadataFile}

	data, err := os.ReadFile(path) // #nosec G304 -- registry path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			rep.Absent = true
			return rep, nil
		}
		return nil, err
	}

	res, err := schema.ValidateCatalog(data)
	if err != nil {
		rep.SchemaErrors = []schema.ValidationError{{Path: "root", Message: err.Error()}}
		return rep, nil
	}
	rep.SchemaErrors = res.Errors

	records, err := catalog.Decode(data)
	if err != nil {
		if len(rep.SchemaErrors) == 0 {
			rep.SchemaErrors = []schema.ValidationError{{Path: "root", Message: err.Error()}}
		}
		return rep, nil
	}
	rep.SetProblems = catalog.ValidateCatalog(records)

	sourceDir := r.cfg.Path(c.SourceDir)
	for _, rec := range records {
		if rec.Disable {
			continue
		}
		if _, err := os.Stat(filepath.Join(sourceDir, filepath.Base(rec.Path))); err != nil {
			rep.MissingFiles = append(rep.MissingFiles, rec.Path)
		}
	}
	return rep, nil
}
