package report

import (
	"fmt"
	"sync"

	"github.com/aymerick/raymond"
	"github.com/fulmenhq/brandkit/internal/assets"
	"github.com/fulmenhq/brandkit/pkg/pipeline"
)

var (
	tplOnce sync.Once
	tpl     *raymond.Template
	tplErr  error
)

func reportTemplate() (*raymond.Template, error) {
	tplOnce.Do(func() {
		src, ok := assets.GetTemplate(assets.ReportTemplate)
		if !ok {
			tplErr = fmt.Errorf("embedded template %s missing", assets.ReportTemplate)
			return
		}
		tpl, tplErr = raymond.Parse(string(src))
	})
	return tpl, tplErr
}

// Markdown renders the run report as markdown.
func Markdown(r *pipeline.RunReport, version string) (string, error) {
	t, err := reportTemplate()
	if err != nil {
		return "", err
	}
	return t.Exec(templateContext(r, version))
}

// templateContext flattens the report into the maps the template walks.
func templateContext(r *pipeline.RunReport, version string) map[string]interface{} {
	collections := make([]map[string]interface{}, 0, len(r.Collections))
	for _, c := range r.Collections {
		collections = append(collections, map[string]interface{}{
			"name":       c.Name,
			"label":      c.Label,
			"failed":     c.Failed(),
			"error":      c.Error,
			"files":      c.Files,
			"normalized": c.Normalized,
			"variants":   c.Variants,
			"rasters":    c.Rasters,
			"warnings":   c.Warnings,
			"stats": map[string]interface{}{
				"total":         c.Stats.Total,
				"added":         c.Stats.Added,
				"disabled":      c.Stats.Disabled,
				"reenabled":     c.Stats.Reenabled,
				"pathsRepaired": c.Stats.PathsRepaired,
				"migrated":      c.Stats.Migrated,
				"addedNames":    c.Stats.AddedNames,
			},
		})
	}

	ctx := map[string]interface{}{
		"version":     version,
		"publicDir":   r.PublicDir,
		"noOp":        r.NoOp,
		"collections": collections,
	}
	if r.Manifest != nil {
		ctx["manifest"] = map[string]interface{}{
			"file":  r.Manifest.File,
			"count": len(r.Manifest.Entries),
		}
	}
	return ctx
}
