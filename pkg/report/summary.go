package report

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/brandkit/pkg/pipeline"
)

const maxWarningWidth = 72

// Summary renders a run as a boxed table, one row per collection.
func Summary(r *pipeline.RunReport) string {
	if r == nil {
		return ""
	}
	header := []string{"Collection", "Files", "Added", "Disabled", "Variants", "Rasters", "Status"}
	rows := [][]string{header}
	for _, c := range r.Collections {
		status := "ok"
		switch {
		case c.Failed():
			status = "failed"
		case len(c.Warnings) > 0:
			status = fmt.Sprintf("%d warnings", len(c.Warnings))
		}
		rows = append(rows, []string{
			c.Label,
			fmt.Sprint(c.Files),
			fmt.Sprint(c.Stats.Added),
			fmt.Sprint(c.Stats.Disabled),
			fmt.Sprint(c.Variants),
			fmt.Sprint(c.Rasters),
			status,
		})
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			if w := len([]rune(cell)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	title := "brandkit run"
	if r.NoOp {
		title += " (dry run)"
	}
	lines := []string{title, ""}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = padRight(cell, widths[i])
		}
		lines = append(lines, strings.Join(cells, "  "))
	}

	for _, c := range r.Collections {
		if c.Failed() {
			lines = append(lines, "", Truncate(fmt.Sprintf("%s: %s", c.Name, c.Error), maxWarningWidth))
		}
	}
	if r.Manifest != nil {
		lines = append(lines, "", fmt.Sprintf("Manifest: %d entries -> %s", len(r.Manifest.Entries), r.Manifest.File))
	}
	return Box(lines)
}
