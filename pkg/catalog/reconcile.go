package catalog

import (
	"path"
	"sort"
	"strings"

	"github.com/fulmenhq/brandkit/pkg/logger"
	"github.com/fulmenhq/brandkit/pkg/scanner"
)

// ReconcileStats counts what a reconciliation changed.
type ReconcileStats struct {
	Total           int      `json:"total"`
	Added           int      `json:"added"`
	PathsRepaired   int      `json:"pathsRepaired"`
	Disabled        int      `json:"disabled"`
	Reenabled       int      `json:"reenabled"`
	Duplicates      int      `json:"duplicates"`
	Migrated        int      `json:"migrated"`
	ColorsConverted int      `json:"colorsConverted"`
	AddedNames      []string `json:"addedNames,omitempty"`
}

// NewRecord creates the minimal entry for a newly discovered file.
func NewRecord(filename string) *AssetRecord {
	name := DisplayName(filename)
	return &AssetRecord{
		Name:    name,
		Brand:   name,
		Path:    filename,
		Format:  scanner.FormatTag(filename),
		Disable: false,
		Tags:    []string{},
	}
}

// Reconcile merges the files currently on disk into the previous catalog.
//
// Kept entries stay in their original order and only their disable flag
// (and a directory-prefixed path) changes. New files are spliced in one by
// one before the first entry whose display name they sort ahead of, so a
// curated order survives while new content lands alphabetically. Every
// record then passes through Migrate. The input slice is not modified.
func Reconcile(existing []*AssetRecord, files []string) ([]*AssetRecord, ReconcileStats) {
	var stats ReconcileStats

	onDisk := make(map[string]struct{}, len(files))
	for _, f := range files {
		onDisk[f] = struct{}{}
	}

	merged := make([]*AssetRecord, 0, len(existing)+len(files))
	claimed := make(map[string]struct{}, len(existing))
	for _, prev := range existing {
		r := prev.Clone()

		if strings.ContainsAny(r.Path, `/\`) {
			r.Path = path.Base(strings.ReplaceAll(r.Path, `\`, "/"))
			stats.PathsRepaired++
		}

		_, present := onDisk[r.Path]
		_, dup := claimed[r.Path]
		switch {
		case dup:
			// a second entry for the same file is flagged, never removed
			if !r.Disable {
				r.Disable = true
				stats.Disabled++
			}
			stats.Duplicates++
			logger.Warn("Duplicate catalog entry disabled", logger.String("path", r.Path), logger.String("name", r.Name))
		case !present:
			if !r.Disable {
				r.Disable = true
				stats.Disabled++
			}
		case r.Disable:
			r.Disable = false
			stats.Reenabled++
		}
		claimed[r.Path] = struct{}{}
		merged = append(merged, r)
	}

	order := newNameOrder()

	var added []*AssetRecord
	for _, f := range files {
		if _, ok := claimed[f]; ok {
			continue
		}
		added = append(added, NewRecord(f))
	}
	sort.SliceStable(added, func(i, j int) bool {
		return order.Less(added[i].Name, added[j].Name)
	})

	for _, rec := range added {
		at := len(merged)
		for i, placed := range merged {
			if order.Less(rec.Name, placed.Name) {
				at = i
				break
			}
		}
		merged = append(merged, nil)
		copy(merged[at+1:], merged[at:])
		merged[at] = rec
		stats.AddedNames = append(stats.AddedNames, rec.Name)
	}
	stats.Added = len(added)

	for _, r := range merged {
		if r.legacyColors {
			stats.ColorsConverted++
			r.legacyColors = false
		}
		if Migrate(r) {
			stats.Migrated++
		}
	}

	stats.Total = len(merged)
	return merged, stats
}
