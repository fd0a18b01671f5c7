package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/brandkit/pkg/catalog"
	"github.com/fulmenhq/brandkit/pkg/config"
	"github.com/fulmenhq/brandkit/pkg/logger"
	"github.com/fulmenhq/brandkit/pkg/safeio"
	"github.com/fulmenhq/brandkit/pkg/scanner"
	"github.com/fulmenhq/brandkit/pkg/svgmarkup"
	"github.com/fulmenhq/brandkit/pkg/work"
)

func (r *Runner) normalize(ctx context.Context, sourceDir string, scan scanner.Result, rep *CollectionReport) error {
	items := work.Items(scan.Vectors(), func(f string) string { return f })
	results, _, err := work.Run(ctx, r.dispatcher, items, func(_ context.Context, file string) (bool, error) {
		path := filepath.Join(sourceDir, file)
		data, err := safeio.ReadFileContained(sourceDir, path)
		if err != nil {
			return false, err
		}
		out, changed, err := svgmarkup.Normalize(data, scanner.BaseName(file))
		if err != nil || !changed || r.noOp {
			return changed, err
		}
		_, err = safeio.WriteFileIfChanged(path, out)
		return true, err
	})
	if err != nil {
		return err
	}

	for _, res := range results {
		switch {
		case res.Err != nil:
			rep.NormalizeFailed++
			rep.warn(fmt.Sprintf("normalize %s: %v", res.ID, res.Err))
			logger.Warn("Skipping malformed asset", logger.String("file", res.ID), logger.Err(res.Err))
		case res.Value:
			rep.Normalized++
			logger.Debug("Normalized", logger.String("file", res.ID))
		}
	}
	logger.Info(fmt.Sprintf("Normalized %d of %d vector files (%d errors)", rep.Normalized, len(items), rep.NormalizeFailed))
	return nil
}

// sync reconciles the catalog with the scan and persists it. A nil slice
// means the catalog could not be read at all.
func (r *Runner) sync(c config.CollectionConfig, scan scanner.Result, rep *CollectionReport) ([]*catalog.AssetRecord, error) {
	path := r.cfg.Path(c.MetadataFile)
	existing, status, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	rep.CatalogStatus = status.String()
	if status == catalog.Corrupt {
		rep.warn(fmt.Sprintf("metadata file %s could not be parsed; rebuilt from scratch", c.MetadataFile))
	}

	records, stats := catalog.Reconcile(existing, scan.Files)
	rep.Stats = stats
	for _, name := range stats.AddedNames {
		logger.Info(fmt.Sprintf("Added new entry: %s", name))
	}
	logger.Info("Catalog reconciled",
		logger.String("collection", c.Name),
		logger.Int("total", stats.Total),
		logger.Int("added", stats.Added),
		logger.Int("disabled", stats.Disabled),
		logger.Int("reenabled", stats.Reenabled),
		logger.Int("migrated", stats.Migrated))

	if r.noOp {
		data, err := catalog.Encode(records)
		if err != nil {
			return records, err
		}
		current, readErr := os.ReadFile(path) // #nosec G304 -- registry path
		rep.CatalogChanged = readErr != nil || string(current) != string(data)
		return records, nil
	}

	changed, err := catalog.Save(path, records)
	rep.CatalogChanged = changed
	return records, err
}

type variantJob struct {
	record *catalog.AssetRecord
}

type variantOut struct {
	files   []string
	skipped int
	notes   []string
}

func (r *Runner) variants(ctx context.Context, c config.CollectionConfig, records []*catalog.AssetRecord, rep *CollectionReport) ([]string, error) {
	sourceDir := r.cfg.Path(c.SourceDir)
	variantDir := r.cfg.Path(c.VariantDir)

	if r.noOp {
		logger.Info("Dry run: variant directory not cleaned", logger.String("dir", variantDir))
	} else {
		removed, err := safeio.CleanDir(variantDir, r.cfg.Variants.Placeholders)
		if err != nil {
			return nil, err
		}
		rep.Cleaned = removed
	}

	var jobs []work.Item[variantJob]
	for _, rec := range records {
		if rec.Disable || !rec.HasSets() || !scanner.IsVector(rec.Path) {
			continue
		}
		jobs = append(jobs, work.Item[variantJob]{ID: rec.Path, Value: variantJob{record: rec}})
	}

	results, _, err := work.Run(ctx, r.dispatcher, jobs, func(_ context.Context, job variantJob) (variantOut, error) {
		return r.synthesizeRecord(sourceDir, variantDir, job.record)
	})
	if err != nil {
		return nil, err
	}

	var files []string
	for _, res := range results {
		for _, n := range res.Value.notes {
			rep.warn(n)
		}
		rep.VariantsSkipped += res.Value.skipped
		if res.Err != nil {
			rep.warn(fmt.Sprintf("variants %s: %v", res.ID, res.Err))
			logger.Warn("Skipping variants", logger.String("file", res.ID), logger.Err(res.Err))
			continue
		}
		files = append(files, res.Value.files...)
	}
	rep.Variants = len(files)
	for _, f := range files {
		rep.VariantFiles = append(rep.VariantFiles, filepath.Base(f))
	}
	logger.Info(fmt.Sprintf("Generated %d color variants (%d skipped)", rep.Variants, rep.VariantsSkipped),
		logger.String("collection", c.Name))
	return files, nil
}

// synthesizeRecord writes one variant per set of rec. Sets that resolve to
// nothing are skipped with a note.
func (r *Runner) synthesizeRecord(sourceDir, variantDir string, rec *catalog.AssetRecord) (variantOut, error) {
	var out variantOut
	basePath := filepath.Join(sourceDir, rec.Path)
	base, err := safeio.ReadFileContained(sourceDir, basePath)
	if err != nil {
		return out, fmt.Errorf("base file: %w", err)
	}
	baseName := scanner.BaseName(rec.Path)

	for _, set := range rec.SetNames() {
		resolved, problems := rec.ResolveSet(set)
		for _, p := range problems {
			out.notes = append(out.notes, p.String())
		}
		if len(resolved) == 0 {
			out.skipped++
			logger.Warn("Skipping set with no resolvable colours", logger.String("file", rec.Path), logger.String("set", set))
			continue
		}

		var fills []svgmarkup.Fill
		for t := rec.Targets.Oldest(); t != nil; t = t.Next() {
			if color, ok := resolved[t.Key]; ok {
				fills = append(fills, svgmarkup.Fill{Selector: t.Value, Color: color})
			}
		}

		variant, missed, err := svgmarkup.Synthesize(base, fills, baseName)
		if err != nil {
			return out, err
		}
		if len(missed) > 0 {
			out.notes = append(out.notes, fmt.Sprintf("%s: set %q matched nothing for %s", rec.Path, set, strings.Join(missed, ", ")))
		}

		dest := filepath.Join(variantDir, svgmarkup.VariantName(rec.Path, set))
		if !r.noOp {
			if _, err := safeio.WriteFileIfChanged(dest, variant); err != nil {
				return out, err
			}
		}
		out.files = append(out.files, dest)
	}
	return out, nil
}

func (r *Runner) rasterize(ctx context.Context, outDir string, inputs []string, rep *CollectionReport) error {
	if r.noOp {
		rep.Rasters = len(inputs)
		logger.Info(fmt.Sprintf("Dry run: %d files would be rasterized", len(inputs)))
		return nil
	}
	if err := safeio.EnsureDir(outDir); err != nil {
		return err
	}

	items := work.Items(inputs, filepath.Base)
	results, _, err := work.Run(ctx, r.dispatcher, items, func(_ context.Context, src string) (struct{}, error) {
		_, err := r.renderer.RenderFile(src, outDir)
		return struct{}{}, err
	})
	if err != nil {
		return err
	}
	for _, res := range results {
		if res.Err != nil {
			rep.RasterFailed++
			rep.warn(fmt.Sprintf("raster %s: %v", res.ID, res.Err))
			logger.Warn("Error generating bitmaps", logger.String("file", res.ID), logger.Err(res.Err))
			continue
		}
		rep.Rasters++
	}
	logger.Info(fmt.Sprintf("Completed: %d processed, %d errors", rep.Rasters, rep.RasterFailed))
	return nil
}
