// Package pipeline runs the per-collection stages (normalize, sync,
// variants, raster) and the final cache manifest over a public tree.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/brandkit/pkg/catalog"
	"github.com/fulmenhq/brandkit/pkg/config"
	"github.com/fulmenhq/brandkit/pkg/logger"
	"github.com/fulmenhq/brandkit/pkg/manifest"
	"github.com/fulmenhq/brandkit/pkg/raster"
	"github.com/fulmenhq/brandkit/pkg/scanner"
	"github.com/fulmenhq/brandkit/pkg/work"
	"github.com/go-git/go-billy/v5/osfs"
)

// ErrSourceDirMissing is returned when a collection's source directory does not exist.
var ErrSourceDirMissing = errors.New("source directory missing")

// Stages selects which parts of the pipeline run.
type Stages struct {
	Normalize bool
	Sync      bool
	Variants  bool
	Raster    bool
	Manifest  bool
}

// AllStages runs everything, in order.
func AllStages() Stages {
	return Stages{Normalize: true, Sync: true, Variants: true, Raster: true, Manifest: true}
}

// Options configures a Runner.
type Options struct {
	// NoOp computes every result but writes nothing.
	NoOp bool
}

// Runner executes the pipeline for one configuration.
type Runner struct {
	cfg        *config.Config
	registry   *config.Registry
	scanner    *scanner.Scanner
	renderer   *raster.Renderer
	dispatcher *work.Dispatcher
	noOp       bool
}

// New builds a Runner from a validated configuration.
func New(cfg *config.Config, opts Options) (*Runner, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	bg, err := raster.ParseHexColor(cfg.Raster.Background)
	if err != nil {
		return nil, fmt.Errorf("%w: raster.background: %v", config.ErrInvalidConfig, err)
	}
	return &Runner{
		cfg:      cfg,
		registry: reg,
		scanner:  scanner.New(cfg.Scan.Extensions),
		renderer: raster.NewRenderer(raster.Options{
			Width:       cfg.Raster.Width,
			Background:  bg,
			JPEGQuality: cfg.Raster.JPEGQuality,
		}),
		dispatcher: work.NewDispatcher(work.DispatcherConfig{MaxWorkers: cfg.WorkerCount()}),
		noOp:       opts.NoOp,
	}, nil
}

// Registry exposes the collection registry the runner was built with.
func (r *Runner) Registry() *config.Registry { return r.registry }

// Run resolves selector and processes each collection independently. With
// "all" a failing collection does not stop the others; the returned error
// joins every collection failure. With a single name its failure is returned
// directly. The manifest stage runs last, over the whole public tree.
func (r *Runner) Run(ctx context.Context, selector string, stages Stages) (*RunReport, error) {
	collections, err := r.registry.Resolve(selector)
	if err != nil {
		return nil, err
	}

	report := &RunReport{PublicDir: r.cfg.PublicDir, NoOp: r.noOp}
	var errs []error
	for _, c := range collections {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		rep, err := r.RunCollection(ctx, c, stages)
		report.Collections = append(report.Collections, rep)
		if err != nil {
			logger.Error("Collection failed", logger.String("collection", c.Name), logger.Err(err))
			errs = append(errs, fmt.Errorf("collection %s: %w", c.Name, err))
		}
	}

	if stages.Manifest {
		res, err := r.Manifest()
		if err != nil {
			errs = append(errs, err)
		}
		report.Manifest = res
	}
	return report, errors.Join(errs...)
}

// RunCollection executes the selected stages for one collection in order:
// normalize, sync (reconcile, migrate, persist), clean and synthesize
// variants, rasterize.
func (r *Runner) RunCollection(ctx context.Context, c config.CollectionConfig, stages Stages) (*CollectionReport, error) {
	rep := &CollectionReport{Name: c.Name, Label: c.DisplayLabel()}
	fail := func(err error) (*CollectionReport, error) {
		rep.Error = err.Error()
		return rep, err
	}

	logger.Info(fmt.Sprintf("Processing collection: %s", rep.Label), logger.String("collection", c.Name))

	if !stages.Normalize && !stages.Sync && !stages.Variants && !stages.Raster {
		return rep, nil
	}

	sourceDir := r.cfg.Path(c.SourceDir)
	scan, err := r.scanner.Scan(sourceDir)
	if err != nil {
		return fail(err)
	}
	if scan.Missing {
		return fail(fmt.Errorf("%w: %s", ErrSourceDirMissing, sourceDir))
	}
	rep.Files = len(scan.Files)

	if stages.Normalize {
		if err := r.normalize(ctx, sourceDir, scan, rep); err != nil {
			return fail(err)
		}
	}

	var records []*catalog.AssetRecord
	var persistErr error
	switch {
	case stages.Sync:
		records, persistErr = r.sync(c, scan, rep)
		if records == nil {
			return fail(persistErr)
		}
		if persistErr != nil {
			// keep going on the in-memory catalog; a re-run converges
			logger.Error("Catalog write failed", logger.String("collection", c.Name), logger.Err(persistErr))
			rep.Error = persistErr.Error()
		}
	case stages.Variants:
		records, _, err = catalog.Load(r.cfg.Path(c.MetadataFile))
		if err != nil {
			return fail(err)
		}
	}

	var variantFiles []string
	if stages.Variants {
		variantFiles, err = r.variants(ctx, c, records, rep)
		if err != nil {
			return fail(err)
		}
	}

	if stages.Raster && r.cfg.Raster.Enabled {
		inputs := make([]string, 0, len(scan.Files)+len(variantFiles))
		for _, f := range scan.Vectors() {
			inputs = append(inputs, filepath.Join(sourceDir, f))
		}
		inputs = append(inputs, variantFiles...)
		if err := r.rasterize(ctx, r.cfg.Path(c.VariantDir), inputs, rep); err != nil {
			return fail(err)
		}
	}

	logger.Info(fmt.Sprintf("Completed %s: %d files, %d variants, %d rasters, %d warnings",
		rep.Label, rep.Files, rep.Variants, rep.Rasters, len(rep.Warnings)))
	if persistErr != nil {
		return rep, persistErr
	}
	return rep, nil
}

// Manifest lists the public tree (plus configured extra roots) into the
// cache manifest file.
func (r *Runner) Manifest() (*manifest.Result, error) {
	mc := r.cfg.Manifest
	opts := manifest.Options{
		File:       mc.File,
		EntryPoint: mc.EntryPoint,
		IgnoreFile: mc.IgnoreFile,
		Exclude:    mc.Exclude,
	}
	for _, root := range mc.ExtraRoots {
		if _, err := os.Stat(root.Dir); err != nil {
			logger.Warn("Skipping missing manifest root", logger.String("dir", root.Dir))
			continue
		}
		opts.Extra = append(opts.Extra, manifest.Source{FS: osfs.New(root.Dir), URLPrefix: root.URLPrefix})
	}

	if _, err := os.Stat(r.cfg.PublicDir); err != nil {
		return nil, fmt.Errorf("public directory %s: %w", r.cfg.PublicDir, err)
	}
	b, err := manifest.New(osfs.New(r.cfg.PublicDir), opts)
	if err != nil {
		return nil, err
	}
	res, err := b.Build(r.noOp)
	if err != nil {
		return nil, err
	}
	logger.Info(fmt.Sprintf("Cache manifest generated with %d files", len(res.Entries)),
		logger.String("file", res.File), logger.Bool("changed", res.Changed))
	return res, nil
}

// Favicons renders the configured favicon source into the public root.
func (r *Runner) Favicons() ([]string, error) {
	src := r.cfg.Path(r.cfg.Favicon.Source)
	data, err := os.ReadFile(src) // #nosec G304 -- configured path under public_dir
	if err != nil {
		return nil, fmt.Errorf("favicon source: %w", err)
	}
	if r.noOp {
		logger.Info("Dry run: favicons not written", logger.String("source", src))
		return nil, nil
	}
	written, err := raster.Favicons(data, filepath.Dir(src))
	if err != nil {
		return written, fmt.Errorf("favicons: %w", err)
	}
	for _, p := range written {
		logger.Info(fmt.Sprintf("Created %s", p))
	}
	return written, nil
}
