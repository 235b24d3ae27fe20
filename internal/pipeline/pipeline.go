// Package pipeline runs the coverage-map production stages in order.
package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/chris-casper/RF-Sim/internal/engine"
	apperrors "github.com/chris-casper/RF-Sim/internal/errors"
	"github.com/chris-casper/RF-Sim/internal/geo"
	"github.com/chris-casper/RF-Sim/internal/logging"
	"github.com/chris-casper/RF-Sim/internal/overlay"
	"github.com/chris-casper/RF-Sim/internal/palette"
	"github.com/chris-casper/RF-Sim/internal/params"
	"github.com/chris-casper/RF-Sim/internal/raster"
	"github.com/chris-casper/RF-Sim/internal/report"
)

// Options configures a pipeline instance
type Options struct {
	// EngineDir holds the engine binaries
	EngineDir string

	// TerrainDir is the terrain data root
	TerrainDir string

	// OutputDir receives all run artifacts
	OutputDir string
}

// RunOptions are per-run output toggles
type RunOptions struct {
	// Archive bundles the descriptor and image into a KMZ
	Archive bool
}

// Result describes the artifact set of one completed run
type Result struct {
	Site           *params.SiteParameters
	Bounds         geo.BoundingBox
	ImagePath      string
	DescriptorPath string
	ArchivePath    string
	LegendPath     string
	ReportPath     string
	RasterPath     string
	Duration       time.Duration
}

// Artifacts lists the produced file paths in creation order
func (r *Result) Artifacts() []string {
	paths := []string{}
	if r.RasterPath != "" {
		paths = append(paths, r.RasterPath)
	}
	paths = append(paths, r.ImagePath, r.LegendPath, r.DescriptorPath)
	if r.ArchivePath != "" {
		paths = append(paths, r.ArchivePath)
	}
	if r.ReportPath != "" {
		paths = append(paths, r.ReportPath)
	}
	return paths
}

// Pipeline produces one coverage-map package per Run call. Stages run
// strictly in sequence; every stage completes all of its I/O before the
// next begins, and any failure aborts the run.
type Pipeline struct {
	opts    Options
	invoker *engine.Invoker
	reports *report.Generator
}

// New creates a pipeline
func New(opts Options) *Pipeline {
	return &Pipeline{
		opts:    opts,
		invoker: engine.NewInvoker(),
		reports: report.NewGenerator(),
	}
}

// Run executes the full production pipeline for one raw parameter set.
// There is no retry and no partial success: either the complete artifact
// set exists afterward, or an error attributes the failure to its stage.
func (p *Pipeline) Run(ctx context.Context, raw *params.Raw, runOpts RunOptions) (*Result, error) {
	start := time.Now()

	site, err := params.Resolve(raw)
	if err != nil {
		return nil, stage("config", err)
	}

	profile, err := engine.ProfileFor(site.Resolution)
	if err != nil {
		return nil, stage("config", err)
	}
	logging.Info("resolution profile selected",
		zap.Int("resolution", profile.Resolution),
		zap.String("binary", profile.Binary),
		zap.String("terrain", profile.TerrainSubdir))

	bounds := geo.CoverageBounds(site.Latitude, site.Longitude, site.Radius, site.Metric)
	logging.Info("coverage bounds derived", zap.String("bounds", bounds.String()))

	// verify the engine before writing anything, so a missing binary
	// leaves the output directory untouched
	if err := engine.CheckBinary(filepath.Join(p.opts.EngineDir, profile.Binary)); err != nil {
		return nil, stage("engine", err)
	}

	if err := os.MkdirAll(p.opts.OutputDir, 0755); err != nil {
		return nil, stage("config", apperrors.Wrap(apperrors.KindConfig, "create output directory", err))
	}

	ramp := palette.DefaultRamp()
	paletteFile := filepath.Join(p.opts.OutputDir, site.Name+".dcf")
	if err := palette.WriteColorFile(paletteFile, ramp); err != nil {
		return nil, stage("engine", apperrors.Wrap(apperrors.KindConfig, "write palette file", err))
	}

	inv := engine.NewInvocation(site, profile, engine.Options{
		EngineDir:   p.opts.EngineDir,
		TerrainDir:  p.opts.TerrainDir,
		OutputDir:   p.opts.OutputDir,
		PaletteFile: paletteFile,
	})

	rasterPath, err := p.invoker.Run(ctx, inv, site.Verbose)
	if err != nil {
		return nil, stage("engine", err)
	}

	result := &Result{
		Site:      site,
		Bounds:    bounds,
		ImagePath: filepath.Join(p.opts.OutputDir, site.Name+".png"),
	}

	processor := raster.NewProcessor(site.KeepRaster)
	if err := processor.Process(rasterPath, result.ImagePath); err != nil {
		return nil, stage("raster", err)
	}
	if site.KeepRaster {
		result.RasterPath = rasterPath
	}

	result.LegendPath = filepath.Join(p.opts.OutputDir, site.Name+"_legend.png")
	if err := palette.RenderLegend(result.LegendPath, ramp); err != nil {
		return nil, stage("raster", apperrors.Wrap(apperrors.KindInternal, "render legend", err))
	}

	result.DescriptorPath = filepath.Join(p.opts.OutputDir, site.Name+".kml")
	err = overlay.WriteDescriptor(result.DescriptorPath, site.Name, site.Description,
		bounds, site.Latitude, site.Longitude, result.ImagePath)
	if err != nil {
		return nil, stage("overlay", err)
	}

	if runOpts.Archive {
		result.ArchivePath = filepath.Join(p.opts.OutputDir, site.Name+".kmz")
		if err := overlay.PackageArchive(result.ArchivePath, result.DescriptorPath, result.ImagePath); err != nil {
			return nil, stage("overlay", err)
		}
	}

	result.ReportPath = filepath.Join(p.opts.OutputDir, site.Name+"_report.html")
	markdown := p.reports.BuildMarkdown(site, bounds, result.Artifacts(), time.Now())
	if err := p.reports.WriteHTML(result.ReportPath, markdown); err != nil {
		return nil, stage("report", apperrors.Wrap(apperrors.KindDescriptorWrite, "write site report", err))
	}

	result.Duration = time.Since(start)
	logging.Info("coverage run complete",
		zap.String("site", site.Name),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// stage attributes an error to a pipeline stage without disturbing its kind
func stage(name string, err error) error {
	var e *apperrors.Error
	if errors.As(err, &e) && e.Stage == "" {
		e.Stage = name
	}
	return err
}
