// Package engine builds and executes propagation engine invocations.
package engine

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"

	apperrors "github.com/chris-casper/RF-Sim/internal/errors"
	"github.com/chris-casper/RF-Sim/internal/logging"
	"github.com/chris-casper/RF-Sim/internal/params"
)

// Invocation is a fully built engine command. It is immutable once
// constructed; one Invocation corresponds to one run.
type Invocation struct {
	BinaryPath   string
	Args         []string
	WorkDir      string
	OutputPrefix string
}

// RasterPath is where the engine contract places the raw raster
func (inv *Invocation) RasterPath() string {
	return inv.OutputPrefix + RasterExt
}

// Options carries the engine-side paths that are not per-site parameters
type Options struct {
	// EngineDir holds the engine binaries
	EngineDir string

	// TerrainDir is the root under which the per-profile terrain
	// directories live
	TerrainDir string

	// OutputDir receives the raster; the output prefix is <dir>/<site>
	OutputDir string

	// PaletteFile is an optional color definition file passed to the
	// engine verbatim
	PaletteFile string
}

// NewInvocation builds the complete, order-stable argument list for a
// validated site. Every configured parameter appears exactly once;
// unset optional parameters produce no flag at all.
func NewInvocation(site *params.SiteParameters, profile ResolutionProfile, opts Options) *Invocation {
	prefix := filepath.Join(opts.OutputDir, site.Name)

	var a argList
	a.flag("-sdf", filepath.Join(opts.TerrainDir, profile.TerrainSubdir))
	a.optString("-color", opts.PaletteFile)
	a.flagFloat("-lat", site.Latitude)
	a.flagFloat("-lon", site.Longitude)
	a.flagFloat("-txh", site.TxHeight)
	a.flagFloat("-f", site.FrequencyMHz)
	a.flagFloat("-erp", site.ERP)
	a.flagFloat("-rxh", site.RxHeight)
	a.flagFloat("-rt", site.RxThreshold)
	a.optFloat("-rxg", site.RxGain)
	a.optInt("-ter", site.TerrainCode)
	a.optFloat("-terdic", site.Dielectric)
	a.optFloat("-tercon", site.Conductivity)
	a.optInt("-cl", site.ClimateCode)
	a.optFloat("-clt", site.Clutter)
	a.optString("-ant", site.AntennaPattern)
	a.optFloat("-rot", site.AntennaRotation)
	a.optFloat("-dt", site.AntennaDowntilt)
	a.switchIf("-hp", site.HorizontalPol)
	a.flagInt("-pm", site.PropagationModel)
	a.optInt("-pe", site.PropagationMode)
	a.flagFloat("-rel", site.Reliability)
	a.flagFloat("-conf", site.Confidence)
	a.flagFloat("-R", site.Radius)
	a.flagInt("-res", profile.Resolution)
	a.switchIf("-m", site.Metric)
	a.switchIf("-dbm", !site.FieldStrength)
	a.switchIf("-ked", site.KnifeEdge)
	a.switchIf("-ngs", !site.TerrainBackground)
	a.switchIf("-dbg", site.Verbose)
	a.flag("-o", prefix)

	return &Invocation{
		BinaryPath:   filepath.Join(opts.EngineDir, profile.Binary),
		Args:         a.args,
		WorkDir:      opts.OutputDir,
		OutputPrefix: prefix,
	}
}

// Invoker runs engine invocations synchronously
type Invoker struct{}

// NewInvoker creates an engine invoker
func NewInvoker() *Invoker {
	return &Invoker{}
}

// Run executes the invocation and validates the engine's output contract.
// The engine may parallelize internally; from here it is a single blocking
// call. Callers needing bounded latency cancel ctx and treat expiry as an
// execution failure.
func (iv *Invoker) Run(ctx context.Context, inv *Invocation, verbose bool) (string, error) {
	if err := CheckBinary(inv.BinaryPath); err != nil {
		return "", err
	}

	logging.Info("invoking propagation engine",
		zap.String("binary", inv.BinaryPath),
		zap.Strings("args", inv.Args))

	cmd := exec.CommandContext(ctx, inv.BinaryPath, inv.Args...)
	cmd.Dir = inv.WorkDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if verbose {
		cmd.Stdout = os.Stdout
	} else {
		cmd.Stdout = io.Discard
	}

	if err := cmd.Run(); err != nil {
		msg := stderr.String()
		if msg == "" {
			msg = err.Error()
		}
		return "", apperrors.Wrapf(apperrors.KindEngineExecution, err,
			"engine %s failed: %s", filepath.Base(inv.BinaryPath), msg)
	}

	if stderr.Len() > 0 {
		// advisory only; the engine reports progress on stderr
		logging.Debug("engine diagnostics", zap.String("output", stderr.String()))
	}

	raster := inv.RasterPath()
	if _, err := os.Stat(raster); err != nil {
		return "", apperrors.Newf(apperrors.KindOutputMissing,
			"engine exited cleanly but raster %s was not produced", raster)
	}

	return raster, nil
}

// CheckBinary verifies the engine binary before any process is spawned,
// so a missing binary is reported distinctly from a failed run and before
// any output is written.
func CheckBinary(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return apperrors.Wrapf(apperrors.KindEngineNotFound, err, "engine binary %s", path)
	}
	if info.IsDir() || info.Mode()&0111 == 0 {
		return apperrors.Newf(apperrors.KindEngineNotFound, "engine binary %s is not executable", path)
	}
	return nil
}
