package raster

import (
	"image/png"
	"os"

	"go.uber.org/zap"

	apperrors "github.com/chris-casper/RF-Sim/internal/errors"
	"github.com/chris-casper/RF-Sim/internal/logging"
)

// Processor converts a raw engine raster into the final PNG
type Processor struct {
	// KeepRaster retains the raw raster after conversion instead of
	// deleting it
	KeepRaster bool
}

// NewProcessor creates a raster processor
func NewProcessor(keepRaster bool) *Processor {
	return &Processor{KeepRaster: keepRaster}
}

// Process decodes the raw raster, applies the sentinel transparency mask,
// and writes the final PNG. The raw raster is deleted afterward unless
// KeepRaster is set.
func (p *Processor) Process(rasterPath, pngPath string) error {
	f, err := os.Open(rasterPath)
	if err != nil {
		return apperrors.Wrapf(apperrors.KindConversion, err, "open raster %s", rasterPath)
	}

	img, err := DecodePPM(f)
	f.Close()
	if err != nil {
		return apperrors.Wrapf(apperrors.KindConversion, err, "decode raster %s", rasterPath)
	}

	masked := ApplyTransparency(img)

	out, err := os.Create(pngPath)
	if err != nil {
		return apperrors.Wrapf(apperrors.KindTransparency, err, "create image %s", pngPath)
	}
	if err := png.Encode(out, masked); err != nil {
		out.Close()
		os.Remove(pngPath)
		return apperrors.Wrapf(apperrors.KindTransparency, err, "encode image %s", pngPath)
	}
	if err := out.Close(); err != nil {
		return apperrors.Wrapf(apperrors.KindTransparency, err, "finalize image %s", pngPath)
	}

	if !p.KeepRaster {
		if err := os.Remove(rasterPath); err != nil {
			// the final image is already complete; losing the
			// intermediate is not fatal
			logging.Warn("failed to remove raw raster",
				zap.String("path", rasterPath), zap.Error(err))
		}
	}

	logging.Info("coverage image written", zap.String("path", pngPath))
	return nil
}
