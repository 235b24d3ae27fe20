package engine

import (
	apperrors "github.com/chris-casper/RF-Sim/internal/errors"
	"github.com/chris-casper/RF-Sim/internal/params"
)

// ResolutionProfile pairs an engine binary variant with the terrain data
// tier it consumes. Exactly one profile is active per run, selected purely
// by the resolution value.
type ResolutionProfile struct {
	Resolution int

	// Binary is the engine executable name within the engine directory
	Binary string

	// TerrainSubdir is the terrain data directory name within the
	// terrain root
	TerrainSubdir string
}

// RasterExt is the extension of the raw raster the engine emits
const RasterExt = ".ppm"

// ProfileFor selects the resolution profile for a validated resolution
// value. The 3600 samples-per-degree tier requires the high-definition
// binary and its denser terrain set.
func ProfileFor(resolution int) (ResolutionProfile, error) {
	switch resolution {
	case params.Resolution300, params.Resolution600, params.Resolution1200:
		return ResolutionProfile{
			Resolution:    resolution,
			Binary:        "signalserver",
			TerrainSubdir: "sdf",
		}, nil
	case params.Resolution3600:
		return ResolutionProfile{
			Resolution:    resolution,
			Binary:        "signalserverHD",
			TerrainSubdir: "sdf-hd",
		}, nil
	default:
		return ResolutionProfile{}, apperrors.Newf(apperrors.KindConfig,
			"no engine profile for resolution %d", resolution)
	}
}
