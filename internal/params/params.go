// Package params resolves raw site configuration into a validated,
// immutable parameter set for a coverage run.
package params

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/chris-casper/RF-Sim/internal/errors"
)

// Resolution tiers, expressed as terrain samples per degree.
// Each value maps to exactly one engine binary and terrain directory.
const (
	Resolution300  = 300
	Resolution600  = 600
	Resolution1200 = 1200
	Resolution3600 = 3600
)

// KnownResolutions lists the accepted resolution values in ascending order
var KnownResolutions = []int{Resolution300, Resolution600, Resolution1200, Resolution3600}

// Frequency limits accepted by the engine, in MHz
const (
	MinFrequencyMHz = 20
	MaxFrequencyMHz = 100000
)

// MaxLatitude is the operating envelope for transmitter latitude. The
// longitude scaling in the bounds math diverges toward the poles, so
// sites beyond this are rejected here rather than in the geo package.
const MaxLatitude = 70.0

var siteNameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Raw is the flat, unvalidated configuration surface for one run.
// Latitude and longitude are textual so that coordinates pasted from
// map tools (which may carry a Unicode minus) survive parsing.
type Raw struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`

	Latitude  string `yaml:"latitude" json:"latitude"`
	Longitude string `yaml:"longitude" json:"longitude"`

	TxHeight     float64 `yaml:"tx_height" json:"tx_height"`
	FrequencyMHz float64 `yaml:"frequency_mhz" json:"frequency_mhz"`
	PowerWatts   float64 `yaml:"power_watts" json:"power_watts"`
	GainDBi      float64 `yaml:"gain_dbi" json:"gain_dbi"`

	RxHeight    float64  `yaml:"rx_height" json:"rx_height"`
	RxThreshold float64  `yaml:"rx_threshold" json:"rx_threshold"`
	RxGain      *float64 `yaml:"rx_gain,omitempty" json:"rx_gain,omitempty"`

	Radius     float64 `yaml:"radius" json:"radius"`
	Resolution int     `yaml:"resolution" json:"resolution"`

	PropagationModel int  `yaml:"propagation_model" json:"propagation_model"`
	PropagationMode  *int `yaml:"propagation_mode,omitempty" json:"propagation_mode,omitempty"`

	TerrainCode  *int     `yaml:"terrain_code,omitempty" json:"terrain_code,omitempty"`
	Dielectric   *float64 `yaml:"dielectric,omitempty" json:"dielectric,omitempty"`
	Conductivity *float64 `yaml:"conductivity,omitempty" json:"conductivity,omitempty"`
	ClimateCode  *int     `yaml:"climate_code,omitempty" json:"climate_code,omitempty"`
	Clutter      *float64 `yaml:"clutter,omitempty" json:"clutter,omitempty"`

	AntennaPattern  string   `yaml:"antenna_pattern,omitempty" json:"antenna_pattern,omitempty"`
	AntennaRotation *float64 `yaml:"antenna_rotation,omitempty" json:"antenna_rotation,omitempty"`
	AntennaDowntilt *float64 `yaml:"antenna_downtilt,omitempty" json:"antenna_downtilt,omitempty"`
	HorizontalPol   bool     `yaml:"horizontal_polarization" json:"horizontal_polarization"`

	Reliability *float64 `yaml:"reliability,omitempty" json:"reliability,omitempty"`
	Confidence  *float64 `yaml:"confidence,omitempty" json:"confidence,omitempty"`

	Metric        bool `yaml:"metric" json:"metric"`
	FieldStrength bool `yaml:"field_strength" json:"field_strength"`

	KnifeEdge         bool `yaml:"knife_edge" json:"knife_edge"`
	TerrainBackground bool `yaml:"terrain_background" json:"terrain_background"`
	KeepRaster        bool `yaml:"keep_raster" json:"keep_raster"`
	Verbose           bool `yaml:"verbose" json:"verbose"`
}

// SiteParameters is the validated, canonical parameter set. ERP is always
// derived from power and gain, never supplied directly.
type SiteParameters struct {
	Name        string
	Description string

	Latitude  float64
	Longitude float64

	TxHeight     float64
	FrequencyMHz float64
	PowerWatts   float64
	GainDBi      float64
	ERP          float64

	RxHeight    float64
	RxThreshold float64
	RxGain      *float64

	Radius     float64
	Resolution int

	PropagationModel int
	PropagationMode  *int

	TerrainCode  *int
	Dielectric   *float64
	Conductivity *float64
	ClimateCode  *int
	Clutter      *float64

	AntennaPattern  string
	AntennaRotation *float64
	AntennaDowntilt *float64
	HorizontalPol   bool

	Reliability float64
	Confidence  float64

	Metric        bool
	FieldStrength bool

	KnifeEdge         bool
	TerrainBackground bool
	KeepRaster        bool
	Verbose           bool
}

// LoadRaw reads a Raw parameter set from a YAML file
func LoadRaw(path string) (*Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.KindConfig, err, "read site file %s", path)
	}
	var raw Raw
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.Wrapf(apperrors.KindConfig, err, "parse site file %s", path)
	}
	return &raw, nil
}

// Resolve validates raw configuration and produces the canonical
// parameter set. It is a pure transformation with no side effects.
func Resolve(raw *Raw) (*SiteParameters, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.KindConfig, "site name is required")
	}
	if !siteNameRe.MatchString(name) {
		return nil, apperrors.Newf(apperrors.KindConfig,
			"site name %q contains path-unsafe characters (allowed: letters, digits, '_', '-', '.')", name)
	}

	lat, err := parseCoordinate(raw.Latitude, "latitude")
	if err != nil {
		return nil, err
	}
	if lat < -MaxLatitude || lat > MaxLatitude {
		return nil, apperrors.Newf(apperrors.KindConfig,
			"latitude %.6f outside supported range [-%.0f, %.0f]", lat, MaxLatitude, MaxLatitude)
	}

	lon, err := parseCoordinate(raw.Longitude, "longitude")
	if err != nil {
		return nil, err
	}
	lon, err = normalizeLongitude(lon)
	if err != nil {
		return nil, err
	}

	if raw.Radius <= 0 {
		return nil, apperrors.Newf(apperrors.KindConfig, "coverage radius must be positive, got %.2f", raw.Radius)
	}
	if raw.FrequencyMHz < MinFrequencyMHz || raw.FrequencyMHz > MaxFrequencyMHz {
		return nil, apperrors.Newf(apperrors.KindConfig,
			"frequency %.2f MHz outside supported range [%d, %d]", raw.FrequencyMHz, MinFrequencyMHz, MaxFrequencyMHz)
	}
	if raw.TxHeight <= 0 {
		return nil, apperrors.Newf(apperrors.KindConfig, "transmitter height must be positive, got %.2f", raw.TxHeight)
	}
	if raw.RxHeight <= 0 {
		return nil, apperrors.Newf(apperrors.KindConfig, "receiver height must be positive, got %.2f", raw.RxHeight)
	}
	if raw.PowerWatts <= 0 {
		return nil, apperrors.Newf(apperrors.KindConfig, "transmit power must be positive, got %.2f", raw.PowerWatts)
	}

	if !knownResolution(raw.Resolution) {
		return nil, apperrors.Newf(apperrors.KindConfig,
			"resolution %d is not one of %v", raw.Resolution, KnownResolutions)
	}

	if raw.PropagationModel < 1 || raw.PropagationModel > 12 {
		return nil, apperrors.Newf(apperrors.KindConfig,
			"propagation model %d outside supported range [1, 12]", raw.PropagationModel)
	}

	if err := validateOptionals(raw); err != nil {
		return nil, err
	}

	reliability := 50.0
	if raw.Reliability != nil {
		reliability = *raw.Reliability
	}
	confidence := 50.0
	if raw.Confidence != nil {
		confidence = *raw.Confidence
	}

	site := &SiteParameters{
		Name:              name,
		Description:       strings.TrimSpace(raw.Description),
		Latitude:          lat,
		Longitude:         lon,
		TxHeight:          raw.TxHeight,
		FrequencyMHz:      raw.FrequencyMHz,
		PowerWatts:        raw.PowerWatts,
		GainDBi:           raw.GainDBi,
		ERP:               DeriveERP(raw.PowerWatts, raw.GainDBi),
		RxHeight:          raw.RxHeight,
		RxThreshold:       raw.RxThreshold,
		RxGain:            raw.RxGain,
		Radius:            raw.Radius,
		Resolution:        raw.Resolution,
		PropagationModel:  raw.PropagationModel,
		PropagationMode:   raw.PropagationMode,
		TerrainCode:       raw.TerrainCode,
		Dielectric:        raw.Dielectric,
		Conductivity:      raw.Conductivity,
		ClimateCode:       raw.ClimateCode,
		Clutter:           raw.Clutter,
		AntennaPattern:    raw.AntennaPattern,
		AntennaRotation:   raw.AntennaRotation,
		AntennaDowntilt:   raw.AntennaDowntilt,
		HorizontalPol:     raw.HorizontalPol,
		Reliability:       reliability,
		Confidence:        confidence,
		Metric:            raw.Metric,
		FieldStrength:     raw.FieldStrength,
		KnifeEdge:         raw.KnifeEdge,
		TerrainBackground: raw.TerrainBackground,
		KeepRaster:        raw.KeepRaster,
		Verbose:           raw.Verbose,
	}
	return site, nil
}

// DeriveERP computes effective radiated power in watts from transmit
// power and antenna gain, rounded to two decimal places.
func DeriveERP(powerWatts, gainDBi float64) float64 {
	erp := powerWatts * math.Pow(10, gainDBi/10)
	return math.Round(erp*100) / 100
}

// RadiusKm returns the coverage radius in kilometers regardless of the
// configured unit system (imperial radii are given in miles).
func (s *SiteParameters) RadiusKm() float64 {
	if s.Metric {
		return s.Radius
	}
	return s.Radius * 1.60934
}

// parseCoordinate parses a decimal-degree coordinate, tolerating the
// Unicode minus sign some map tools emit.
func parseCoordinate(value, field string) (float64, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, apperrors.Newf(apperrors.KindConfig, "%s is required", field)
	}
	v = strings.ReplaceAll(v, "−", "-")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, apperrors.Newf(apperrors.KindConfig, "%s %q is not a decimal degree value", field, value)
	}
	return f, nil
}

// normalizeLongitude wraps a longitude into [-180, 180]
func normalizeLongitude(lon float64) (float64, error) {
	if lon > 360 || lon < -360 {
		return 0, apperrors.Newf(apperrors.KindConfig, "longitude %.6f outside physical range", lon)
	}
	if lon > 180 {
		lon -= 360
	}
	if lon < -180 {
		lon += 360
	}
	return lon, nil
}

func knownResolution(res int) bool {
	for _, r := range KnownResolutions {
		if r == res {
			return true
		}
	}
	return false
}

func validateOptionals(raw *Raw) error {
	if raw.RxGain != nil && (*raw.RxGain < -30 || *raw.RxGain > 60) {
		return apperrors.Newf(apperrors.KindConfig, "receiver gain %.2f dBi outside supported range [-30, 60]", *raw.RxGain)
	}
	if raw.PropagationMode != nil && (*raw.PropagationMode < 1 || *raw.PropagationMode > 3) {
		return apperrors.Newf(apperrors.KindConfig, "propagation mode %d outside supported range [1, 3]", *raw.PropagationMode)
	}
	if raw.TerrainCode != nil && (*raw.TerrainCode < 1 || *raw.TerrainCode > 7) {
		return apperrors.Newf(apperrors.KindConfig, "terrain code %d outside supported range [1, 7]", *raw.TerrainCode)
	}
	if raw.Dielectric != nil && *raw.Dielectric <= 0 {
		return apperrors.Newf(apperrors.KindConfig, "dielectric constant must be positive, got %.2f", *raw.Dielectric)
	}
	if raw.Conductivity != nil && *raw.Conductivity <= 0 {
		return apperrors.Newf(apperrors.KindConfig, "ground conductivity must be positive, got %.4f", *raw.Conductivity)
	}
	if raw.ClimateCode != nil && (*raw.ClimateCode < 1 || *raw.ClimateCode > 7) {
		return apperrors.Newf(apperrors.KindConfig, "climate code %d outside supported range [1, 7]", *raw.ClimateCode)
	}
	if raw.Clutter != nil && *raw.Clutter < 0 {
		return apperrors.Newf(apperrors.KindConfig, "ground clutter must not be negative, got %.2f", *raw.Clutter)
	}
	if raw.AntennaRotation != nil && (*raw.AntennaRotation < 0 || *raw.AntennaRotation >= 360) {
		return apperrors.Newf(apperrors.KindConfig, "antenna rotation %.2f outside supported range [0, 360)", *raw.AntennaRotation)
	}
	if raw.AntennaDowntilt != nil && (*raw.AntennaDowntilt < -10 || *raw.AntennaDowntilt > 90) {
		return apperrors.Newf(apperrors.KindConfig, "antenna downtilt %.2f outside supported range [-10, 90]", *raw.AntennaDowntilt)
	}
	if raw.Reliability != nil && (*raw.Reliability <= 0 || *raw.Reliability >= 100) {
		return apperrors.Newf(apperrors.KindConfig, "reliability %.2f must be within (0, 100)", *raw.Reliability)
	}
	if raw.Confidence != nil && (*raw.Confidence <= 0 || *raw.Confidence >= 100) {
		return apperrors.Newf(apperrors.KindConfig, "confidence %.2f must be within (0, 100)", *raw.Confidence)
	}
	return nil
}

// Summary returns a short human-readable description of the run
func (s *SiteParameters) Summary() string {
	unit := "mi"
	if s.Metric {
		unit = "km"
	}
	return fmt.Sprintf("%s: %.6f,%.6f %.2f MHz ERP %.2f W radius %.1f %s res %d",
		s.Name, s.Latitude, s.Longitude, s.FrequencyMHz, s.ERP, s.Radius, unit, s.Resolution)
}
