// Package leaflet converts KML overlay packages into the manifest layout
// a Leaflet map front-end consumes.
package leaflet

// SiteInfo identifies the transmitter a manifest belongs to
type SiteInfo struct {
	Name           string  `json:"name"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	AntennaAGLM    float64 `json:"antenna_agl_m"`
	AntennaAGLNote string  `json:"antenna_agl_note"`
	FolderName     string  `json:"folder_name,omitempty"`
	PlacemarkName  string  `json:"placemark_name,omitempty"`
	SourceKML      string  `json:"source_kml"`
}

// OverlayEntry records one ground overlay and the outcome of fetching
// its image. A failed download keeps the entry with the failure details
// so the front-end can degrade gracefully.
type OverlayEntry struct {
	Name       string        `json:"name"`
	SourceURL  string        `json:"source_url"`
	Bounds     [2][2]float64 `json:"bounds"`
	Rotation   *float64      `json:"rotation"`
	Image      *string       `json:"image"`
	DownloadOK bool          `json:"download_ok"`
	HTTPStatus *int          `json:"http_status"`
	Error      *string       `json:"error"`
}

// Manifest is the per-site file the map front-end loads
type Manifest struct {
	Site     SiteInfo       `json:"site"`
	Overlays []OverlayEntry `json:"overlays"`
}

// Index lists every manifest below the output root
type Index struct {
	Manifests []string `json:"manifests"`
}
