package leaflet

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// SiteKML is the extraction of one parsed KML file
type SiteKML struct {
	SiteName      string
	Lat           float64
	Lon           float64
	FolderName    string
	PlacemarkName string
	Overlays      []KMLOverlay
}

// KMLOverlay is one GroundOverlay with its bounds as [[south,west],[north,east]]
type KMLOverlay struct {
	Name     string
	Href     string
	Bounds   [2][2]float64
	Rotation *float64
}

type kmlFile struct {
	Folder   *kmlFolder `xml:"Folder"`
	Document *struct {
		Folder    *kmlFolder     `xml:"Folder"`
		Placemark []kmlPlacemark `xml:"Placemark"`
		Overlays  []kmlOverlay   `xml:"GroundOverlay"`
	} `xml:"Document"`
}

type kmlFolder struct {
	Name       string         `xml:"name"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Overlays   []kmlOverlay   `xml:"GroundOverlay"`
}

type kmlPlacemark struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Point       struct {
		Coordinates string `xml:"coordinates"`
	} `xml:"Point"`
}

type kmlOverlay struct {
	Name string `xml:"name"`
	Icon struct {
		Href string `xml:"href"`
	} `xml:"Icon"`
	LatLonBox struct {
		North    float64 `xml:"north"`
		South    float64 `xml:"south"`
		East     float64 `xml:"east"`
		West     float64 `xml:"west"`
		Rotation *string `xml:"rotation"`
	} `xml:"LatLonBox"`
}

// CloudRF embeds a JSON blob inside a <textarea> in the placemark
// description HTML; its "nam" field is the preferred site name.
var textareaRe = regexp.MustCompile(`(?is)<textarea[^>]*>(\{.*?\})</textarea>`)

var slugRe = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// Slugify reduces a site name to a filesystem-safe slug
func Slugify(name string) string {
	slug := slugRe.ReplaceAllString(strings.TrimSpace(name), "_")
	if slug == "" {
		return "site"
	}
	return slug
}

// ParseKML extracts the site point and ground overlays from a KML file
func ParseKML(path string) (*SiteKML, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc kmlFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var folderName string
	var placemarks []kmlPlacemark
	var overlays []kmlOverlay

	switch {
	case doc.Folder != nil:
		folderName = strings.TrimSpace(doc.Folder.Name)
		placemarks = doc.Folder.Placemarks
		overlays = doc.Folder.Overlays
	case doc.Document != nil:
		if doc.Document.Folder != nil {
			folderName = strings.TrimSpace(doc.Document.Folder.Name)
			placemarks = doc.Document.Folder.Placemarks
			overlays = doc.Document.Folder.Overlays
		} else {
			placemarks = doc.Document.Placemark
			overlays = doc.Document.Overlays
		}
	}

	if len(placemarks) == 0 {
		return nil, fmt.Errorf("%s: no Placemark found", path)
	}
	pm := placemarks[0]

	lat, lon, err := parsePoint(pm.Point.Coordinates)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	placemarkName := strings.TrimSpace(pm.Name)
	siteName := cloudRFName(pm.Description)
	if siteName == "" {
		siteName = placemarkName
	}
	if siteName == "" {
		siteName = folderName
	}
	if siteName == "" {
		siteName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	site := &SiteKML{
		SiteName:      strings.TrimSpace(siteName),
		Lat:           lat,
		Lon:           lon,
		FolderName:    folderName,
		PlacemarkName: placemarkName,
	}

	for _, ov := range overlays {
		href := strings.TrimSpace(ov.Icon.Href)
		if href == "" {
			continue
		}
		name := ov.Name
		if name == "" {
			name = "Coverage"
		}
		entry := KMLOverlay{
			Name: name,
			Href: href,
			Bounds: [2][2]float64{
				{ov.LatLonBox.South, ov.LatLonBox.West},
				{ov.LatLonBox.North, ov.LatLonBox.East},
			},
		}
		if ov.LatLonBox.Rotation != nil {
			if rot, err := strconv.ParseFloat(strings.TrimSpace(*ov.LatLonBox.Rotation), 64); err == nil {
				entry.Rotation = &rot
			}
		}
		site.Overlays = append(site.Overlays, entry)
	}

	return site, nil
}

// parsePoint splits a KML "lon,lat[,alt]" coordinate triple
func parsePoint(coordinates string) (lat, lon float64, err error) {
	parts := strings.Split(strings.TrimSpace(coordinates), ",")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("no Point coordinates found")
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad longitude %q", parts[0])
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad latitude %q", parts[1])
	}
	return lat, lon, nil
}

func cloudRFName(description string) string {
	m := textareaRe.FindStringSubmatch(description)
	if m == nil {
		return ""
	}
	var blob map[string]interface{}
	if err := json.Unmarshal([]byte(m[1]), &blob); err != nil {
		return ""
	}
	if nam, ok := blob["nam"].(string); ok {
		return strings.TrimSpace(nam)
	}
	return ""
}
