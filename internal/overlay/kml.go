// Package overlay emits the geo-referenced overlay descriptor and the
// optional self-contained archive for a coverage run.
package overlay

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/chris-casper/RF-Sim/internal/errors"
	"github.com/chris-casper/RF-Sim/internal/geo"
)

const kmlNamespace = "http://earth.google.com/kml/2.2"

// Package is the final artifact set of a run. It is created once and not
// mutated afterward.
type Package struct {
	Name           string
	Description    string
	Bounds         geo.BoundingBox
	ImagePath      string
	DescriptorPath string
	ArchivePath    string
}

type kmlDoc struct {
	XMLName xml.Name  `xml:"kml"`
	Xmlns   string    `xml:"xmlns,attr"`
	Folder  kmlFolder `xml:"Folder"`
}

type kmlFolder struct {
	Name        string        `xml:"name"`
	Description string        `xml:"description,omitempty"`
	Overlay     groundOverlay `xml:"GroundOverlay"`
	Placemark   kmlPlacemark  `xml:"Placemark"`
}

type groundOverlay struct {
	Name      string    `xml:"name"`
	Icon      kmlIcon   `xml:"Icon"`
	LatLonBox latLonBox `xml:"LatLonBox"`
}

type kmlIcon struct {
	Href string `xml:"href"`
}

type latLonBox struct {
	North    float64 `xml:"north"`
	South    float64 `xml:"south"`
	East     float64 `xml:"east"`
	West     float64 `xml:"west"`
	Rotation float64 `xml:"rotation"`
}

type kmlPlacemark struct {
	Name        string   `xml:"name"`
	Description string   `xml:"description,omitempty"`
	Point       kmlPoint `xml:"Point"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

// WriteDescriptor writes the KML descriptor binding the coverage image to
// its bounding box, with a point marker at the exact transmitter
// location. The image is referenced by bare file name so the descriptor
// stays valid inside a relocatable archive.
func WriteDescriptor(path, name, description string, bounds geo.BoundingBox, lat, lon float64, imagePath string) error {
	doc := kmlDoc{
		Xmlns: kmlNamespace,
		Folder: kmlFolder{
			Name:        name,
			Description: description,
			Overlay: groundOverlay{
				Name: name + " coverage",
				Icon: kmlIcon{Href: filepath.Base(imagePath)},
				LatLonBox: latLonBox{
					North: bounds.North,
					South: bounds.South,
					East:  bounds.East,
					West:  bounds.West,
				},
			},
			Placemark: kmlPlacemark{
				Name:        name,
				Description: description,
				Point: kmlPoint{
					Coordinates: fmt.Sprintf("%.6f,%.6f,0", lon, lat),
				},
			},
		},
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.KindDescriptorWrite, "marshal descriptor", err)
	}
	content := append([]byte(xml.Header), data...)
	content = append(content, '\n')

	if err := os.WriteFile(path, content, 0644); err != nil {
		return apperrors.Wrapf(apperrors.KindDescriptorWrite, err, "write descriptor %s", path)
	}
	return nil
}
