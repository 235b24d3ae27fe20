package overlay

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/chris-casper/RF-Sim/internal/errors"
	"github.com/chris-casper/RF-Sim/internal/geo"
)

var testBounds = geo.BoundingBox{
	North: 41.162754,
	South: 39.366134,
	East:  -75.706360,
	West:  -78.060862,
}

func TestWriteDescriptor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Hilltop.kml")

	err := WriteDescriptor(path, "Hilltop", "VHF repeater", testBounds,
		40.264444, -76.883611, filepath.Join(dir, "Hilltop.png"))
	if err != nil {
		t.Fatalf("WriteDescriptor failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("descriptor is not valid XML: %v", err)
	}

	if doc.Folder.Name != "Hilltop" {
		t.Errorf("folder name = %q", doc.Folder.Name)
	}
	// image reference must be relative for a relocatable archive
	if doc.Folder.Overlay.Icon.Href != "Hilltop.png" {
		t.Errorf("icon href = %q, want bare file name", doc.Folder.Overlay.Icon.Href)
	}
	box := doc.Folder.Overlay.LatLonBox
	if box.North != testBounds.North || box.South != testBounds.South ||
		box.East != testBounds.East || box.West != testBounds.West {
		t.Errorf("LatLonBox = %+v", box)
	}
	if doc.Folder.Placemark.Point.Coordinates != "-76.883611,40.264444,0" {
		t.Errorf("marker coordinates = %q", doc.Folder.Placemark.Point.Coordinates)
	}
}

func TestWriteDescriptorFailure(t *testing.T) {
	err := WriteDescriptor(filepath.Join(t.TempDir(), "missing", "x.kml"),
		"X", "", testBounds, 0, 0, "x.png")
	if !apperrors.IsKind(err, apperrors.KindDescriptorWrite) {
		t.Fatalf("error kind = %s, want %s", apperrors.KindOf(err), apperrors.KindDescriptorWrite)
	}
}

func TestPackageArchiveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	kmlPath := filepath.Join(dir, "Hilltop.kml")
	pngPath := filepath.Join(dir, "Hilltop.png")
	kmzPath := filepath.Join(dir, "Hilltop.kmz")

	kmlContent := []byte("<kml>descriptor body</kml>")
	pngContent := []byte{0x89, 'P', 'N', 'G', 1, 2, 3, 4}
	if err := os.WriteFile(kmlPath, kmlContent, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pngPath, pngContent, 0644); err != nil {
		t.Fatal(err)
	}

	if err := PackageArchive(kmzPath, kmlPath, pngPath); err != nil {
		t.Fatalf("PackageArchive failed: %v", err)
	}

	zr, err := zip.OpenReader(kmzPath)
	if err != nil {
		t.Fatalf("archive unreadable: %v", err)
	}
	defer zr.Close()

	if len(zr.File) != 2 {
		t.Fatalf("archive holds %d entries, want exactly 2", len(zr.File))
	}

	got := map[string][]byte{}
	for _, f := range zr.File {
		if strings.Contains(f.Name, "/") {
			t.Errorf("entry %q carries a path prefix", f.Name)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		got[f.Name] = data
	}

	if !bytes.Equal(got["Hilltop.kml"], kmlContent) {
		t.Error("descriptor content altered by packaging")
	}
	if !bytes.Equal(got["Hilltop.png"], pngContent) {
		t.Error("image content altered by packaging")
	}
}

func TestPackageArchiveMissingInput(t *testing.T) {
	dir := t.TempDir()
	kmzPath := filepath.Join(dir, "site.kmz")

	err := PackageArchive(kmzPath, filepath.Join(dir, "absent.kml"), filepath.Join(dir, "absent.png"))
	if !apperrors.IsKind(err, apperrors.KindPackaging) {
		t.Fatalf("error kind = %s, want %s", apperrors.KindOf(err), apperrors.KindPackaging)
	}
	if _, statErr := os.Stat(kmzPath); !os.IsNotExist(statErr) {
		t.Error("failed packaging must not leave a partial archive")
	}
}
