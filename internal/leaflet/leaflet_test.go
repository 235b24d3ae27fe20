package leaflet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const cloudRFKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://earth.google.com/kml/2.2">
  <Folder>
    <name>BERA folder</name>
    <GroundOverlay>
      <name>Coverage</name>
      <Icon><href>%s/overlays/bera.png</href></Icon>
      <LatLonBox>
        <north>41.162754</north>
        <south>39.366134</south>
        <east>-75.706360</east>
        <west>-78.060862</west>
        <rotation>0.0</rotation>
      </LatLonBox>
    </GroundOverlay>
    <Placemark>
      <name>placemark name</name>
      <description><![CDATA[<div><textarea readonly>{"nam":"BERA","frq":145.39}</textarea></div>]]></description>
      <Point><coordinates>-76.883611,40.264444,0</coordinates></Point>
    </Placemark>
  </Folder>
</kml>
`

func writeKML(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BERA", "BERA"},
		{"Two Words", "Two_Words"},
		{"weird/..\\chars!", "weird_.._chars_"},
		{"  ", "site"},
		{"ok-name_1.2", "ok-name_1.2"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseKML(t *testing.T) {
	path := writeKML(t, t.TempDir(), "bera.kml", formatKML("http://example.com"))

	site, err := ParseKML(path)
	if err != nil {
		t.Fatalf("ParseKML failed: %v", err)
	}

	// the CloudRF "nam" field beats the placemark and folder names
	if site.SiteName != "BERA" {
		t.Errorf("SiteName = %q, want BERA", site.SiteName)
	}
	if site.Lat != 40.264444 || site.Lon != -76.883611 {
		t.Errorf("coordinates = %.6f, %.6f", site.Lat, site.Lon)
	}
	if len(site.Overlays) != 1 {
		t.Fatalf("overlays = %d, want 1", len(site.Overlays))
	}
	ov := site.Overlays[0]
	if ov.Bounds != [2][2]float64{{39.366134, -78.060862}, {41.162754, -75.706360}} {
		t.Errorf("bounds = %v", ov.Bounds)
	}
	if ov.Rotation == nil || *ov.Rotation != 0 {
		t.Errorf("rotation = %v", ov.Rotation)
	}
}

func TestParseKMLNoPlacemark(t *testing.T) {
	dir := t.TempDir()
	path := writeKML(t, dir, "empty.kml",
		`<kml xmlns="http://earth.google.com/kml/2.2"><Folder><name>x</name></Folder></kml>`)

	if _, err := ParseKML(path); err == nil {
		t.Fatal("ParseKML should fail without a Placemark")
	}
}

func formatKML(baseURL string) string {
	return fmt.Sprintf(cloudRFKML, baseURL)
}

func TestConvertDir(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0, 1, 2, 3}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/overlays/bera.png" {
			w.Write(png)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	inDir := t.TempDir()
	outDir := t.TempDir()
	writeKML(t, inDir, "bera.kml", formatKML(srv.URL))

	conv := NewConverter(10 * time.Second)
	index, err := conv.ConvertDir(context.Background(), inDir, outDir)
	if err != nil {
		t.Fatalf("ConvertDir failed: %v", err)
	}

	if len(index.Manifests) != 1 || index.Manifests[0] != "potential/BERA/manifest.json" {
		t.Errorf("index manifests = %v", index.Manifests)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "BERA", "manifest.json"))
	if err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("manifest unreadable: %v", err)
	}
	if manifest.Site.Name != "BERA" || manifest.Site.AntennaAGLM != 10.0 {
		t.Errorf("site = %+v", manifest.Site)
	}
	if len(manifest.Overlays) != 1 {
		t.Fatalf("overlays = %d", len(manifest.Overlays))
	}
	ov := manifest.Overlays[0]
	if !ov.DownloadOK || ov.Image == nil || *ov.Image != "/potential/BERA/overlays/bera.png" {
		t.Errorf("overlay entry = %+v", ov)
	}

	img, err := os.ReadFile(filepath.Join(outDir, "BERA", "overlays", "bera.png"))
	if err != nil {
		t.Fatalf("downloaded image missing: %v", err)
	}
	if string(img) != string(png) {
		t.Error("downloaded image content altered")
	}

	if _, err := os.Stat(filepath.Join(outDir, "index.json")); err != nil {
		t.Errorf("index.json missing: %v", err)
	}
}

func TestConvertDirDownloadFailureIsRecorded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	inDir := t.TempDir()
	writeKML(t, inDir, "bera.kml", formatKML(srv.URL))

	conv := NewConverter(10 * time.Second)
	conv.client.SetRetryCount(0)
	_, err := conv.ConvertDir(context.Background(), inDir, t.TempDir())
	if err != nil {
		t.Fatalf("a failed download must not fail the conversion: %v", err)
	}
}

func TestConvertDirSkipDownloads(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeKML(t, inDir, "bera.kml", formatKML("http://127.0.0.1:1/unreachable"))

	conv := NewConverter(time.Second)
	conv.SkipDownloads = true
	if _, err := conv.ConvertDir(context.Background(), inDir, outDir); err != nil {
		t.Fatalf("ConvertDir failed: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(outDir, "BERA", "manifest.json"))
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatal(err)
	}
	ov := manifest.Overlays[0]
	if ov.DownloadOK {
		t.Error("DownloadOK should be false when downloads are skipped")
	}
	if ov.Image == nil {
		t.Error("image reference should still be present")
	}
	if _, err := os.Stat(filepath.Join(outDir, "BERA", "overlays")); !os.IsNotExist(err) {
		t.Error("no overlay files should be written when downloads are skipped")
	}
}

func TestConvertDirEmptyInput(t *testing.T) {
	conv := NewConverter(time.Second)
	if _, err := conv.ConvertDir(context.Background(), t.TempDir(), t.TempDir()); err == nil {
		t.Fatal("ConvertDir should fail when no KML files exist")
	}
}
