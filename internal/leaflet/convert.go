package leaflet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/chris-casper/RF-Sim/internal/logging"
)

// manifestBase is the path prefix baked into generated image and
// manifest references, matching the layout the front-end serves from.
const manifestBase = "potential"

// Converter turns a directory of KML files into per-site Leaflet
// manifests plus a top-level index.
type Converter struct {
	client *resty.Client

	// SkipDownloads writes manifests without fetching overlay images
	SkipDownloads bool
}

// NewConverter creates a converter with the given download timeout
func NewConverter(timeout time.Duration) *Converter {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(2 * time.Second)
	return &Converter{client: client}
}

// ConvertDir processes every .kml file in inDir and writes the manifest
// tree under outDir. A KML that fails to parse or an overlay image that
// fails to download is recorded and skipped; the conversion itself only
// fails when nothing can be written.
func (c *Converter) ConvertDir(ctx context.Context, inDir, outDir string) (*Index, error) {
	matches, err := filepath.Glob(filepath.Join(inDir, "*.kml"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", inDir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no KML files found in %s", inDir)
	}
	sort.Strings(matches)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	index := &Index{Manifests: []string{}}
	for _, kmlPath := range matches {
		site, err := ParseKML(kmlPath)
		if err != nil {
			logging.Warn("skipping unparseable KML", zap.String("file", kmlPath), zap.Error(err))
			continue
		}

		if err := c.convertSite(ctx, site, kmlPath, outDir); err != nil {
			logging.Warn("skipping site", zap.String("site", site.SiteName), zap.Error(err))
			continue
		}
		index.Manifests = append(index.Manifests,
			path.Join(manifestBase, Slugify(site.SiteName), "manifest.json"))
	}

	indexData, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal index: %w", err)
	}
	indexPath := filepath.Join(outDir, "index.json")
	if err := os.WriteFile(indexPath, append(indexData, '\n'), 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", indexPath, err)
	}
	return index, nil
}

func (c *Converter) convertSite(ctx context.Context, site *SiteKML, kmlPath, outDir string) error {
	slug := Slugify(site.SiteName)
	siteDir := filepath.Join(outDir, slug)
	overlaysDir := filepath.Join(siteDir, "overlays")
	if err := os.MkdirAll(siteDir, 0755); err != nil {
		return err
	}

	manifest := Manifest{
		Site: SiteInfo{
			Name:           site.SiteName,
			Lat:            site.Lat,
			Lon:            site.Lon,
			AntennaAGLM:    10.0,
			AntennaAGLNote: "assumed, not present in KML",
			FolderName:     site.FolderName,
			PlacemarkName:  site.PlacemarkName,
			SourceKML:      filepath.Base(kmlPath),
		},
		Overlays: []OverlayEntry{},
	}

	for i, ov := range site.Overlays {
		entry := OverlayEntry{
			// the front-end labels layers by site, not by the KML's
			// internal overlay name
			Name:      site.SiteName,
			SourceURL: ov.Href,
			Bounds:    ov.Bounds,
			Rotation:  ov.Rotation,
		}

		fname := fileNameFromURL(ov.Href, fmt.Sprintf("overlay_%d.png", i+1))
		imageRef := fmt.Sprintf("/%s/%s/overlays/%s", manifestBase, slug, fname)

		if c.SkipDownloads {
			entry.Image = &imageRef
			entry.Error = strPtr("downloads skipped")
			manifest.Overlays = append(manifest.Overlays, entry)
			continue
		}

		status, err := c.download(ctx, ov.Href, filepath.Join(overlaysDir, fname))
		if status != 0 {
			entry.HTTPStatus = &status
		}
		if err != nil {
			entry.Error = strPtr(err.Error())
			logging.Warn("overlay download failed",
				zap.String("url", ov.Href), zap.Error(err))
		} else {
			entry.DownloadOK = true
			entry.Image = &imageRef
		}
		manifest.Overlays = append(manifest.Overlays, entry)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(siteDir, "manifest.json")
	if err := os.WriteFile(manifestPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", manifestPath, err)
	}
	logging.Info("manifest written", zap.String("path", manifestPath))
	return nil
}

// download fetches a single overlay image. Non-2xx responses and network
// errors are reported to the caller, never raised as a fatal failure.
func (c *Converter) download(ctx context.Context, rawURL, dest string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, err
	}

	resp, err := c.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return 0, err
	}
	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return status, fmt.Errorf("HTTP %d", status)
	}
	if err := os.WriteFile(dest, resp.Body(), 0644); err != nil {
		return status, err
	}
	return status, nil
}

func fileNameFromURL(rawURL, fallback string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" || !strings.Contains(name, ".") {
		return fallback
	}
	return name
}

func strPtr(s string) *string { return &s }
