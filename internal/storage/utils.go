package storage

import (
	"fmt"
	"strings"
	"time"
)

// RunFolderPath generates a consistent folder path for published runs.
// Format: runs/<site>/YYYY/MM/DD/CoverageRun-YYYY-MM-DD-HH-MM-SS
func RunFolderPath(site string, timestamp time.Time) string {
	return fmt.Sprintf("runs/%s/%04d/%02d/%02d/CoverageRun-%04d-%02d-%02d-%02d-%02d-%02d",
		site,
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Hour(), timestamp.Minute(), timestamp.Second())
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "application/json"
	} else if strings.HasSuffix(filename, ".txt") || strings.HasSuffix(filename, ".dcf") {
		return "text/plain"
	} else if strings.HasSuffix(filename, ".html") {
		return "text/html"
	} else if strings.HasSuffix(filename, ".kml") {
		return "application/vnd.google-earth.kml+xml"
	} else if strings.HasSuffix(filename, ".kmz") {
		return "application/vnd.google-earth.kmz"
	} else if strings.HasSuffix(filename, ".png") {
		return "image/png"
	} else if strings.HasSuffix(filename, ".ppm") {
		return "image/x-portable-pixmap"
	} else if strings.HasSuffix(filename, ".jpg") || strings.HasSuffix(filename, ".jpeg") {
		return "image/jpeg"
	} else {
		return "application/octet-stream"
	}
}
