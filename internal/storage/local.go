package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LocalClient publishes coverage runs to the local file system
type LocalClient struct {
	baseDir string
}

// NewLocalClient creates a local storage client rooted at baseDir
func NewLocalClient(baseDir string) (*LocalClient, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}
	return &LocalClient{baseDir: baseDir}, nil
}

// Close is a no-op for local storage (implements the same interface as GCSClient)
func (l *LocalClient) Close() error {
	return nil
}

// StoreFile writes a run artifact under the run folder for this site and timestamp
func (l *LocalClient) StoreFile(ctx context.Context, data []byte, filename, site string, timestamp time.Time) error {
	filePath := filepath.Join(l.baseDir, filepath.FromSlash(RunFolderPath(site, timestamp)), filename)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(filePath), err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	return nil
}

// GetFile retrieves a stored artifact by its path relative to the storage root
func (l *LocalClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	fullPath := filepath.Join(l.baseDir, filepath.FromSlash(filePath))
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// ListRuns lists published run folders, sorted newest first. A folder
// counts as a run when it contains a KML descriptor.
func (l *LocalClient) ListRuns(ctx context.Context, limit int) ([]string, error) {
	runsPath := filepath.Join(l.baseDir, "runs")

	var runPaths []string
	err := filepath.Walk(runsPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".kml") {
			relPath, _ := filepath.Rel(l.baseDir, filepath.Dir(path))
			runPaths = append(runPaths, filepath.ToSlash(relPath))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk runs directory: %w", err)
	}

	// folder names embed the timestamp, so lexical order is
	// chronological; reverse for newest first
	sort.Sort(sort.Reverse(sort.StringSlice(runPaths)))

	if limit > 0 && limit < len(runPaths) {
		runPaths = runPaths[:limit]
	}
	return runPaths, nil
}

// LatestRun returns the most recent published run folder
func (l *LocalClient) LatestRun(ctx context.Context) (string, error) {
	runs, err := l.ListRuns(ctx, 1)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs found")
	}
	return runs[0], nil
}
