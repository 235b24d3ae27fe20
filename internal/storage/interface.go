package storage

import (
	"context"
	"time"
)

// Client is the backend that published coverage runs are written to.
// Implementations exist for the local filesystem and for GCS.
type Client interface {
	// Close closes the storage client
	Close() error

	// StoreFile writes one run artifact into the folder derived from
	// the site name and run timestamp
	StoreFile(ctx context.Context, data []byte, filename, site string, timestamp time.Time) error

	// GetFile retrieves a stored artifact by its path relative to the
	// storage root
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// ListRuns lists published run folders, newest first
	ListRuns(ctx context.Context, limit int) ([]string, error)

	// LatestRun returns the most recent published run folder
	LatestRun(ctx context.Context) (string, error)
}
