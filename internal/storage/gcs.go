package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/chris-casper/RF-Sim/internal/logging"
)

// GCSClient publishes coverage runs to a Google Cloud Storage bucket
type GCSClient struct {
	client *storage.Client
	bucket string
}

// NewGCSClient creates a new GCS client
func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSClient{client: client, bucket: bucketName}, nil
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// StoreFile uploads a run artifact into the run folder for this site and timestamp
func (g *GCSClient) StoreFile(ctx context.Context, data []byte, filename, site string, timestamp time.Time) error {
	objectPath := RunFolderPath(site, timestamp) + "/" + filename

	logging.Debug("storing file to GCS",
		zap.String("bucket", g.bucket), zap.String("object", objectPath))

	obj := g.client.Bucket(g.bucket).Object(objectPath)
	writer := obj.NewWriter(ctx)
	writer.ContentType = GetContentType(filename)
	writer.CacheControl = "public, max-age=3600"
	writer.Metadata = map[string]string{
		"site":         site,
		"generated-at": timestamp.Format(time.RFC3339),
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write file to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS upload: %w", err)
	}
	return nil
}

// GetFile retrieves a stored artifact from the bucket
func (g *GCSClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	obj := g.client.Bucket(g.bucket).Object(filePath)

	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for %s: %w", filePath, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return data, nil
}

// ListRuns lists published run folders in the bucket, newest first
func (g *GCSClient) ListRuns(ctx context.Context, limit int) ([]string, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{Prefix: "runs/"})

	var runPaths []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		if strings.HasSuffix(attrs.Name, ".kml") {
			runPaths = append(runPaths, path.Dir(attrs.Name))
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(runPaths)))

	if limit > 0 && limit < len(runPaths) {
		runPaths = runPaths[:limit]
	}
	return runPaths, nil
}

// LatestRun returns the most recent published run folder
func (g *GCSClient) LatestRun(ctx context.Context) (string, error) {
	runs, err := g.ListRuns(ctx, 1)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs found")
	}
	return runs[0], nil
}
