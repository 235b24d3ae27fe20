package storage

import (
	"context"
	"fmt"

	"github.com/chris-casper/RF-Sim/internal/config"
)

// NewClient creates a storage client for the configured environment.
// Local deployments publish under cfg.PublishDir; production deployments
// publish to the configured GCS bucket.
func NewClient(ctx context.Context, cfg *config.Config) (Client, error) {
	switch cfg.Environment {
	case "local", "":
		publishDir := cfg.PublishDir
		if publishDir == "" {
			publishDir = "published"
		}
		client, err := NewLocalClient(publishDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return client, nil

	case "production", "gcs":
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("GCS_BUCKET is required when ENVIRONMENT=%s", cfg.Environment)
		}
		client, err := NewGCSClient(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unsupported environment: %s", cfg.Environment)
	}
}
