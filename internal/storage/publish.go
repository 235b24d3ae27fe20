package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/chris-casper/RF-Sim/internal/logging"
	"github.com/chris-casper/RF-Sim/internal/pipeline"
)

// PublishRun copies every artifact of a completed run into storage and
// returns the run folder they were published under.
func PublishRun(ctx context.Context, client Client, result *pipeline.Result, timestamp time.Time) (string, error) {
	site := result.Site.Name
	folder := RunFolderPath(site, timestamp)

	for _, artifactPath := range result.Artifacts() {
		data, err := os.ReadFile(artifactPath)
		if err != nil {
			return "", fmt.Errorf("failed to read artifact %s: %w", artifactPath, err)
		}
		filename := filepath.Base(artifactPath)
		if err := client.StoreFile(ctx, data, filename, site, timestamp); err != nil {
			return "", fmt.Errorf("failed to publish %s: %w", filename, err)
		}
	}

	logging.Info("run published",
		zap.String("site", site),
		zap.String("folder", folder),
		zap.Int("artifacts", len(result.Artifacts())))
	return folder, nil
}
