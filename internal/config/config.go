package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the coverage map service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8981"`

	// Engine configuration
	EngineDir  string `env:"ENGINE_DIR,default=/usr/local/bin"`
	TerrainDir string `env:"TERRAIN_DIR,default=/data/terrain"`

	// Output configuration
	OutputDir  string `env:"OUTPUT_DIR,default=./coverage"`
	PublishDir string `env:"PUBLISH_DIR,default=./published"`

	// GCP configuration (optional for local deployments)
	GCPProjectID string `env:"GCP_PROJECT_ID"`
	GCSBucket    string `env:"GCS_BUCKET"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=local"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=console"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}
