package config

import (
	"context"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENGINE_DIR", "TERRAIN_DIR", "OUTPUT_DIR", "PUBLISH_DIR",
		"GCP_PROJECT_ID", "GCS_BUCKET", "ENVIRONMENT", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8981" {
		t.Errorf("Port = %q, want 8981", cfg.Port)
	}
	if cfg.EngineDir != "/usr/local/bin" {
		t.Errorf("EngineDir = %q", cfg.EngineDir)
	}
	if cfg.TerrainDir != "/data/terrain" {
		t.Errorf("TerrainDir = %q", cfg.TerrainDir)
	}
	if cfg.OutputDir != "./coverage" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.PublishDir != "./published" {
		t.Errorf("PublishDir = %q", cfg.PublishDir)
	}
	if cfg.Environment != "local" {
		t.Errorf("Environment = %q, want local", cfg.Environment)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "console" {
		t.Errorf("logging defaults: %q %q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENGINE_DIR", "/opt/rfengine")
	t.Setenv("TERRAIN_DIR", "/srv/terrain")
	t.Setenv("OUTPUT_DIR", "/srv/coverage")
	t.Setenv("GCS_BUCKET", "coverage-maps")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9000" || cfg.EngineDir != "/opt/rfengine" ||
		cfg.TerrainDir != "/srv/terrain" || cfg.OutputDir != "/srv/coverage" ||
		cfg.GCSBucket != "coverage-maps" || cfg.Environment != "production" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}
