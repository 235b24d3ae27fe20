package config

import (
	"testing"
)

func TestGetVersionFromEnv(t *testing.T) {
	t.Setenv("APP_VERSION", "9.9.9")
	if got := GetVersion(); got != "9.9.9" {
		t.Errorf("GetVersion() = %q, want 9.9.9", got)
	}
}

func TestGetVersionFallback(t *testing.T) {
	t.Setenv("APP_VERSION", "")
	if got := GetVersion(); got != Version {
		t.Errorf("GetVersion() = %q, want %q", got, Version)
	}
}
