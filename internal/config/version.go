package config

import (
	"os"
)

// Version is the build version, overridable at link time:
//
//	go build -ldflags "-X github.com/chris-casper/RF-Sim/internal/config.Version=1.2.0"
var Version = "0.1.0"

// GetVersion returns the version set by CI through APP_VERSION, falling
// back to the link-time value.
func GetVersion() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}
	return Version
}
