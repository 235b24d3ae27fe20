package main

import (
	"github.com/spf13/cobra"

	"github.com/chris-casper/RF-Sim/internal/logging"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "rfsim",
	Short: "RF coverage map generator",
	Long: `rfsim produces georeferenced RF coverage overlays by driving a
terrain-aware propagation engine and packaging its raster output for
Google Earth and Leaflet front-ends.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logging.Config{
			Level:  logLevel,
			Format: logFormat,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
}
