package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chris-casper/RF-Sim/internal/leaflet"
)

var (
	leafletInDir     string
	leafletOutDir    string
	leafletSkipFetch bool
	leafletTimeout   time.Duration
)

var leafletCmd = &cobra.Command{
	Use:   "leaflet",
	Short: "Convert KML overlays into Leaflet manifests",
	Long: `Leaflet converts a directory of Google Earth KML coverage overlays
into per-site manifest.json files plus an index.json, downloading the
referenced overlay images so a Leaflet front-end can serve them
directly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conv := leaflet.NewConverter(leafletTimeout)
		conv.SkipDownloads = leafletSkipFetch

		index, err := conv.ConvertDir(cmd.Context(), leafletInDir, leafletOutDir)
		if err != nil {
			return err
		}
		for _, manifest := range index.Manifests {
			fmt.Println(manifest)
		}
		return nil
	},
}

func init() {
	leafletCmd.Flags().StringVarP(&leafletInDir, "in", "i", ".", "directory containing KML files")
	leafletCmd.Flags().StringVarP(&leafletOutDir, "out", "o", "./leaflet", "output directory for manifests")
	leafletCmd.Flags().BoolVar(&leafletSkipFetch, "skip-downloads", false, "write manifests without fetching overlay images")
	leafletCmd.Flags().DurationVar(&leafletTimeout, "timeout", 30*time.Second, "overlay download timeout")
	rootCmd.AddCommand(leafletCmd)
}
