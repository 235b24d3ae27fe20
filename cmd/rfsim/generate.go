package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chris-casper/RF-Sim/internal/logging"
	"github.com/chris-casper/RF-Sim/internal/params"
	"github.com/chris-casper/RF-Sim/internal/pipeline"
)

var (
	siteFile   string
	engineDir  string
	terrainDir string
	outputDir  string
	archiveKMZ bool
	keepRaster bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a coverage map for a site",
	Long: `Generate runs the full production pipeline for one transmitter site:
parameter resolution, bounds derivation, engine invocation, raster
conversion, and overlay packaging. Site parameters are read from a YAML
file; see the examples directory for the format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := params.LoadRaw(siteFile)
		if err != nil {
			return err
		}
		if keepRaster {
			raw.KeepRaster = true
		}

		pipe := pipeline.New(pipeline.Options{
			EngineDir:  engineDir,
			TerrainDir: terrainDir,
			OutputDir:  outputDir,
		})

		result, err := pipe.Run(cmd.Context(), raw, pipeline.RunOptions{Archive: archiveKMZ})
		if err != nil {
			return err
		}

		logging.Info("coverage map generated",
			zap.String("site", result.Site.Name),
			zap.Duration("duration", result.Duration))
		for _, artifact := range result.Artifacts() {
			fmt.Println(artifact)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&siteFile, "site", "s", "", "site parameter YAML file (required)")
	generateCmd.Flags().StringVar(&engineDir, "engine-dir", "/usr/local/bin", "directory holding the engine binaries")
	generateCmd.Flags().StringVar(&terrainDir, "terrain-dir", "/data/terrain", "terrain data root")
	generateCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "./coverage", "directory for generated artifacts")
	generateCmd.Flags().BoolVar(&archiveKMZ, "kmz", false, "bundle the overlay into a KMZ archive")
	generateCmd.Flags().BoolVar(&keepRaster, "keep-raster", false, "keep the engine's raw raster output")
	generateCmd.MarkFlagRequired("site")
	rootCmd.AddCommand(generateCmd)
}
