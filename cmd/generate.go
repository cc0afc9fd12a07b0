package cmd

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/spf13/cobra"
	"github.com/wegman-software/osm2scene-go/internal/export"
	"github.com/wegman-software/osm2scene-go/internal/logger"
	"github.com/wegman-software/osm2scene-go/internal/pipeline"
)

var trueNorthDeg float64

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate scene meshes around an anchor point",
	Long: `Generate the full 3D context scene for a circular region around a geodetic
anchor point:

  1. Fetch buildings, roads and vegetation from Overpass
  2. Assemble rings, extrude footprints, buffer centerlines, place trees
  3. Write one OBJ file per layer (base, buildings, roads, nature)

The three feature pipelines run concurrently; any pipeline failure aborts
the whole run without writing partial output.`,
	Run: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().Float64Var(&cfg.Lat, "lat", cfg.Lat, "Anchor latitude in degrees (required)")
	generateCmd.Flags().Float64Var(&cfg.Lon, "lon", cfg.Lon, "Anchor longitude in degrees (required)")
	generateCmd.Flags().Float64VarP(&cfg.RadiusMeters, "radius", "r", cfg.RadiusMeters, "Region radius in meters (50-1000)")
	generateCmd.Flags().Float64Var(&trueNorthDeg, "true-north", 0, "Project true-north rotation in degrees")
	generateCmd.Flags().StringVarP(&cfg.Units, "units", "u", cfg.Units, "Output length unit (mm, cm, m, km, in, ft, yd, mi)")
	generateCmd.Flags().BoolVar(&cfg.BasePlane, "base-plane", cfg.BasePlane, "Emit the square ground plane")
	generateCmd.Flags().StringVarP(&cfg.StyleFile, "style", "S", "", "Style YAML file (palette, road widths)")
	generateCmd.Flags().Int64Var(&cfg.Seed, "seed", 0, "Vegetation RNG seed (0 = time-based)")
}

func runGenerate(cmd *cobra.Command, args []string) {
	cfg.TrueNorthRad = trueNorthDeg * math.Pi / 180
	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		exitWithError("invalid configuration", err)
	}

	runner, err := pipeline.NewRunner(cfg)
	if err != nil {
		exitWithError("failed to create runner", err)
	}

	result, err := runner.Run(context.Background())
	if err != nil {
		exitWithError("generation failed", err)
	}

	paths, err := export.WriteScene(cfg.OutputDir, result.Layers())
	if err != nil {
		exitWithError("failed to write scene", err)
	}

	log.Info("Scene written",
		zap.Strings("files", paths),
		zap.Duration("duration", result.Duration))

	logger.Sync()
}
