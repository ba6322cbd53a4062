package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	rendersvg "github.com/svanholm/plotpin/pkg/render/svg"
	"github.com/svanholm/plotpin/pkg/scene"
)

// renderCommand creates the render command for painting a scene as SVG.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		configPath string
		project    string
		noCache    bool
		scale      float64
	)

	cmd := &cobra.Command{
		Use:   "render <scene.json|scene.yaml>",
		Short: "Render a scene and its label placements as SVG",
		Long: `Render a scene and its label placements as SVG.

The render command computes (or reuses) the layout for the scene, then paints
the canvas, sector obstacles, anchor markers, measurement lines, and label
boxes. Unresolved labels are drawn with a dashed red border; manually pinned
labels with a purple one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], output, configPath, project, noCache, scale)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <scene>.svg)")
	cmd.Flags().StringVar(&configPath, "config", "", "engine config file (TOML)")
	cmd.Flags().StringVar(&project, "project", "", "project file (default: <scene>.plotpin.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().Float64Var(&scale, "scale", rendersvg.DefaultScale, "pixels per scene unit")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, scenePath, output, configPath, project string, noCache bool, scale float64) error {
	sc, err := scene.ReadSceneFile(scenePath)
	if err != nil {
		return err
	}

	if project == "" {
		project = defaultProjectPath(scenePath)
	}
	eng, _, err := c.newEngine(configPath, project, noCache)
	if err != nil {
		return err
	}
	defer eng.Cache.Close()

	result, err := eng.ComputeLayout(ctx, sc)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(scenePath, filepath.Ext(scenePath))
		outputPath = base + ".svg"
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output %s: %w", outputPath, err)
	}
	defer f.Close()

	renderer := rendersvg.New(scale, eng.Config)
	if err := renderer.Render(f, sc, result.Labels); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	printSuccess("Rendered scene")
	printFile(outputPath)
	printLayoutStats(result.Stats.Placed, result.Stats.Reused, result.Stats.Manual,
		result.Stats.Unresolved, result.Stats.Skipped, result.CacheHit)
	return nil
}
