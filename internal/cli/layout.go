package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/svanholm/plotpin/pkg/scene"
	"github.com/svanholm/plotpin/pkg/session"
)

// layoutCommand creates the layout command for computing label placements.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		configPath string
		project    string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "layout <scene.json|scene.yaml>",
		Short: "Compute label placements for a scene",
		Long: `Compute label placements for a scene.

The layout command reads a scene file (anchors, sector obstacles, canvas
bounds) and computes a collision-free label position for every anchor. The
results are written as JSON and the committed placements are saved to a
project file, so subsequent runs are incremental: unchanged anchors keep
their positions and manual pins survive.

Results are cached locally for faster repeated runs over unchanged scenes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, configPath, project, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <scene>.labels.json)")
	cmd.Flags().StringVar(&configPath, "config", "", "engine config file (TOML)")
	cmd.Flags().StringVar(&project, "project", "", "project file (default: <scene>.plotpin.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

// runLayout loads the scene and project, computes the layout, and writes the
// results and the updated project file.
func (c *CLI) runLayout(ctx context.Context, scenePath, output, configPath, project string, noCache bool) error {
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

	prog := newProgress(c.Logger)
	result, err := eng.ComputeLayout(ctx, sc)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	prog.done(fmt.Sprintf("Placed %d labels", len(result.Labels)))

	name := strings.TrimSuffix(filepath.Base(scenePath), filepath.Ext(scenePath))
	if err := session.Save(project, session.Snapshot(name, sc, eng.Store)); err != nil {
		return fmt.Errorf("save project %s: %w", project, err)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(scenePath, filepath.Ext(scenePath))
		outputPath = base + ".labels.json"
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printFile(project)
	printLayoutStats(result.Stats.Placed, result.Stats.Reused, result.Stats.Manual,
		result.Stats.Unresolved, result.Stats.Skipped, result.CacheHit)

	if len(result.Skipped) > 0 {
		ids := make([]string, 0, len(result.Skipped))
		for id := range result.Skipped {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			printWarning("skipped %s: %s", id, result.Skipped[id])
		}
	}

	printNewline()
	printNextStep("Render", fmt.Sprintf("%s render %s", appName, scenePath))
	return nil
}
