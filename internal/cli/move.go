package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/svanholm/plotpin/pkg/session"
)

// moveCommand creates the move command for pinning a label manually.
func (c *CLI) moveCommand() *cobra.Command {
	var (
		project    string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "move <element-id> <x> <y>",
		Short: "Pin a label to a manual position",
		Long: `Pin a label to a manual position.

The position is recorded verbatim in the project file and is never moved by
subsequent layout passes until 'plotpin reset' releases it. A position that
lands outside the current canvas is kept anyway and reported as a warning.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("parse x %q: %w", args[1], err)
			}
			y, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("parse y %q: %w", args[2], err)
			}
			return c.runMove(cmd, args[0], x, y, project, configPath)
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "project file (required)")
	cmd.Flags().StringVar(&configPath, "config", "", "engine config file (TOML)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func (c *CLI) runMove(cmd *cobra.Command, id string, x, y float64, project, configPath string) error {
	eng, proj, err := c.newEngine(configPath, project, true)
	if err != nil {
		return err
	}
	if proj == nil {
		return fmt.Errorf("project %s does not exist; run '%s layout' first", project, appName)
	}

	if err := eng.RecordManualMove(cmd.Context(), id, x, y); err != nil {
		return err
	}

	// Warn on off-canvas positions but keep them: manual intent wins.
	if a, ok := proj.Scene.AnchorByID(id); ok {
		w, h := eng.Config.SizeFor(a.Category)
		half := proj.Scene.Bounds
		if x-w/2 < -half.XRange || x+w/2 > half.XRange || y-h/2 < -half.YRange || y+h/2 > half.YRange {
			printWarning("position (%v, %v) leaves the canvas; kept anyway", x, y)
		}
	} else {
		printWarning("element %q is not an anchor in this project's scene", id)
	}

	proj.Labels = eng.Store.Snapshot()
	if err := session.Save(project, proj); err != nil {
		return fmt.Errorf("save project %s: %w", project, err)
	}

	printSuccess("Pinned %s at (%v, %v)", id, x, y)
	printFile(project)
	return nil
}

// resetCommand creates the reset command for releasing a manual pin.
func (c *CLI) resetCommand() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "reset <element-id>",
		Short: "Release a manual pin back to automatic placement",
		Long: `Release a manual pin back to automatic placement.

The next 'plotpin layout' run recomputes the element's position.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, proj, err := c.newEngine("", project, true)
			if err != nil {
				return err
			}
			if proj == nil {
				return fmt.Errorf("project %s does not exist", project)
			}

			if err := eng.ResetToAuto(cmd.Context(), args[0]); err != nil {
				return err
			}

			proj.Labels = eng.Store.Snapshot()
			if err := session.Save(project, proj); err != nil {
				return fmt.Errorf("save project %s: %w", project, err)
			}

			printSuccess("Released %s", args[0])
			printNextStep("Recompute", fmt.Sprintf("%s layout <scene>", appName))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "project file (required)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
