// Package cli implements the plotpin command-line interface.
//
// This package provides commands for computing label layouts from scene
// files, recording and resetting manual label moves, rendering scenes as
// SVG, serving the layout API over HTTP, and managing the layout cache. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute label placements for a scene file
//   - move: Pin a label to a manual position
//   - reset: Release a manual pin back to automatic placement
//   - render: Paint a scene and its placements as SVG
//   - serve: Expose the layout engine over HTTP
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
//
// # Example
//
//	import "github.com/svanholm/plotpin/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli
