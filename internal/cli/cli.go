package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/svanholm/plotpin/pkg/buildinfo"
	"github.com/svanholm/plotpin/pkg/cache"
	"github.com/svanholm/plotpin/pkg/config"
	"github.com/svanholm/plotpin/pkg/engine"
	"github.com/svanholm/plotpin/pkg/session"
	"github.com/svanholm/plotpin/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "plotpin"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Plotpin places collision-free labels on annotated 2D scenes",
		Long:         `Plotpin is a deterministic label placement engine: given anchors, sector obstacles, and canvas bounds it computes a collision-free label position for every anchor, keeps manual moves pinned, and reuses committed positions while their surroundings are unchanged.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.resetCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Engine Factory
// =============================================================================

// newEngine builds an engine for CLI use: config from the given path, an
// optional project file restored into the store, and the file-based layout
// cache unless disabled.
func (c *CLI) newEngine(configPath, projectPath string, noCache bool) (*engine.Engine, *session.Project, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	st := store.New()
	var proj *session.Project
	if projectPath != "" {
		proj, err = session.Load(projectPath)
		if err != nil {
			return nil, nil, err
		}
		if proj != nil {
			proj.Apply(st)
			c.Logger.Debug("restored project", "path", projectPath, "labels", st.Len())
		}
	}

	layoutCache, err := newCache(noCache)
	if err != nil {
		return nil, nil, err
	}

	return engine.New(cfg, st, layoutCache, nil, c.Logger), proj, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/plotpin/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// defaultProjectPath derives the project file path from a scene file path.
func defaultProjectPath(scenePath string) string {
	base := scenePath[:len(scenePath)-len(filepath.Ext(scenePath))]
	return base + ".plotpin.json"
}
