package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svanholm/plotpin/internal/server"
	"github.com/svanholm/plotpin/pkg/cache"
	"github.com/svanholm/plotpin/pkg/config"
	"github.com/svanholm/plotpin/pkg/engine"
)

// serveCommand creates the serve command for the HTTP layout API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
		redisAddr  string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout engine over HTTP",
		Long: `Serve the layout engine over HTTP.

POST /v1/layout accepts {"scene": {...}} and returns the computed label
placements. The server is stateless: manual pins and project files stay with
the client. With --redis, several plotpin instances share one layout cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			layoutCache, err := c.newServeCache(cmd, redisAddr, noCache)
			if err != nil {
				return err
			}
			defer layoutCache.Close()

			eng := engine.New(cfg, nil, layoutCache, nil, c.Logger)
			srv := server.New(eng, c.Logger)

			printInfo("Serving layout API on %s", addr)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&configPath, "config", "", "engine config file (TOML)")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for a shared layout cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

func (c *CLI) newServeCache(cmd *cobra.Command, redisAddr string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		rc, err := cache.NewRedisCache(cmd.Context(), redisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", redisAddr, err)
		}
		return rc, nil
	}
	return newCache(false)
}
