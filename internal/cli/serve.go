package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cablesection/pkg/api"
	"github.com/matzehuels/cablesection/pkg/observability"
)

// serveCommand creates the serve command, which runs the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP generation service",
		Long: `Run the HTTP generation service.

Artifacts are cached with the configured cache backend and stored with the
configured store backend (memory or mongo), so they can be fetched again by
ID. The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := cfg.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := api.New(runner, st, c.Logger)
			if cfg.Server.Timeout > 0 {
				srv.Timeout = cfg.Server.Timeout
			}

			printInfo("Listening on %s", StyleHighlight.Render(cfg.Server.Addr))
			printDetail("cache: %s · store: %s", cfg.Cache.Backend, cfg.Store.Backend)
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}
