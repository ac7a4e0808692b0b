package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ender-js/ender-package/pkg/server"
	"github.com/ender-js/ender-package/pkg/watch"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		watching bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve walks over a read-only HTTP API",
		Long: `Serve /walk, /tree and /sources for packages under the working
directory. With --watch, changed packages are reloaded on the next request.`,
		Example: `  ender-package serve --addr :1337
  curl 'localhost:1337/walk?name=bonzo&unique=true'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Serve.Addr
			}

			logger := loggerFromContext(cmd.Context())
			w := c.newWalker()
			srv := server.New(w,
				server.WithLogger(logger),
				server.WithWalkDefaults(walkDefaults(c.Config)),
			)

			g, ctx := errgroup.WithContext(cmd.Context())
			if watching {
				watcher, err := watch.New(watch.Config{
					Cache:    w.Locator().Cache(),
					Roots:    []string{w.Locator().Dir()},
					Ignore:   c.Config.Watch.Ignore,
					Debounce: c.Config.Watch.Debounce,
					Logger:   logger,
					OnChange: func(_ context.Context, roots []string) error {
						logger.Info("reloaded", "roots", len(roots))
						return nil
					},
				})
				if err != nil {
					return err
				}
				g.Go(func() error { return watcher.Run(ctx) })
			}
			g.Go(func() error { return srv.ListenAndServe(ctx, addr) })
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:1337)")
	cmd.Flags().BoolVarP(&watching, "watch", "w", false, "reload packages when their files change")
	return cmd
}
