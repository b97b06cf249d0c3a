package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eringen/ogsite"
	"github.com/eringen/ogsite/views"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the blog, feeds and preview cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app := ogsite.New(c.settings, views.Default(),
				ogsite.WithLogger(c.logger),
				ogsite.WithWatch(watch),
			)
			if addr != "" {
				app.Config.Addr = addr
			}
			defer app.Close()
			return app.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr or :3000)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload posts when content files change")
	return cmd
}
