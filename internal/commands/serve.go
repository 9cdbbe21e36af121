package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-graphview/internal/server"
)

func (a *app) serveCommand() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered pages over HTTP",
		Long: `Serve renders every node below the link prefix on request, e.g.
GET /person/ada?renderer=text. It also exposes /healthz, /metrics and the
bundled stylesheet under /assets.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer a.release()

			v, err := a.newViewer(viewerSetup{})
			if err != nil {
				return err
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(v, a.cfg.Server,
				server.WithLogger(a.logger),
				server.WithStartID(start),
			)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().String("host", "", "listen host")
	cmd.Flags().Int("port", 0, "listen port")
	cmd.Flags().StringVar(&start, "start", "", "node the root path redirects to")
	return cmd
}
