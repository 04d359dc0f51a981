package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/leapdb/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storage root over TCP and HTTP",
		Long: `Start a server that accepts statements on a line protocol and, when
--http-listen is set, over HTTP at POST /query.

Each TCP connection gets its own session. HTTP clients keep a session by
sending the X-Session-ID header returned with the first response.`,
		Example: `  # Serve on the default address
  leapdb serve

  # Serve TCP and HTTP
  leapdb serve --listen :7070 --http-listen :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Config{
				Engine:          cc.Engine,
				Listen:          cc.Cfg.Listen,
				HTTPListen:      cc.Cfg.HTTPListen,
				ShutdownTimeout: cc.Cfg.ShutdownTimeout,
				Logger:          cc.Logger,
			})
			if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			cc.Logger.Info("server stopped", "cause", context.Cause(ctx))
			return nil
		},
	}

	return cmd
}
