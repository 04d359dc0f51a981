package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/leapstack-labs/leapdb/internal/server"
	"github.com/spf13/cobra"
)

// NewClientCommand creates the client command.
func NewClientCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "client",
		Short: "Connect an interactive session to a running server",
		Long: `Connect to a leapdb server over its line protocol. Each statement is sent
on one line and the server answers with [OK] or [ERROR] text.`,
		Example: `  # Connect to the configured listen address
  leapdb client

  # Connect to another host
  leapdb client --addr db.internal:7070`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContextWithoutEngine(cmd)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cc.Cfg.Listen
			}

			c, err := server.Dial(cmd.Context(), addr)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			cc.Logger.Debug("connected", "addr", addr)
			banner := fmt.Sprintf("LeapDB client (server: %s)", addr)
			return newREPL(&remoteBackend{client: c, addr: addr}, cmd.OutOrStdout(), cmd.ErrOrStderr()).
				run(cmd.Context(), banner, cc.Cfg.HistoryFile)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Server address (defaults to the listen setting)")

	return cmd
}

// remoteBackend sends statements to a server.
type remoteBackend struct {
	client *server.Client
	addr   string
}

func (b *remoteBackend) Exec(_ context.Context, stmt string) (string, error) {
	return b.client.Exec(stmt)
}

func (b *remoteBackend) Prompt() string {
	return "leapdb@" + b.addr + "> "
}

func (b *remoteBackend) Dot(io.Writer, string, []string) (bool, error) {
	return false, nil
}

func (b *remoteBackend) Words() []string {
	return nil
}
