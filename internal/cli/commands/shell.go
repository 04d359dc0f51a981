package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/leapstack-labs/leapdb/internal/engine"
	"github.com/leapstack-labs/leapdb/internal/result"
	"github.com/leapstack-labs/leapdb/internal/storage"
	"github.com/spf13/cobra"
)

// NewShellCommand creates the shell command.
func NewShellCommand() *cobra.Command {
	var useDB string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session on the local storage root",
		Long: `Start an interactive session that executes statements directly against
the storage root. Statements end with a semicolon and may span lines.

Dot-commands:
  .help, .databases, .tables [db], .quit`,
		Example: `  # Open a shell on the default storage root
  leapdb shell

  # Select a database on startup
  leapdb shell --use shop`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			backend, err := newLocalBackend(cmd.Context(), cc.Engine, cc.Format, useDB)
			if err != nil {
				return err
			}
			defer cc.Engine.CloseSession(backend.session)

			banner := fmt.Sprintf("LeapDB shell (root: %s)", cc.Cfg.StorageRoot)
			return newREPL(backend, cmd.OutOrStdout(), cmd.ErrOrStderr()).
				run(cmd.Context(), banner, cc.Cfg.HistoryFile)
		},
	}

	cmd.Flags().StringVar(&useDB, "use", "", "Database to select on startup")

	return cmd
}

// localBackend executes statements in-process.
type localBackend struct {
	engine  *engine.Engine
	session *engine.Session
	format  result.Format
}

func newLocalBackend(ctx context.Context, eng *engine.Engine, format result.Format, useDB string) (*localBackend, error) {
	b := &localBackend{engine: eng, session: eng.NewSession(), format: format}
	if err := selectDatabase(ctx, eng, b.session, useDB); err != nil {
		eng.CloseSession(b.session)
		return nil, err
	}
	return b, nil
}

// selectDatabase runs USE for name when it is not empty.
func selectDatabase(ctx context.Context, eng *engine.Engine, s *engine.Session, name string) error {
	if name == "" {
		return nil
	}
	resp := eng.Execute(ctx, s, "USE "+name+";")
	if !resp.OK() {
		return resp.Err
	}
	return nil
}

func (b *localBackend) Exec(ctx context.Context, stmt string) (string, error) {
	var buf bytes.Buffer
	if err := writeResponse(&buf, b.engine.Execute(ctx, b.session, stmt), b.format); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (b *localBackend) Prompt() string {
	if db := b.session.Database(); db != "" {
		return "leapdb[" + db + "]> "
	}
	return "leapdb> "
}

func (b *localBackend) Dot(w io.Writer, name string, args []string) (bool, error) {
	switch name {
	case ".databases":
		return true, b.engine.View(func(c *storage.Catalog) error {
			for _, d := range c.Databases() {
				_, _ = fmt.Fprintln(w, d.Name)
			}
			return nil
		})
	case ".tables":
		db := b.session.Database()
		if len(args) > 0 {
			db = args[0]
		}
		if db == "" {
			return true, engine.ErrNoDatabase
		}
		return true, b.engine.View(func(c *storage.Catalog) error {
			d, err := c.Database(db)
			if err != nil {
				return err
			}
			for _, t := range d.Tables() {
				_, _ = fmt.Fprintln(w, t.Name)
			}
			return nil
		})
	}
	return false, nil
}

// Words returns the table names of the selected database.
func (b *localBackend) Words() []string {
	db := b.session.Database()
	if db == "" {
		return nil
	}
	var names []string
	err := b.engine.View(func(c *storage.Catalog) error {
		d, err := c.Database(db)
		if err != nil {
			return err
		}
		for _, t := range d.Tables() {
			names = append(names, t.Name)
		}
		return nil
	})
	if err != nil {
		return nil
	}
	return names
}
