package commands

import (
	"log/slog"

	"github.com/leapstack-labs/leapdb/internal/cli/config"
	"github.com/leapstack-labs/leapdb/internal/engine"
	"github.com/leapstack-labs/leapdb/internal/result"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Engine *engine.Engine
	Format result.Format
}

// NewCommandContext creates a CommandContext with an engine over the
// configured storage root.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cc, err := NewCommandContextWithoutEngine(cmd)
	if err != nil {
		return nil, err
	}

	eng, err := createEngine(cc.Cfg, cc.Logger)
	if err != nil {
		return nil, err
	}
	cc.Engine = eng
	return cc, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that talk to a remote server.
func NewCommandContextWithoutEngine(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	format, err := result.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}
	return &CommandContext{
		Cfg:    cfg,
		Logger: config.GetLogger(cmd.Context()),
		Format: format,
	}, nil
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	return engine.New(engine.Config{
		Root:         cfg.StorageRoot,
		Extension:    cfg.TableExt,
		AtomicWrites: cfg.AtomicWrites,
		Logger:       logger,
	})
}
