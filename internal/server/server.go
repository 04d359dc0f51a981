// Package server exposes an engine over a line-oriented TCP protocol and
// over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/leapstack-labs/leapdb/internal/engine"
	"golang.org/x/sync/errgroup"
)

// DefaultShutdownTimeout bounds graceful shutdown when none is configured.
const DefaultShutdownTimeout = 5 * time.Second

// Server serves one engine to many clients. Statements from all clients are
// serialized by the engine.
type Server struct {
	engine          *engine.Engine
	listen          string
	httpListen      string
	shutdownTimeout time.Duration
	logger          *slog.Logger

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

// Config holds configuration for the server.
type Config struct {
	Engine *engine.Engine
	// Listen is the TCP address of the line protocol.
	Listen string
	// HTTPListen is the HTTP address; empty disables HTTP.
	HTTPListen      string
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// New creates a server instance.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	return &Server{
		engine:          cfg.Engine,
		listen:          cfg.Listen,
		httpListen:      cfg.HTTPListen,
		shutdownTimeout: timeout,
		logger:          logger,
		conns:           make(map[net.Conn]struct{}),
	}
}

// Serve listens on the configured addresses and blocks until ctx is
// cancelled or a listener fails.
func (s *Server) Serve(ctx context.Context) error {
	var lc net.ListenConfig
	tcpLn, err := lc.Listen(ctx, "tcp", s.listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.listen, err)
	}

	var httpLn net.Listener
	if s.httpListen != "" {
		httpLn, err = lc.Listen(ctx, "tcp", s.httpListen)
		if err != nil {
			_ = tcpLn.Close()
			return fmt.Errorf("failed to listen on %s: %w", s.httpListen, err)
		}
	}
	return s.ServeListeners(ctx, tcpLn, httpLn)
}

// ServeListeners serves the line protocol on tcpLn and, when httpLn is not
// nil, HTTP on httpLn. Both listeners are closed on return.
func (s *Server) ServeListeners(ctx context.Context, tcpLn, httpLn net.Listener) error {
	eg, egctx := errgroup.WithContext(ctx)

	s.logger.Info("starting server", "addr", tcpLn.Addr().String())
	eg.Go(func() error {
		return s.serveTCP(egctx, tcpLn)
	})

	if httpLn != nil {
		srv := &http.Server{
			Handler: s.Handler(),
			BaseContext: func(_ net.Listener) context.Context {
				return egctx
			},
			ReadHeaderTimeout: 10 * time.Second,
		}

		s.logger.Info("starting HTTP server", "addr", "http://"+httpLn.Addr().String())
		eg.Go(func() error {
			if err := srv.Serve(httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server error: %w", err)
			}
			return nil
		})

		eg.Go(func() error {
			<-egctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()

			s.logger.Debug("shutting down HTTP server...")
			return srv.Shutdown(shutdownCtx)
		})
	}

	return eg.Wait()
}
