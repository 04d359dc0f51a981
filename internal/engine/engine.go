// Package engine provides the statement interpreter.
// It executes one validated statement at a time against the storage catalog
// and answers with an [OK] or [ERROR] response.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapdb/internal/storage"
	"github.com/leapstack-labs/leapdb/pkg/parser"
)

// Engine executes statements. All statements, from every session, run one
// at a time under a single mutex; the storage catalog has no locking of its
// own.
type Engine struct {
	mu       sync.Mutex
	catalog  *storage.Catalog
	logger   *slog.Logger
	sessions map[string]*Session
}

// Config holds engine configuration.
type Config struct {
	// Root is the storage root directory.
	Root string
	// Extension is the table file extension (default "tab").
	Extension string
	// AtomicWrites replaces table files by write-then-rename.
	AtomicWrites bool
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New opens the storage root and loads every database in it.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing engine", "root", cfg.Root, "extension", cfg.Extension)

	catalog, err := storage.Open(storage.Options{
		Root:         cfg.Root,
		Extension:    cfg.Extension,
		AtomicWrites: cfg.AtomicWrites,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	return &Engine{
		catalog:  catalog,
		logger:   logger,
		sessions: make(map[string]*Session),
	}, nil
}

// Session is one client's state: the currently selected database.
// A session must not be used by two goroutines at once.
type Session struct {
	ID       string
	database string
}

// Database returns the name of the selected database, or "".
func (s *Session) Database() string {
	return s.database
}

// NewSession creates and registers a session with no database selected.
func (e *Engine) NewSession() *Session {
	s := &Session{ID: uuid.NewString()}
	e.mu.Lock()
	e.sessions[s.ID] = s
	e.mu.Unlock()
	e.logger.Debug("session opened", "session", s.ID)
	return s
}

// Session returns a registered session.
func (e *Engine) Session(id string) (*Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[id]
	return s, ok
}

// CloseSession forgets a session.
func (e *Engine) CloseSession(s *Session) {
	e.mu.Lock()
	delete(e.sessions, s.ID)
	e.mu.Unlock()
	e.logger.Debug("session closed", "session", s.ID)
}

// View runs fn with exclusive access to the catalog. fn must not mutate it.
func (e *Engine) View(fn func(c *storage.Catalog) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.catalog)
}

// Execute validates and executes one statement.
func (e *Engine) Execute(ctx context.Context, s *Session, text string) *Response {
	stmt, err := parser.Parse(text)
	if err != nil {
		e.logger.Info("statement rejected", "session", s.ID, "error", err)
		return failure(err)
	}
	return e.ExecuteStatement(ctx, s, stmt)
}

// ExecuteScript executes the statements of text in order and stops at the
// first failure. The last response is the failing one, if any.
func (e *Engine) ExecuteScript(ctx context.Context, s *Session, text string) []*Response {
	toks := parser.Tokenize(text)
	var responses []*Response
	for offset := 0; offset < len(toks); {
		stmt, n, err := parser.ParseTokens(toks[offset:])
		if err != nil {
			e.logger.Info("statement rejected", "session", s.ID, "error", err)
			return append(responses, failure(err))
		}
		resp := e.ExecuteStatement(ctx, s, stmt)
		responses = append(responses, resp)
		if !resp.OK() {
			return responses
		}
		offset += n
	}
	return responses
}

// ExecuteStatement executes an already validated statement. It either fully
// applies the statement or fails, leaving no partial change.
func (e *Engine) ExecuteStatement(ctx context.Context, s *Session, stmt parser.Statement) *Response {
	if err := ctx.Err(); err != nil {
		return failure(err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	res, err := e.exec(s, stmt)
	if err != nil {
		e.logger.Info("statement failed",
			"session", s.ID,
			"kind", stmt.Kind(),
			"database", s.database,
			"error", err)
		return failure(err)
	}

	e.logger.Debug("statement executed",
		"session", s.ID,
		"kind", stmt.Kind(),
		"database", s.database,
		"duration", time.Since(start))
	return &Response{Result: res}
}
