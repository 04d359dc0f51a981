package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// EOT terminates every response of the line protocol. It is sent on a line
// of its own.
const EOT = "\x04"

// maxLine bounds one request line.
const maxLine = 1 << 20

func (s *Server) serveTCP(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
		s.closeConns()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return s.waitConns()
			}
			return fmt.Errorf("accept: %w", err)
		}
		if !s.track(conn) {
			_ = conn.Close()
			continue
		}
		go func() {
			defer s.untrack(conn)
			s.HandleConn(ctx, conn)
		}()
	}
}

// HandleConn serves one client until it disconnects. Each connection gets its
// own session. Every non-empty line is executed as one statement and answered
// with the response text followed by an EOT line.
func (s *Server) HandleConn(ctx context.Context, conn net.Conn) {
	defer func() { _ = conn.Close() }()

	session := s.engine.NewSession()
	defer s.engine.CloseSession(session)

	remote := conn.RemoteAddr().String()
	s.logger.Info("client connected", "remote", remote, "session", session.ID)
	defer s.logger.Info("client disconnected", "remote", remote, "session", session.ID)

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	w := bufio.NewWriter(conn)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		resp := s.engine.Execute(ctx, session, line)
		if err := writeResponse(w, resp.String()); err != nil {
			s.logger.Debug("write failed", "remote", remote, "error", err)
			return
		}
	}
	if err := sc.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.logger.Debug("read failed", "remote", remote, "error", err)
	}
}

func writeResponse(w *bufio.Writer, text string) error {
	if _, err := io.WriteString(w, text+"\n"+EOT+"\n"); err != nil {
		return err
	}
	return w.Flush()
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns == nil {
		return false
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	if s.conns != nil {
		delete(s.conns, conn)
	}
	s.mu.Unlock()
	s.wg.Done()
}

// closeConns closes every client connection and refuses new ones. A
// statement already executing still completes; only its reply is lost.
func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.conns = nil
}

func (s *Server) waitConns() error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(s.shutdownTimeout):
		return errors.New("timed out waiting for client connections to close")
	}
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Client speaks the line protocol to a server.
type Client struct {
	conn net.Conn
	r    *bufio.Reader
}

// Dial connects to a server.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return NewClient(conn), nil
}

// NewClient wraps an established connection.
func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn, r: bufio.NewReader(conn)}
}

// Exec sends one statement and returns the response text without the EOT
// line. Line breaks in stmt are sent as spaces.
func (c *Client) Exec(stmt string) (string, error) {
	line := lineBreaks.Replace(stmt)
	if strings.TrimSpace(line) == "" {
		return "", errors.New("empty statement")
	}
	if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
		return "", fmt.Errorf("send: %w", err)
	}

	var lines []string
	for {
		l, err := c.r.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("receive: %w", err)
		}
		l = strings.TrimSuffix(l, "\n")
		if l == EOT {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, l)
	}
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
