// Package lspserver is a thin chained-registration convenience over
// rpc.Connection and rpc.Dispatcher: the "server DSL" that spec.md's core
// deliberately leaves external, built here as a small, separately testable
// package.
package lspserver

import (
	"context"
	"io"
	"log/slog"

	"github.com/lspkit/lsprpc-go-sdk/rpc"
)

// Server wraps an rpc.Connection, offering chained typed-handler
// registration before Serve is called. Registrations are buffered against
// the underlying Dispatcher directly, so order relative to Serve never
// matters — the Dispatcher's handler maps are live the moment a
// registration call returns.
type Server struct {
	conn *rpc.Connection
}

// New constructs a Server around a fresh rpc.Connection over reader/writer,
// closed via closer when Serve returns.
func New(reader io.Reader, writer io.Writer, closer io.Closer) *Server {
	return &Server{conn: rpc.NewConnection(reader, writer, closer)}
}

// SetLogger installs a structured logger on the underlying connection.
func (s *Server) SetLogger(logger *slog.Logger) *Server {
	s.conn.SetLogger(logger)
	return s
}

// Handle registers a typed request handler and returns s for chaining.
func Handle[P, R any](s *Server, method string, fn func(ctx context.Context, params P) (R, *rpc.ResponseError)) *Server {
	rpc.RegisterRequest(s.conn.Dispatcher(), method, fn)
	return s
}

// HandleOptional registers a typed request handler whose params object is
// itself optional (absent/null decodes to P's zero value).
func HandleOptional[P, R any](s *Server, method string, fn func(ctx context.Context, params P) (R, *rpc.ResponseError)) *Server {
	rpc.RegisterRequestOptional(s.conn.Dispatcher(), method, fn)
	return s
}

// HandleNotify registers a typed notification handler and returns s for
// chaining.
func HandleNotify[P any](s *Server, method string, fn func(ctx context.Context, params P) *rpc.ResponseError) *Server {
	rpc.RegisterNotification(s.conn.Dispatcher(), method, fn)
	return s
}

// Connection exposes the underlying rpc.Connection for callers that need to
// issue outbound Call/Notify themselves (e.g. a server pushing
// textDocument/publishDiagnostics).
func (s *Server) Connection() *rpc.Connection { return s.conn }

// Serve starts the connection's pump goroutines and blocks until ctx is
// cancelled or the transport closes, whichever happens first.
func (s *Server) Serve(ctx context.Context) error {
	s.conn.Start()
	select {
	case <-ctx.Done():
		s.conn.Close()
		return ctx.Err()
	case <-s.conn.Done():
		return s.conn.Err()
	}
}
