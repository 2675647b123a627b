package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.trai.ch/lucifer/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const readHeaderTimeout = 10 * time.Second

// Server serves a handler over HTTP/1.1 and cleartext HTTP/2.
type Server struct {
	httpServer *http.Server
}

// NewServer wraps handler in an h2c-capable http.Server.
func NewServer(handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Handler:           h2c.NewHandler(handler, &http2.Server{}),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	}
	return nil
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
