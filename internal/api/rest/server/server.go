package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/proposaldesk/docstore/internal/model"
)

// HTTPServer wraps an echo engine with address and lifecycle methods.
type HTTPServer struct {
	engine *echo.Echo
	addr   string
}

// NewHTTPServer creates an HTTPServer with given engine and address.
func NewHTTPServer(engine *echo.Echo, addr string) *HTTPServer {
	return &HTTPServer{engine: engine, addr: addr}
}

// Start starts serving on the configured address using the provided security
// layer.
func (s *HTTPServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.engine.Listener = listener
	if err := s.engine.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the server.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.engine.Shutdown(ctx)
}

// Address returns the configured listen address.
func (s *HTTPServer) Address() string {
	return s.addr
}
