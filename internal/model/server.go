package model

import (
	"context"
	"net"
)

// SecurityLayer abstracts how the server socket is opened: TLS when
// certificates are configured, plain TCP otherwise.
type SecurityLayer interface {
	Listen(network, addr string) (net.Listener, error)
}

// Server is the lifecycle contract of the HTTP server.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
