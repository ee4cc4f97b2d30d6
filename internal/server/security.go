// Package server provides the listener factories the HTTP server is started
// with: TLS when certificates are configured, plain TCP otherwise.
package server

import (
	"crypto/tls"
	"fmt"
	"net"
)

// TLSListener builds TLS listeners from a certificate and key on disk.
type TLSListener struct {
	certFile string
	keyFile  string
}

// NewTLSListener creates a listener factory for the given key pair paths.
// The files are loaded lazily, on Listen.
func NewTLSListener(certFile, keyFile string) *TLSListener {
	return &TLSListener{
		certFile: certFile,
		keyFile:  keyFile,
	}
}

// Listen loads the key pair and opens a TLS listener on addr.
func (l *TLSListener) Listen(network, addr string) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(l.certFile, l.keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS key pair: %w", err)
	}

	return tls.Listen(network, addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
}

// PlainListener builds unencrypted TCP listeners.
type PlainListener struct{}

// NewPlainListener creates a plain listener factory.
func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

// Listen opens an unencrypted listener on addr.
func (l *PlainListener) Listen(network, addr string) (net.Listener, error) {
	return net.Listen(network, addr)
}
