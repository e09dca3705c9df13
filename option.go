package nntp

import (
	"crypto/tls"
	"net"
)

// options holds the configuration for a connection.
type options struct {
	logger    Logger
	tlsConfig *tls.Config
	dialer    *net.Dialer

	readChunkSize int // bytes requested from the transport per read
}

// Option is a function that configures connection options.
type Option func(*options)

// LoggerOption returns an Option that sets the logger.
// If not set, the default slog logger will be used.
func LoggerOption(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// TLSConfigOption returns an Option that sets the base TLS configuration
// used when dialing with TLS. The configuration is cloned for every dial;
// an empty ServerName is filled in from the server's host. Without this
// option the system root certificates are trusted.
func TLSConfigOption(cfg *tls.Config) Option {
	return func(o *options) {
		o.tlsConfig = cfg
	}
}

// DialerOption returns an Option that sets the dialer used for the TCP
// connection.
func DialerOption(dialer *net.Dialer) Option {
	return func(o *options) {
		o.dialer = dialer
	}
}

// ReadChunkSizeOption returns an Option that sets how many bytes are
// requested from the transport per read.
func ReadChunkSizeOption(size int) Option {
	return func(o *options) {
		o.readChunkSize = size
	}
}
