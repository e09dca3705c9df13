package nntp

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net"

	"github.com/pkg/errors"
	"golang.org/x/net/idna"
)

// defaultReadChunkSize is how much is requested from the stream per read.
const defaultReadChunkSize = 1024

// transport is the byte stream a Conn speaks over: a TCP socket, or the
// same socket after a TLS upgrade. The choice is made once when dialing.
type transport struct {
	conn   net.Conn
	secure bool
	chunk  []byte
}

// dialTransport connects to server and, when useTLS is set, upgrades the
// socket to TLS before any protocol bytes are exchanged. A failed upgrade
// closes the socket; there is no plaintext fallback.
func dialTransport(ctx context.Context, server Server, useTLS bool, opts options) (*transport, error) {
	var tlsConfig *tls.Config
	if useTLS {
		cfg, err := clientTLSConfig(server, opts.tlsConfig)
		if err != nil {
			return nil, err
		}
		tlsConfig = cfg
	}

	conn, err := opts.dialer.DialContext(ctx, "tcp", server.String())
	if err != nil {
		return nil, newError(KindTCP, errors.Wrapf(err, "dial %s", server))
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}

	if !useTLS {
		return newTransport(conn, false, opts.readChunkSize), nil
	}

	tlsConn := tls.Client(conn, tlsConfig)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, newError(KindTLS, errors.Wrapf(err, "handshake with %s", server))
	}
	return newTransport(tlsConn, true, opts.readChunkSize), nil
}

func newTransport(conn net.Conn, secure bool, chunkSize int) *transport {
	return &transport{
		conn:   conn,
		secure: secure,
		chunk:  make([]byte, chunkSize),
	}
}

// clientTLSConfig clones base, or starts from a config trusting the system
// roots, and sets the server name from the server's host when unset.
func clientTLSConfig(server Server, base *tls.Config) (*tls.Config, error) {
	var cfg *tls.Config
	if base != nil {
		cfg = base.Clone()
	} else {
		cfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	name := cfg.ServerName
	if name == "" {
		name = server.Host()
	}
	name, err := validServerName(name)
	if err != nil {
		return nil, err
	}
	cfg.ServerName = name
	return cfg, nil
}

// validServerName checks that name can identify a TLS peer: an IP literal
// or a host name that passes IDNA lookup rules. Host names come back in
// their ASCII form.
func validServerName(name string) (string, error) {
	if net.ParseIP(name) != nil {
		return name, nil
	}
	ascii, err := idna.Lookup.ToASCII(name)
	if err != nil {
		return "", newError(KindServerName, errors.Wrapf(err, "server name %q", name))
	}
	return ascii, nil
}

// read appends at most one chunk of newly received bytes to dst.
// A zero-byte read means the peer closed the stream.
func (t *transport) read(dst *Decoder) (int, error) {
	n, err := t.conn.Read(t.chunk)
	if n > 0 {
		_, _ = dst.Write(t.chunk[:n])
		return n, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return 0, newError(KindEOF, nil)
	}
	return 0, newError(KindRead, err)
}

// write hands src to the stream once and removes however many bytes were
// accepted from its front. Callers loop until src is empty.
func (t *transport) write(src *bytes.Buffer) (int, error) {
	n, err := t.conn.Write(src.Bytes())
	src.Next(n)
	if err != nil {
		return n, newError(KindWrite, err)
	}
	return n, nil
}

func (t *transport) close() error {
	return t.conn.Close()
}

func (t *transport) remoteAddr() net.Addr {
	return t.conn.RemoteAddr()
}
