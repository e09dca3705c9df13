package nntp

import (
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultPort is the port used when an address names no port: NNTP over
// TLS, as the servers this client targets expect.
const DefaultPort = 563

// Server is the address of a news server. It is immutable once built and
// its host doubles as the TLS server name.
type Server struct {
	host string
	port uint16
}

// NewServer builds a Server from a host and port.
func NewServer(host string, port uint16) (Server, error) {
	if host == "" {
		return Server{}, newError(KindAddress, errors.New("server name must not be empty"))
	}
	if port == 0 {
		return Server{}, newError(KindAddress, errors.New("port must not be zero"))
	}
	return Server{host: host, port: port}, nil
}

// ParseServer parses "host" or "host:port". IPv6 literals are written in
// brackets, "[::1]" or "[::1]:119". Without a port, DefaultPort is used.
func ParseServer(s string) (Server, error) {
	host, portText, hasPort := strings.Cut(s, ":")

	if strings.HasPrefix(s, "[") {
		h, p, err := net.SplitHostPort(s)
		switch {
		case err == nil:
			host, portText, hasPort = h, p, true
		case strings.HasSuffix(s, "]"):
			host, hasPort = s[1:len(s)-1], false
		default:
			return Server{}, newError(KindAddress, errors.Wrapf(err, "address %q", s))
		}
	}

	if !hasPort {
		return NewServer(host, DefaultPort)
	}

	port, err := strconv.ParseUint(portText, 10, 16)
	if err != nil {
		return Server{}, newError(KindAddress, errors.Wrapf(err, "port %q", portText))
	}
	return NewServer(host, uint16(port))
}

// Host returns the server's host name.
func (s Server) Host() string {
	return s.host
}

// Port returns the server's port.
func (s Server) Port() uint16 {
	return s.port
}

// String returns the dialable host:port form.
func (s Server) String() string {
	return net.JoinHostPort(s.host, strconv.Itoa(int(s.port)))
}
