// Package nntptest provides a scripted NNTP server for exercising clients
// over real loopback connections, plaintext or TLS.
package nntptest

import (
	"bufio"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"
)

// Hangup, used as a reply, makes the server close the connection instead
// of answering.
const Hangup = "\x00hangup"

// defaultChunkDelay separates chunked writes so they tend to arrive in
// separate reads on the client.
const defaultChunkDelay = 5 * time.Millisecond

// Server is a loopback NNTP server that answers commands from a script.
//
// Every accepted connection is sent the greeting, then each command line
// received is looked up (handler first, then the exact-match replies) and
// answered. Unknown commands get "500 unknown command". A reply starting
// with 205 closes the connection after it is written, as QUIT does.
type Server struct {
	listener   net.Listener
	logger     *slog.Logger
	greeting   string
	replies    map[string]string
	handler    func(command string) (string, bool)
	chunkSize  int
	chunkDelay time.Duration
	useTLS     bool
	clientTLS  *tls.Config

	mu       sync.Mutex
	shutdown bool
	commands []string
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// Reply answers the exact command line with response, which must carry
// its own line terminators.
func Reply(command, response string) Option {
	return func(s *Server) {
		s.replies[command] = response
	}
}

// Handle installs a function consulted before the Reply table. It returns
// false to fall through.
func Handle(fn func(command string) (response string, ok bool)) Option {
	return func(s *Server) {
		s.handler = fn
	}
}

// ChunkSize makes the server write everything in pieces of at most n
// bytes with a short pause between them.
func ChunkSize(n int) Option {
	return func(s *Server) {
		s.chunkSize = n
		if s.chunkDelay == 0 {
			s.chunkDelay = defaultChunkDelay
		}
	}
}

// LoggerOption sets the server's logger.
func LoggerOption(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// TLS makes the server speak TLS with a freshly generated certificate for
// 127.0.0.1. Clients trust it through ClientTLSConfig.
func TLS() Option {
	return func(s *Server) {
		s.useTLS = true
	}
}

// New starts a server on 127.0.0.1 with an ephemeral port. An empty
// greeting makes the server hang up as soon as a client connects.
func New(greeting string, opts ...Option) (*Server, error) {
	s := &Server{
		logger:   slog.Default(),
		greeting: greeting,
		replies:  make(map[string]string),
		conns:    make(map[net.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	if s.useTLS {
		serverCfg, clientCfg, err := selfSignedConfigs()
		if err != nil {
			listener.Close()
			return nil, err
		}
		s.clientTLS = clientCfg
		listener = tls.NewListener(listener, serverCfg)
	}
	s.listener = listener

	s.wg.Add(1)
	go s.serve()

	s.logger.Debug("nntptest server started", "addr", s.Addr(), "tls", s.useTLS)
	return s, nil
}

// Addr returns the listening address as host:port.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// ClientTLSConfig returns a client configuration that trusts the server's
// certificate, or nil for a plaintext server.
func (s *Server) ClientTLSConfig() *tls.Config {
	if s.clientTLS == nil {
		return nil
	}
	return s.clientTLS.Clone()
}

// Commands returns the command lines received so far, terminators removed.
func (s *Server) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

// Close stops accepting, drops live connections and waits for every
// connection handler to return. Safe to call more than once.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		return nil
	}
	s.shutdown = true
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	err := s.listener.Close()
	s.wg.Wait()
	return err
}

func (s *Server) serve() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			isShutdown := s.shutdown
			s.mu.Unlock()

			if isShutdown {
				s.logger.Debug("nntptest server stopped", "addr", s.Addr())
				return
			}

			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			s.logger.Error("accept error", "error", err)
			return
		}

		if !s.track(conn) {
			conn.Close()
			return
		}
		s.logger.Debug("accepted connection", "remote_addr", conn.RemoteAddr())
		go s.handle(conn)
	}
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdown {
		return false
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) forget(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	conn.Close()
	s.wg.Done()
}

func (s *Server) handle(conn net.Conn) {
	defer s.forget(conn)

	if s.greeting == "" {
		return
	}
	if err := s.write(conn, s.greeting); err != nil {
		return
	}

	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		command := strings.TrimRight(line, "\r\n")

		s.mu.Lock()
		s.commands = append(s.commands, command)
		s.mu.Unlock()

		response := s.reply(command)
		if response == Hangup {
			return
		}
		if err := s.write(conn, response); err != nil {
			return
		}
		if strings.HasPrefix(response, "205") {
			return
		}
	}
}

func (s *Server) reply(command string) string {
	if s.handler != nil {
		if response, ok := s.handler(command); ok {
			return response
		}
	}
	if response, ok := s.replies[command]; ok {
		return response
	}
	return "500 unknown command\r\n"
}

func (s *Server) write(conn net.Conn, data string) error {
	if s.chunkSize <= 0 {
		_, err := conn.Write([]byte(data))
		return err
	}

	for len(data) > 0 {
		n := min(s.chunkSize, len(data))
		if _, err := conn.Write([]byte(data[:n])); err != nil {
			return err
		}
		data = data[n:]
		if len(data) > 0 {
			time.Sleep(s.chunkDelay)
		}
	}
	return nil
}
