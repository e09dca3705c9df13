package nntptest

import (
	"bufio"
	"crypto/tls"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, greeting string, opts ...Option) *Server {
	t.Helper()

	srv, err := New(greeting, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func TestServer_Script(t *testing.T) {
	srv := startServer(t, "200 ready\r\n",
		Reply("DATE", "111 20240101000000\r\n"),
		Handle(func(command string) (string, bool) {
			if strings.HasPrefix(command, "GROUP ") {
				return "211 0 0 0 " + strings.TrimPrefix(command, "GROUP ") + "\r\n", true
			}
			return "", false
		}))

	conn, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	defer conn.Close()
	r := bufio.NewReader(conn)

	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "200 ready\r\n", line)

	exchange := func(command string) string {
		_, err := io.WriteString(conn, command+"\r\n")
		require.NoError(t, err)
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		return line
	}

	assert.Equal(t, "111 20240101000000\r\n", exchange("DATE"))
	assert.Equal(t, "211 0 0 0 alt.test\r\n", exchange("GROUP alt.test"))
	assert.Equal(t, "500 unknown command\r\n", exchange("HELP"))
	assert.Equal(t, []string{"DATE", "GROUP alt.test", "HELP"}, srv.Commands())
}

func TestServer_QuitCloses(t *testing.T) {
	srv := startServer(t, "200 ready\r\n", Reply("QUIT", "205 bye\r\n"))

	conn, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	defer conn.Close()

	_, err = io.WriteString(conn, "QUIT\r\n")
	require.NoError(t, err)

	data, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Equal(t, "200 ready\r\n205 bye\r\n", string(data))
}

func TestServer_EmptyGreetingHangsUp(t *testing.T) {
	srv := startServer(t, "")

	conn, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	defer conn.Close()

	data, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestServer_Chunked(t *testing.T) {
	srv := startServer(t, "200 a longer greeting\r\n", ChunkSize(4))

	conn, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	defer conn.Close()

	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "200 a longer greeting\r\n", line)
}

func TestServer_TLS(t *testing.T) {
	srv := startServer(t, "200 secure\r\n", TLS())

	cfg := srv.ClientTLSConfig()
	require.NotNil(t, cfg)
	cfg.ServerName = "127.0.0.1"

	conn, err := tls.Dial("tcp", srv.Addr(), cfg)
	require.NoError(t, err)
	defer conn.Close()

	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "200 secure\r\n", line)
}

func TestServer_PlainHasNoTLSConfig(t *testing.T) {
	srv := startServer(t, "200 ready\r\n")
	assert.Nil(t, srv.ClientTLSConfig())
}

func TestServer_CloseIdempotent(t *testing.T) {
	srv, err := New("200 ready\r\n")
	require.NoError(t, err)

	require.NoError(t, srv.Close())
	require.NoError(t, srv.Close())
}
