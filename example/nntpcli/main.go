// Command nntpcli queries news servers from the command line.
//
//	nntpcli --server news.example.org date
//	nntpcli -s news.example.org -s news.example.net capabilities
//	nntpcli --config nntpcli.yaml xover --group alt.test 100-
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"

	"github.com/Zereker/nntp"
)

// Globals are the flags every subcommand shares. Any of them may also come
// from the --config file; flags given on the command line win.
type Globals struct {
	Config   kong.ConfigFlag `help:"YAML file with default flag values." placeholder:"FILE"`
	Server   []string        `short:"s" required:"" help:"News server as host[:port]. Repeat to query several." placeholder:"ADDR"`
	TLS      bool            `name:"tls" negatable:"" default:"true" help:"Connect over TLS."`
	User     string          `env:"NNTP_USER" help:"AUTHINFO user name."`
	Password string          `env:"NNTP_PASSWORD" help:"AUTHINFO password."`
	Timeout  time.Duration   `default:"30s" help:"Limit for connecting and the TLS handshake."`
	LogLevel string          `enum:"debug,info,warn,error" default:"warn" help:"Log level (${enum})."`
	LogFile  string          `type:"path" help:"Write logs to a rotated file instead of stderr."`
}

// CLI is the command tree.
type CLI struct {
	Globals

	Capabilities CapabilitiesCmd `cmd:"" help:"List what each server supports."`
	Date         DateCmd         `cmd:"" help:"Show each server's clock."`
	Group        GroupCmd        `cmd:"" help:"Select a group and show its article range."`
	Head         HeadCmd         `cmd:"" help:"Print the headers of an article."`
	List         ListCmd         `cmd:"" help:"List groups."`
	Xover        XoverCmd        `cmd:"" help:"Print overview records for a range of articles."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("nntpcli"),
		kong.Description("Query NNTP news servers."),
		kong.Configuration(yamlLoader),
		kong.UsageOnError(),
	)

	logger, closer, err := newLogger(cli.LogLevel, cli.LogFile)
	ctx.FatalIfErrorf(err)
	defer closer.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctx.BindTo(runCtx, (*context.Context)(nil))
	err = ctx.Run(&cli.Globals, logger)
	if err != nil {
		logger.Error("command failed", "command", ctx.Command(), "error", err)
	}
	ctx.FatalIfErrorf(err)
}

// connect dials addr and authenticates when a user is configured.
func (g *Globals) connect(ctx context.Context, logger *slog.Logger, addr string) (*nntp.Conn, error) {
	server, err := nntp.ParseServer(addr)
	if err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	conn, err := nntp.Dial(dialCtx, server, g.TLS, nntp.LoggerOption(logger.With("server", server.String())))
	if err != nil {
		return nil, err
	}

	if g.User == "" {
		return conn, nil
	}

	resp, err := conn.Authenticate(g.User, g.Password)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if !resp.OK() {
		conn.Close()
		return nil, errors.Errorf("%s: authentication rejected: %d %s", server, resp.Code(), resp.Body.Text)
	}
	return conn, nil
}

// first connects to the first configured server.
func (g *Globals) first(ctx context.Context, logger *slog.Logger) (*nntp.Conn, error) {
	if len(g.Server) > 1 {
		logger.Warn("command uses only the first server", "server", g.Server[0])
	}
	return g.connect(ctx, logger, g.Server[0])
}

// quit says goodbye, logging rather than failing on a bad farewell.
func quit(logger *slog.Logger, conn *nntp.Conn) {
	if err := conn.Quit(); err != nil {
		logger.Debug("quit", "server", conn.Server().String(), "error", err)
	}
}
