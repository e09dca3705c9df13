package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Zereker/nntp"
)

// eachServer runs fn against every configured server at once, one
// connection each, and prints the results in the order the servers were
// given.
func eachServer(ctx context.Context, g *Globals, logger *slog.Logger, fn func(*nntp.Conn) (string, error)) error {
	out := make([]string, len(g.Server))

	eg, ctx := errgroup.WithContext(ctx)
	for i, addr := range g.Server {
		eg.Go(func() error {
			conn, err := g.connect(ctx, logger, addr)
			if err != nil {
				return err
			}
			defer quit(logger, conn)

			text, err := fn(conn)
			if err != nil {
				return errors.WithMessage(err, addr)
			}
			out[i] = text
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for i, addr := range g.Server {
		if len(g.Server) > 1 {
			fmt.Printf("== %s\n", addr)
		}
		fmt.Print(out[i])
	}
	return nil
}

// CapabilitiesCmd lists capabilities of every server.
type CapabilitiesCmd struct{}

func (c *CapabilitiesCmd) Run(ctx context.Context, g *Globals, logger *slog.Logger) error {
	return eachServer(ctx, g, logger, func(conn *nntp.Conn) (string, error) {
		resp, err := conn.Capabilities()
		if err != nil {
			return "", err
		}
		var b strings.Builder
		for _, line := range resp.Body.Capabilities {
			b.WriteString(line + "\n")
		}
		return b.String(), nil
	})
}

// DateCmd prints the clock of every server.
type DateCmd struct{}

func (c *DateCmd) Run(ctx context.Context, g *Globals, logger *slog.Logger) error {
	return eachServer(ctx, g, logger, func(conn *nntp.Conn) (string, error) {
		resp, err := conn.Date()
		if err != nil {
			return "", err
		}
		return resp.Body.Time.Format("2006-01-02 15:04:05 MST") + "\n", nil
	})
}

// GroupCmd selects a group on the first server.
type GroupCmd struct {
	Name string `arg:"" help:"Group name."`
}

func (c *GroupCmd) Run(ctx context.Context, g *Globals, logger *slog.Logger) error {
	conn, err := g.first(ctx, logger)
	if err != nil {
		return err
	}
	defer quit(logger, conn)

	resp, err := selectGroup(conn, c.Name)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d articles, %d-%d\n", resp.Name, resp.Number, resp.Low, resp.High)
	return nil
}

// selectGroup sends GROUP and turns a missing group into an error.
func selectGroup(conn *nntp.Conn, name string) (nntp.GroupResponse, error) {
	resp, err := conn.Group(name)
	if err != nil {
		return nntp.GroupResponse{}, err
	}
	if !resp.OK() {
		return nntp.GroupResponse{}, errors.Errorf("group %s: server answered %d", name, resp.Code())
	}
	return resp.Body, nil
}

// HeadCmd prints one article's headers.
type HeadCmd struct {
	Group   string `help:"Select this group first; needed for article numbers."`
	Article string `arg:"" help:"Message-id (<id@host>) or article number."`
}

func (c *HeadCmd) Run(ctx context.Context, g *Globals, logger *slog.Logger) error {
	sel, err := parseSelector(c.Article)
	if err != nil {
		return err
	}

	conn, err := g.first(ctx, logger)
	if err != nil {
		return err
	}
	defer quit(logger, conn)

	if c.Group != "" {
		if _, err := selectGroup(conn, c.Group); err != nil {
			return err
		}
	}

	resp, err := conn.Head(sel)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return errors.Errorf("head %s: server answered %d", sel, resp.Code())
	}

	fmt.Printf("%d %s\n", resp.Body.Number, resp.Body.ID)
	for name, values := range resp.Body.Header {
		for _, v := range values {
			fmt.Printf("%s: %s\n", name, v)
		}
	}
	return nil
}

// parseSelector reads a message-id, with or without angle brackets, or an
// article number.
func parseSelector(s string) (nntp.Selector, error) {
	if strings.Contains(s, "@") {
		return nntp.MessageID(strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nntp.Selector{}, errors.Errorf("article %q is neither a message-id nor a number", s)
	}
	return nntp.ArticleNumber(n), nil
}

// ListCmd lists groups in one of three shapes.
type ListCmd struct {
	Kind    string `enum:"active,times,newsgroups" default:"active" help:"What to list (${enum})."`
	Wildmat string `arg:"" optional:"" help:"Restrict to matching groups, such as comp.lang.*."`
}

func (c *ListCmd) Run(ctx context.Context, g *Globals, logger *slog.Logger) error {
	conn, err := g.first(ctx, logger)
	if err != nil {
		return err
	}
	defer quit(logger, conn)

	switch c.Kind {
	case "times":
		resp, err := conn.ListActiveTimes(c.Wildmat)
		if err != nil {
			return err
		}
		for _, gr := range resp.Body.Groups {
			fmt.Printf("%s\t%d\t%s\n", gr.Name, gr.Created, gr.Creator)
		}
	case "newsgroups":
		resp, err := conn.ListNewsgroups(c.Wildmat)
		if err != nil {
			return err
		}
		for _, gr := range resp.Body.Groups {
			fmt.Printf("%s\t%s\n", gr.Name, gr.Description)
		}
	default:
		resp, err := conn.ListActive(c.Wildmat)
		if err != nil {
			return err
		}
		for _, gr := range resp.Body.Groups {
			fmt.Printf("%s\t%d\t%d\t%s\n", gr.Name, gr.Low, gr.High, gr.Status)
		}
	}
	return nil
}

// XoverCmd prints overview records for a range.
type XoverCmd struct {
	Group string `required:"" help:"Group to read."`
	Range string `arg:"" help:"Article range: N, N- or N-M."`
}

func (c *XoverCmd) Run(ctx context.Context, g *Globals, logger *slog.Logger) error {
	r, err := parseRange(c.Range)
	if err != nil {
		return err
	}

	conn, err := g.first(ctx, logger)
	if err != nil {
		return err
	}
	defer quit(logger, conn)

	if _, err := selectGroup(conn, c.Group); err != nil {
		return err
	}

	resp, err := conn.Xover(r)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return errors.Errorf("xover %s: server answered %d", r, resp.Code())
	}

	for _, o := range resp.Body.Overviews {
		fmt.Printf("%d\t%s\t%s\t%s\n", o.Number, o.Date.Format("2006-01-02 15:04"), o.Author, o.Subject)
	}
	return nil
}

// parseRange reads N, N- or N-M.
func parseRange(s string) (nntp.Range, error) {
	fromText, toText, isRange := strings.Cut(s, "-")

	from, err := strconv.Atoi(fromText)
	if err != nil || from < 0 {
		return nntp.Range{}, errors.Errorf("range %q: bad start", s)
	}
	if !isRange {
		return nntp.ArticleRange(from), nil
	}
	if toText == "" {
		return nntp.ArticlesFrom(from), nil
	}

	to, err := strconv.Atoi(toText)
	if err != nil || to < from {
		return nntp.Range{}, errors.Errorf("range %q: bad end", s)
	}
	return nntp.ArticlesBetween(from, to), nil
}
