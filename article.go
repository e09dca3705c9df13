package nntp

import (
	"bytes"
	"io"
	"strconv"
	"strings"
)

// Selector picks the article HEAD and ARTICLE operate on. The zero value
// selects the current article of the current group.
type Selector struct {
	arg string
}

// MessageID selects an article by message-id, given without angle brackets.
func MessageID(id string) Selector {
	return Selector{arg: "<" + id + ">"}
}

// ArticleNumber selects an article by its number in the current group.
func ArticleNumber(n int) Selector {
	return Selector{arg: strconv.Itoa(n)}
}

// String returns the selector as sent on the command line.
func (s Selector) String() string {
	return s.arg
}

func encodeSelector(w io.Writer, verb string, s Selector) error {
	line := verb
	if s.arg != "" {
		line += " " + s.arg
	}
	_, err := io.WriteString(w, line)
	return err
}

// Header maps header names, as sent, to their values in arrival order.
type Header map[string][]string

// Get returns the first value of the named header, matching the name
// exactly first and then without regard to case.
func (h Header) Get(name string) string {
	if v := h.Values(name); len(v) > 0 {
		return v[0]
	}
	return ""
}

// Values returns every value of the named header.
func (h Header) Values(name string) []string {
	if v, ok := h[name]; ok {
		return v
	}
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return nil
}

// HeadRequest fetches an article's headers.
type HeadRequest struct {
	Selector Selector
}

// Encode writes "HEAD" and the selector, if any.
func (r HeadRequest) Encode(w io.Writer) error {
	return encodeSelector(w, "HEAD", r.Selector)
}

// HeadResponse holds the article number, message-id and headers.
type HeadResponse struct {
	Number int
	ID     string
	Header Header
}

var headCodes = Codes{
	{Code: 221, MultiLine: true, OK: true},
	{Code: 412, OK: false},
	{Code: 420, OK: false},
	{Code: 423, OK: false},
	{Code: 430, OK: false},
}

// Codes returns the HEAD classification table.
func (*HeadResponse) Codes() Codes { return headCodes }

// DecodeBody reads the article number, message-id and header block.
func (h *HeadResponse) DecodeBody(d *Decoder, code int) error {
	if code != 221 {
		return nil
	}
	return h.decodeHead(d)
}

// decodeHead reads the "number <id>" status remainder and the header block,
// stopping after the blank line that ends it.
func (h *HeadResponse) decodeHead(d *Decoder) (err error) {
	first, ok := d.Line()
	if !ok {
		return nil
	}
	if h.Number, err = Get[int](first); err != nil {
		return err
	}
	if h.ID, err = Get[string](first); err != nil {
		return err
	}

	h.Header = Header{}
	var key string
	for {
		line, ok, err := d.LineString()
		if err != nil {
			return err
		}
		if !ok || line == "" {
			return nil
		}

		if line[0] == ' ' || line[0] == '\t' {
			// Folded continuation of the previous header.
			if values := h.Header[key]; key != "" && len(values) > 0 {
				values[len(values)-1] += " " + strings.TrimLeft(line, " \t")
			}
			continue
		}

		name, value, found := strings.Cut(line, ":")
		if !found {
			// Continuations of a malformed line belong to no header.
			key = ""
			continue
		}
		key = strings.TrimSpace(name)
		h.Header[key] = append(h.Header[key], strings.TrimSpace(value))
	}
}

// Head sends HEAD for the selected article.
func (c *Conn) Head(s Selector) (*Response[HeadResponse], error) {
	return Do[HeadResponse](c, HeadRequest{Selector: s})
}

// ArticleRequest fetches a whole article.
type ArticleRequest struct {
	Selector Selector
}

// Encode writes "ARTICLE" and the selector, if any.
func (r ArticleRequest) Encode(w io.Writer) error {
	return encodeSelector(w, "ARTICLE", r.Selector)
}

// ArticleResponse holds the article's headers and its raw body: every byte
// after the blank line that ends the headers.
type ArticleResponse struct {
	HeadResponse
	Body []byte
}

var articleCodes = Codes{
	{Code: 220, MultiLine: true, OK: true},
	{Code: 412, OK: false},
	{Code: 420, OK: false},
	{Code: 423, OK: false},
	{Code: 430, OK: false},
}

// Codes returns the ARTICLE classification table.
func (*ArticleResponse) Codes() Codes { return articleCodes }

// DecodeBody reads the headers, then keeps the rest as the body.
func (a *ArticleResponse) DecodeBody(d *Decoder, code int) error {
	if code != 220 {
		return nil
	}
	if err := a.decodeHead(d); err != nil {
		return err
	}
	a.Body = bytes.Clone(d.Bytes())
	d.Reset()
	return nil
}

// Article sends ARTICLE for the selected article.
func (c *Conn) Article(s Selector) (*Response[ArticleResponse], error) {
	return Do[ArticleResponse](c, ArticleRequest{Selector: s})
}
