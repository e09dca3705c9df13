package nntp

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// ResponseCode classifies one status code a response type accepts:
// whether the response runs over several lines, ending with a lone dot,
// and whether the code means the request succeeded.
type ResponseCode struct {
	Code      int
	MultiLine bool
	OK        bool
}

// Codes is a response type's classification table. Every code the type
// accepts appears exactly once; any other code is a protocol error.
type Codes []ResponseCode

// Lookup returns the entry for code.
func (c Codes) Lookup(code int) (ResponseCode, bool) {
	for _, rc := range c {
		if rc.Code == code {
			return rc, true
		}
	}
	return ResponseCode{}, false
}

// OK reports whether code is listed as a success.
func (c Codes) OK(code int) bool {
	rc, found := c.Lookup(code)
	return found && rc.OK
}

// Body is implemented by every response type. Codes is the type's
// classification table. DecodeBody receives the response with its
// terminator removed and the status code already consumed; it must accept
// every code in the table, leaving the zero value where a failure code
// carries no payload.
type Body interface {
	Codes() Codes
	DecodeBody(d *Decoder, code int) error
}

// Command is implemented by every request type. Encode writes the command
// line without its terminator.
type Command interface {
	Encode(w io.Writer) error
}

// Decode frames a response body for b. It looks code up in the table,
// requires the buffer to end in the matching terminator and, for a
// non-zero code, strips the terminator before handing the rest to
// b.DecodeBody. A buffer that is not yet terminated yields
// errNeedMoreBytes without consuming anything.
func Decode(b Body, d *Decoder, code int) error {
	return decodeFramed(b.Codes(), d, code, b.DecodeBody)
}

func decodeFramed(codes Codes, d *Decoder, code int, body func(*Decoder, int) error) error {
	rc, found := codes.Lookup(code)
	if !found {
		return responseCodeError(code)
	}

	term := crlf
	if rc.MultiLine {
		term = dotCRLF
	}

	if !bytes.HasSuffix(d.Bytes(), term) {
		return errNeedMoreBytes
	}

	// Code zero is the status line itself, which keeps its terminator so
	// the body it precedes is still framed.
	if code > 0 {
		d.truncate(d.Len() - len(term))
	}

	return body(d, code)
}

// Encode renders cmd as a complete command line, terminator included.
// A rendered line containing CR or LF would desynchronise the stream and
// fails with KindEncode.
func Encode(cmd Command) ([]byte, error) {
	var buf bytes.Buffer
	if err := cmd.Encode(&buf); err != nil {
		return nil, newError(KindEncode, err)
	}
	if bytes.ContainsAny(buf.Bytes(), "\r\n") {
		return nil, newError(KindEncode, errors.Errorf("command %q contains a line break", buf.Bytes()))
	}
	buf.Write(crlf)
	return buf.Bytes(), nil
}

// Response is the result of one request: the status code and the decoded
// body of type T.
type Response[T any] struct {
	Body T

	code  int
	codes Codes
	body  Body
}

// bodyPtr is satisfied by *T when *T implements Body.
type bodyPtr[T any] interface {
	*T
	Body
}

func newResponse[T any, PT bodyPtr[T]]() *Response[T] {
	r := &Response[T]{}
	r.body = PT(&r.Body)
	r.codes = r.body.Codes()
	return r
}

// Code returns the status code the server answered with.
func (r *Response[T]) Code() int {
	return r.code
}

// OK reports whether the status code means success for this response type.
func (r *Response[T]) OK() bool {
	return r.codes.OK(r.code)
}

// envelope is what the read loop decodes into.
type envelope interface {
	decode(d *Decoder) error
}

// statusLine frames the status line: any line ending in CRLF.
var statusLine = Codes{{Code: 0}}

// decode makes one attempt at a full response over everything received so
// far. The status code is consumed and recorded on the first attempt that
// sees a complete line; later attempts, after more bytes arrive, go
// straight to the body.
func (r *Response[T]) decode(d *Decoder) error {
	return decodeFramed(statusLine, d, 0, func(d *Decoder, _ int) error {
		if r.code == 0 {
			if d.Len() < 3 {
				return errNeedMoreBytes
			}
			code, err := statusCode(d)
			if err != nil {
				return err
			}
			r.code = code
		}
		return Decode(r.body, d, r.code)
	})
}

// statusCode consumes the three digit code opening a status line and the
// single space after it, if any. Anything but a space or the line
// terminator after the third digit is malformed. The line terminator is
// left in place.
func statusCode(d *Decoder) (int, error) {
	b := d.Bytes()
	code := 0
	for i := 0; i < 3; i++ {
		if b[i] < '0' || b[i] > '9' {
			return 0, fieldError(errors.Errorf("status line %q has no status code", b[:3]))
		}
		code = code*10 + int(b[i]-'0')
	}

	// The status line is CRLF terminated, so b[3] exists.
	n := 3
	switch b[3] {
	case ' ':
		n++
	case '\r':
	default:
		return 0, fieldError(errors.Errorf("status line %q has no status code", b[:4]))
	}
	d.skip(n)
	return code, nil
}
