package nntp

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies the failures a Conn can report.
type ErrorKind int

const (
	// KindAddress reports an empty or malformed server address.
	KindAddress ErrorKind = iota + 1
	// KindTCP reports a failed TCP dial.
	KindTCP
	// KindTLS reports a failed TLS handshake.
	KindTLS
	// KindServerName reports a host that cannot be used as a TLS server name.
	KindServerName
	// KindRead reports a transport read fault.
	KindRead
	// KindWrite reports a transport write fault.
	KindWrite
	// KindEOF reports that the peer closed the stream.
	KindEOF
	// KindResponseCode reports a status code missing from the response's table.
	KindResponseCode
	// KindFieldDecode reports malformed response content.
	KindFieldDecode
	// KindEncode reports a request that could not be rendered.
	KindEncode
	// KindBusy reports a request issued while another is in flight.
	KindBusy
	// KindClosed reports a request on a closed or failed connection.
	KindClosed
)

var kindText = map[ErrorKind]string{
	KindAddress:      "invalid server address",
	KindTCP:          "tcp connect failed",
	KindTLS:          "tls handshake failed",
	KindServerName:   "invalid tls server name",
	KindRead:         "read failed",
	KindWrite:        "write failed",
	KindEOF:          "stream closed",
	KindResponseCode: "unexpected response code",
	KindFieldDecode:  "field decode failed",
	KindEncode:       "encode failed",
	KindBusy:         "request already in flight",
	KindClosed:       "connection closed",
}

// String describes the kind.
func (k ErrorKind) String() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return fmt.Sprintf("unknown error kind %d", int(k))
}

// Error is the error type returned by this package.
//
// Code is only set for KindResponseCode. Err holds the underlying cause,
// if any.
type Error struct {
	Kind ErrorKind
	Code int
	Err  error
}

// Error formats the kind, the status code or the cause.
func (e *Error) Error() string {
	switch {
	case e.Kind == KindResponseCode:
		return fmt.Sprintf("nntp: %s %d", e.Kind, e.Code)
	case e.Err != nil:
		return fmt.Sprintf("nntp: %s: %v", e.Kind, e.Err)
	default:
		return "nntp: " + e.Kind.String()
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. A target with a
// zero Code matches any code, so the package sentinels can be used with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == 0 || t.Code == e.Code)
}

// Sentinels for use with errors.Is.
var (
	ErrAddress      = &Error{Kind: KindAddress}
	ErrTCP          = &Error{Kind: KindTCP}
	ErrTLS          = &Error{Kind: KindTLS}
	ErrServerName   = &Error{Kind: KindServerName}
	ErrRead         = &Error{Kind: KindRead}
	ErrWrite        = &Error{Kind: KindWrite}
	ErrEOF          = &Error{Kind: KindEOF}
	ErrResponseCode = &Error{Kind: KindResponseCode}
	ErrFieldDecode  = &Error{Kind: KindFieldDecode}
	ErrEncode       = &Error{Kind: KindEncode}
	ErrBusy         = &Error{Kind: KindBusy}
	ErrClosed       = &Error{Kind: KindClosed}
)

// errNeedMoreBytes tells the read loop the buffer does not yet hold a
// complete response. It never leaves the package.
var errNeedMoreBytes = errors.New("nntp: need more bytes")

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func responseCodeError(code int) *Error {
	return &Error{Kind: KindResponseCode, Code: code}
}

func fieldError(err error) *Error {
	return &Error{Kind: KindFieldDecode, Err: err}
}
