package nntp

import (
	"bytes"
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"
)

var (
	crlf    = []byte("\r\n")
	dotCRLF = []byte("\r\n.\r\n")
	space   = []byte(" ")
	tab     = []byte("\t")
)

// Decoder is a consuming cursor over bytes received from a server.
//
// Every extraction removes the bytes it returns from the front of the
// cursor; consumed bytes are never observable again. The read loop of a
// Conn appends to the same Decoder as data arrives, so a decode attempt
// that reports it needs more data can be retried once the buffer grows.
type Decoder struct {
	buf []byte
}

// NewDecoder returns a Decoder over b. The Decoder takes ownership of b.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// Len returns the number of unconsumed bytes.
func (d *Decoder) Len() int {
	return len(d.buf)
}

// Bytes returns the unconsumed bytes without consuming them. The slice
// aliases the Decoder and is only valid until the next call that mutates it.
func (d *Decoder) Bytes() []byte {
	return d.buf
}

// Write appends p to the cursor. It never fails.
func (d *Decoder) Write(p []byte) (int, error) {
	d.buf = append(d.buf, p...)
	return len(p), nil
}

// Reset discards all unconsumed bytes, keeping the allocation.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
}

func (d *Decoder) skip(n int) {
	d.buf = d.buf[n:]
}

func (d *Decoder) truncate(n int) {
	d.buf = d.buf[:n]
}

// take removes the first n bytes and returns a copy of them.
func (d *Decoder) take(n int) []byte {
	out := make([]byte, n)
	copy(out, d.buf[:n])
	d.skip(n)
	return out
}

// Line removes the next line and returns it as a new Decoder that owns its
// bytes. The CRLF that ends the line is consumed and dropped.
//
// Bodies reach their decoders with the response terminator already
// stripped, so the last line carries no CRLF: when none is found the
// remaining bytes are returned as the final line. Line reports false only
// once the cursor is exhausted.
func (d *Decoder) Line() (*Decoder, bool) {
	if len(d.buf) == 0 {
		return nil, false
	}

	end := bytes.Index(d.buf, crlf)
	if end < 0 {
		return &Decoder{buf: d.take(len(d.buf))}, true
	}

	line := d.take(end)
	d.skip(len(crlf))
	return &Decoder{buf: line}, true
}

// LineString is Line returning the content as text. Content that is not
// valid UTF-8 fails with KindFieldDecode.
func (d *Decoder) LineString() (string, bool, error) {
	line, ok := d.Line()
	if !ok {
		return "", false, nil
	}
	if !utf8.Valid(line.buf) {
		return "", false, fieldError(errors.Errorf("line %q is not valid utf-8", line.buf))
	}
	return string(line.buf), true, nil
}

// Scalar is the set of types a field can be decoded into.
type Scalar interface {
	string | int | int64 | uint | uint64
}

// Get extracts the next space-delimited field and parses it as T. A CRLF
// that comes before the next space also ends the field.
func Get[T Scalar](d *Decoder) (T, error) {
	return GetWithDelimiter[T](d, space)
}

// GetWithDelimiter is Get with a caller-supplied delimiter, such as a tab
// for overview records. Whichever of delim and CRLF occurs first ends the
// field; the delimiter that ended it is consumed. With neither present the
// field runs to the end of the cursor.
func GetWithDelimiter[T Scalar](d *Decoder, delim []byte) (T, error) {
	end, skip := len(d.buf), 0

	if len(delim) > 0 {
		if i := bytes.Index(d.buf, delim); i >= 0 {
			end, skip = i, len(delim)
		}
	}
	if i := bytes.Index(d.buf, crlf); i >= 0 && i < end {
		end, skip = i, len(crlf)
	}

	token := d.buf[:end]
	d.skip(end + skip)
	return parseScalar[T](token)
}

// All consumes everything left in the cursor as a single field.
func All[T Scalar](d *Decoder) (T, error) {
	token := d.buf
	d.skip(len(d.buf))
	return parseScalar[T](token)
}

func parseScalar[T Scalar](token []byte) (T, error) {
	var v T

	if !utf8.Valid(token) {
		return v, fieldError(errors.Errorf("field %q is not valid utf-8", token))
	}

	s := string(token)
	var err error
	switch p := any(&v).(type) {
	case *string:
		*p = s
	case *int:
		*p, err = strconv.Atoi(s)
	case *int64:
		*p, err = strconv.ParseInt(s, 10, 64)
	case *uint:
		var u uint64
		u, err = strconv.ParseUint(s, 10, 0)
		*p = uint(u)
	case *uint64:
		*p, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return v, fieldError(errors.Wrapf(err, "field %q", s))
	}
	return v, nil
}
