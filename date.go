package nntp

import (
	"io"
	"time"

	"github.com/pkg/errors"
)

const dateLayout = "20060102150405"

// DateRequest asks for the server's clock.
type DateRequest struct{}

// Encode writes "DATE".
func (DateRequest) Encode(w io.Writer) error {
	_, err := io.WriteString(w, "DATE")
	return err
}

// DateResponse holds the server's answer as sent and parsed as UTC.
type DateResponse struct {
	Text string
	Time time.Time
}

var dateCodes = Codes{{Code: 111, OK: true}}

// Codes returns the DATE classification table.
func (*DateResponse) Codes() Codes { return dateCodes }

// DecodeBody parses the yyyymmddhhmmss timestamp.
func (r *DateResponse) DecodeBody(d *Decoder, _ int) error {
	text, _, err := d.LineString()
	if err != nil {
		return err
	}
	r.Text = text

	stamp, err := Get[string](NewDecoder([]byte(text)))
	if err != nil {
		return err
	}
	r.Time, err = time.ParseInLocation(dateLayout, stamp, time.UTC)
	if err != nil {
		return fieldError(errors.Wrap(err, "date"))
	}
	return nil
}

// Date sends DATE.
func (c *Conn) Date() (*Response[DateResponse], error) {
	return Do[DateResponse](c, DateRequest{})
}
