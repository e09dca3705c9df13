package nntp

import (
	"io"
	"time"
)

const newgroupsLayout = "20060102 150405"

// NewgroupsRequest asks for groups created since Since. The time is sent
// in UTC.
type NewgroupsRequest struct {
	Since time.Time
}

// Encode writes "NEWGROUPS yyyymmdd hhmmss GMT".
func (r NewgroupsRequest) Encode(w io.Writer) error {
	_, err := io.WriteString(w, "NEWGROUPS "+r.Since.UTC().Format(newgroupsLayout)+" GMT")
	return err
}

// NewgroupsResponse lists the new groups, one line each as sent.
type NewgroupsResponse struct {
	Groups []string
}

var newgroupsCodes = Codes{{Code: 231, MultiLine: true, OK: true}}

// Codes returns the NEWGROUPS classification table.
func (*NewgroupsResponse) Codes() Codes { return newgroupsCodes }

// DecodeBody collects the non-empty lines after the status line.
func (r *NewgroupsResponse) DecodeBody(d *Decoder, _ int) error {
	d.Line()
	for {
		line, ok, err := d.LineString()
		if err != nil || !ok {
			return err
		}
		if line != "" {
			r.Groups = append(r.Groups, line)
		}
	}
}

// Newgroups sends NEWGROUPS.
func (c *Conn) Newgroups(since time.Time) (*Response[NewgroupsResponse], error) {
	return Do[NewgroupsResponse](c, NewgroupsRequest{Since: since})
}
