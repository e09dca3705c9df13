package nntp

import (
	"io"
	"strings"
)

// CapabilitiesRequest asks the server what it supports.
type CapabilitiesRequest struct{}

// Encode writes "CAPABILITIES".
func (CapabilitiesRequest) Encode(w io.Writer) error {
	_, err := io.WriteString(w, "CAPABILITIES")
	return err
}

// CapabilitiesResponse lists one capability line per entry, such as
// "VERSION 2" or "READER".
type CapabilitiesResponse struct {
	Capabilities []string
}

var capabilitiesCodes = Codes{{Code: 101, MultiLine: true, OK: true}}

// Codes returns the CAPABILITIES classification table.
func (*CapabilitiesResponse) Codes() Codes { return capabilitiesCodes }

// DecodeBody collects one capability per line after the status line.
func (r *CapabilitiesResponse) DecodeBody(d *Decoder, _ int) error {
	// The rest of the status line.
	d.Line()

	for {
		line, ok, err := d.LineString()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		r.Capabilities = append(r.Capabilities, line)
	}
}

// Has reports whether the capability label name was advertised,
// ignoring case and arguments.
func (r *CapabilitiesResponse) Has(name string) bool {
	for _, c := range r.Capabilities {
		label, _, _ := strings.Cut(c, " ")
		if strings.EqualFold(label, name) {
			return true
		}
	}
	return false
}

// Capabilities sends CAPABILITIES.
func (c *Conn) Capabilities() (*Response[CapabilitiesResponse], error) {
	return Do[CapabilitiesResponse](c, CapabilitiesRequest{})
}
