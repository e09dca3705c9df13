package nntp

import (
	"fmt"
	"io"
)

// GroupRequest selects a newsgroup.
type GroupRequest struct {
	Name string
}

// Encode writes "GROUP name".
func (r GroupRequest) Encode(w io.Writer) error {
	_, err := fmt.Fprintf(w, "GROUP %s", r.Name)
	return err
}

// GroupResponse describes the selected group: the estimated article count
// and the low and high water marks. A 411 (no such group) leaves it zero.
type GroupResponse struct {
	Number int
	Low    int
	High   int
	Name   string
}

var groupCodes = Codes{
	{Code: 211, OK: true},
	{Code: 411, OK: false},
}

// Codes returns the GROUP classification table.
func (*GroupResponse) Codes() Codes { return groupCodes }

// DecodeBody reads "number low high name" for a 211.
func (g *GroupResponse) DecodeBody(d *Decoder, code int) (err error) {
	if code != 211 {
		return nil
	}

	if g.Number, err = Get[int](d); err != nil {
		return err
	}
	if g.Low, err = Get[int](d); err != nil {
		return err
	}
	if g.High, err = Get[int](d); err != nil {
		return err
	}
	g.Name, err = Get[string](d)
	return err
}

// Group sends GROUP name.
func (c *Conn) Group(name string) (*Response[GroupResponse], error) {
	return Do[GroupResponse](c, GroupRequest{Name: name})
}
