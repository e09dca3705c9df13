package nntp

import (
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ListRequest sends LIST with an optional keyword and argument, for example
// LIST ACTIVE comp.* or LIST NEWSGROUPS. The argument is only sent with a
// keyword.
type ListRequest struct {
	Keyword  string
	Argument string
}

// Encode writes "LIST" followed by the keyword and argument when set.
func (r ListRequest) Encode(w io.Writer) error {
	line := "LIST"
	if r.Keyword != "" {
		line += " " + r.Keyword
		if r.Argument != "" {
			line += " " + r.Argument
		}
	}
	_, err := io.WriteString(w, line)
	return err
}

var listCodes = Codes{{Code: 215, MultiLine: true, OK: true}}

// GroupStatus is the posting status column of LIST ACTIVE.
type GroupStatus byte

const (
	// PostingPermitted is status y.
	PostingPermitted    GroupStatus = 'y'
	// PostingNotPermitted is status n.
	PostingNotPermitted GroupStatus = 'n'
	// Moderated is status m.
	Moderated           GroupStatus = 'm'
)

// String describes the status in words.
func (s GroupStatus) String() string {
	switch s {
	case PostingPermitted:
		return "posting permitted"
	case PostingNotPermitted:
		return "posting not permitted"
	case Moderated:
		return "moderated"
	default:
		return "unknown"
	}
}

func parseGroupStatus(s string) (GroupStatus, error) {
	if len(s) == 1 {
		switch st := GroupStatus(s[0]); st {
		case PostingPermitted, PostingNotPermitted, Moderated:
			return st, nil
		}
	}
	return 0, fieldError(errors.Errorf("group status %q", s))
}

// ActiveGroup is one LIST ACTIVE line.
type ActiveGroup struct {
	Name   string
	High   int
	Low    int
	Status GroupStatus
}

// ListActiveResponse is the body of LIST or LIST ACTIVE.
type ListActiveResponse struct {
	Groups []ActiveGroup
}

// Codes returns the LIST classification table.
func (*ListActiveResponse) Codes() Codes { return listCodes }

// DecodeBody reads "name high low status" lines.
func (r *ListActiveResponse) DecodeBody(d *Decoder, _ int) error {
	return eachListLine(d, func(line *Decoder) (err error) {
		var g ActiveGroup
		if g.Name, err = Get[string](line); err != nil {
			return err
		}
		if g.High, err = Get[int](line); err != nil {
			return err
		}
		if g.Low, err = Get[int](line); err != nil {
			return err
		}
		status, err := Get[string](line)
		if err != nil {
			return err
		}
		if g.Status, err = parseGroupStatus(status); err != nil {
			return err
		}
		r.Groups = append(r.Groups, g)
		return nil
	})
}

// GroupTimes is one LIST ACTIVE.TIMES line: when the group was created,
// in seconds since the epoch, and by whom.
type GroupTimes struct {
	Name    string
	Created int64
	Creator string
}

// ListActiveTimesResponse is the body of LIST ACTIVE.TIMES.
type ListActiveTimesResponse struct {
	Groups []GroupTimes
}

// Codes returns the LIST classification table.
func (*ListActiveTimesResponse) Codes() Codes { return listCodes }

// DecodeBody reads "name created creator" lines.
func (r *ListActiveTimesResponse) DecodeBody(d *Decoder, _ int) error {
	return eachListLine(d, func(line *Decoder) (err error) {
		var g GroupTimes
		if g.Name, err = Get[string](line); err != nil {
			return err
		}
		if g.Created, err = Get[int64](line); err != nil {
			return err
		}
		if g.Creator, err = Get[string](line); err != nil {
			return err
		}
		r.Groups = append(r.Groups, g)
		return nil
	})
}

// GroupDescription is one LIST NEWSGROUPS line.
type GroupDescription struct {
	Name        string
	Description string
}

// ListNewsgroupsResponse is the body of LIST NEWSGROUPS.
type ListNewsgroupsResponse struct {
	Groups []GroupDescription
}

// Codes returns the LIST classification table.
func (*ListNewsgroupsResponse) Codes() Codes { return listCodes }

// DecodeBody reads "name description" lines.
func (r *ListNewsgroupsResponse) DecodeBody(d *Decoder, _ int) error {
	return eachListLine(d, func(line *Decoder) error {
		text, err := All[string](line)
		if err != nil {
			return err
		}
		var g GroupDescription
		if i := strings.IndexAny(text, " \t"); i >= 0 {
			g.Name, g.Description = text[:i], strings.TrimSpace(text[i+1:])
		} else {
			g.Name = text
		}
		r.Groups = append(r.Groups, g)
		return nil
	})
}

// eachListLine skips the rest of the status line and calls fn for every
// non-empty line after it.
func eachListLine(d *Decoder, fn func(line *Decoder) error) error {
	d.Line()
	for {
		line, ok := d.Line()
		if !ok {
			return nil
		}
		if line.Len() == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
}

// ListActive sends LIST ACTIVE, restricted to groups matching wildmat when
// it is not empty.
func (c *Conn) ListActive(wildmat string) (*Response[ListActiveResponse], error) {
	return Do[ListActiveResponse](c, ListRequest{Keyword: "ACTIVE", Argument: wildmat})
}

// ListActiveTimes sends LIST ACTIVE.TIMES.
func (c *Conn) ListActiveTimes(wildmat string) (*Response[ListActiveTimesResponse], error) {
	return Do[ListActiveTimesResponse](c, ListRequest{Keyword: "ACTIVE.TIMES", Argument: wildmat})
}

// ListNewsgroups sends LIST NEWSGROUPS.
func (c *Conn) ListNewsgroups(wildmat string) (*Response[ListNewsgroupsResponse], error) {
	return Do[ListNewsgroupsResponse](c, ListRequest{Keyword: "NEWSGROUPS", Argument: wildmat})
}
