package nntp

import (
	"io"
	"net/mail"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Range is an article number range for XOVER. Build one with ArticleRange,
// ArticlesFrom or ArticlesBetween; the zero value selects nothing and
// fails to encode.
type Range struct {
	from, to int
	open     bool
	set      bool
}

// ArticleRange selects the single article n.
func ArticleRange(n int) Range { return Range{from: n, to: n, set: true} }

// ArticlesFrom selects article n and every article after it.
func ArticlesFrom(n int) Range { return Range{from: n, open: true, set: true} }

// ArticlesBetween selects articles from through to, inclusive.
func ArticlesBetween(from, to int) Range { return Range{from: from, to: to, set: true} }

// IsZero reports whether r was not built by a constructor.
func (r Range) IsZero() bool { return !r.set }

// String renders r as N, N- or N-M.
func (r Range) String() string {
	switch {
	case r.open:
		return strconv.Itoa(r.from) + "-"
	case r.from == r.to:
		return strconv.Itoa(r.from)
	default:
		return strconv.Itoa(r.from) + "-" + strconv.Itoa(r.to)
	}
}

// XoverRequest fetches overview records for a range of the current group.
type XoverRequest struct {
	Range Range
}

// Encode writes "XOVER range". A zero Range is rejected.
func (r XoverRequest) Encode(w io.Writer) error {
	if r.Range.IsZero() {
		return errors.New("xover range not set")
	}
	_, err := io.WriteString(w, "XOVER "+r.Range.String())
	return err
}

// Overview is one XOVER record.
type Overview struct {
	Number     int
	Subject    string
	Author     string
	Date       time.Time
	MessageID  string
	References string
	Bytes      int
	Lines      int
}

// XoverResponse holds the overview records whose date could be parsed;
// records with an unreadable date are dropped.
type XoverResponse struct {
	Overviews []Overview
}

var xoverCodes = Codes{
	{Code: 224, MultiLine: true, OK: true},
	{Code: 412, OK: false},
	{Code: 420, OK: false},
}

// Codes returns the XOVER classification table.
func (*XoverResponse) Codes() Codes { return xoverCodes }

// DecodeBody reads one overview record per line after the status line.
func (r *XoverResponse) DecodeBody(d *Decoder, code int) error {
	if code != 224 {
		return nil
	}

	d.Line()
	for {
		line, ok := d.Line()
		if !ok {
			return nil
		}
		if line.Len() == 0 {
			continue
		}

		o, ok, err := decodeOverview(line)
		if err != nil {
			return err
		}
		if ok {
			r.Overviews = append(r.Overviews, o)
		}
	}
}

func decodeOverview(line *Decoder) (o Overview, ok bool, err error) {
	if o.Number, err = GetWithDelimiter[int](line, tab); err != nil {
		return o, false, err
	}
	if o.Subject, err = GetWithDelimiter[string](line, tab); err != nil {
		return o, false, err
	}
	if o.Author, err = GetWithDelimiter[string](line, tab); err != nil {
		return o, false, err
	}
	date, err := GetWithDelimiter[string](line, tab)
	if err != nil {
		return o, false, err
	}
	if o.MessageID, err = GetWithDelimiter[string](line, tab); err != nil {
		return o, false, err
	}
	if o.References, err = GetWithDelimiter[string](line, tab); err != nil {
		return o, false, err
	}
	if o.Bytes, err = optionalInt(line); err != nil {
		return o, false, err
	}
	if o.Lines, err = optionalInt(line); err != nil {
		return o, false, err
	}

	o.Date, ok = parseOverviewDate(date)
	return o, ok, nil
}

// optionalInt reads a numeric field that servers may leave empty.
func optionalInt(line *Decoder) (int, error) {
	s, err := GetWithDelimiter[string](line, tab)
	if err != nil || s == "" {
		return 0, err
	}
	return parseScalar[int]([]byte(s))
}

var overviewDateLayouts = []string{
	"Mon, 02 Jan 06 15:04:05 UTC",
	"Mon, 02 Jan 06 15:04:05 GMT",
	"Mon, 02 Jan 2006 15:04:05 UTC",
	"Mon, 02 Jan 2006 15:04:05 GMT",
}

func parseOverviewDate(s string) (time.Time, bool) {
	if t, err := mail.ParseDate(s); err == nil {
		return t.UTC(), true
	}
	for _, layout := range overviewDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Xover sends XOVER for r.
func (c *Conn) Xover(r Range) (*Response[XoverResponse], error) {
	return Do[XoverResponse](c, XoverRequest{Range: r})
}
