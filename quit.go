package nntp

import "io"

// QuitRequest ends the session; the server closes the connection after
// answering.
type QuitRequest struct{}

// Encode writes "QUIT".
func (QuitRequest) Encode(w io.Writer) error {
	_, err := io.WriteString(w, "QUIT")
	return err
}

// QuitResponse carries the server's farewell text.
type QuitResponse struct {
	Text string
}

var quitCodes = Codes{{Code: 205, OK: true}}

// Codes returns the QUIT classification table.
func (*QuitResponse) Codes() Codes { return quitCodes }

// DecodeBody keeps the farewell text.
func (q *QuitResponse) DecodeBody(d *Decoder, _ int) error {
	text, _, err := d.LineString()
	q.Text = text
	return err
}

// Quit says goodbye to the server and closes the connection. The
// connection is closed even when the QUIT exchange fails.
func (c *Conn) Quit() error {
	_, err := Do[QuitResponse](c, QuitRequest{})
	if cerr := c.Close(); err == nil {
		err = cerr
	}
	return err
}
