package nntp

// GreetingResponse is the banner a server sends when a client connects.
// Code 200 allows posting, 201 does not.
type GreetingResponse struct {
	Text string
}

var greetingCodes = Codes{
	{Code: 200, OK: true},
	{Code: 201, OK: true},
}

// Codes returns the greeting classification table.
func (*GreetingResponse) Codes() Codes { return greetingCodes }

// DecodeBody keeps the banner text.
func (g *GreetingResponse) DecodeBody(d *Decoder, _ int) error {
	text, _, err := d.LineString()
	g.Text = text
	return err
}
