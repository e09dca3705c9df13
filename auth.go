package nntp

import (
	"fmt"
	"io"
)

// AuthinfoMode selects the AUTHINFO step.
type AuthinfoMode int

const (
	// AuthinfoUser sends the user name.
	AuthinfoUser AuthinfoMode = iota
	// AuthinfoPass sends the password.
	AuthinfoPass
)

// String returns the mode keyword, USER or PASS.
func (m AuthinfoMode) String() string {
	if m == AuthinfoPass {
		return "PASS"
	}
	return "USER"
}

// AuthinfoRequest sends one step of AUTHINFO USER/PASS authentication.
type AuthinfoRequest struct {
	Mode  AuthinfoMode
	Value string
}

// Encode writes "AUTHINFO USER name" or "AUTHINFO PASS password".
func (r AuthinfoRequest) Encode(w io.Writer) error {
	_, err := fmt.Fprintf(w, "AUTHINFO %s %s", r.Mode, r.Value)
	return err
}

// AuthinfoResponse holds the server's reply text. Code 281 means
// authenticated, 381 asks for the password.
type AuthinfoResponse struct {
	Text string
}

var authinfoCodes = Codes{
	{Code: 281, OK: true},
	{Code: 381, OK: true},
	{Code: 481, OK: false},
	{Code: 482, OK: false},
	{Code: 502, OK: false},
}

// Codes returns the AUTHINFO classification table.
func (*AuthinfoResponse) Codes() Codes { return authinfoCodes }

// DecodeBody keeps the status text.
func (a *AuthinfoResponse) DecodeBody(d *Decoder, _ int) error {
	text, _, err := d.LineString()
	a.Text = text
	return err
}

// Authenticate runs AUTHINFO USER and, when the server asks for it,
// AUTHINFO PASS. It returns the last response; check OK and Code to tell
// acceptance (281) from rejection.
func (c *Conn) Authenticate(user, password string) (*Response[AuthinfoResponse], error) {
	resp, err := Do[AuthinfoResponse](c, AuthinfoRequest{Mode: AuthinfoUser, Value: user})
	if err != nil || resp.Code() != 381 {
		return resp, err
	}
	return Do[AuthinfoResponse](c, AuthinfoRequest{Mode: AuthinfoPass, Value: password})
}
