package nntp

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServer(t *testing.T) {
	tests := []struct {
		in   string
		host string
		port uint16
		str  string
	}{
		{"news.example.org", "news.example.org", DefaultPort, "news.example.org:563"},
		{"news.example.org:119", "news.example.org", 119, "news.example.org:119"},
		{"127.0.0.1:1119", "127.0.0.1", 1119, "127.0.0.1:1119"},
		{"[::1]:119", "::1", 119, "[::1]:119"},
		{"[2001:db8::1]", "2001:db8::1", DefaultPort, "[2001:db8::1]:563"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s, err := ParseServer(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.host, s.Host())
			assert.Equal(t, tt.port, s.Port())
			assert.Equal(t, tt.str, s.String())
		})
	}
}

func TestParseServer_Invalid(t *testing.T) {
	for _, in := range []string{"", ":119", "news.example.org:", "news.example.org:nntp", "news.example.org:70000", "host:0", "[::1"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseServer(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrAddress), "got %v", err)
		})
	}
}

func TestNewServer(t *testing.T) {
	s, err := NewServer("news.example.org", 119)
	require.NoError(t, err)
	assert.Equal(t, "news.example.org:119", s.String())

	_, err = NewServer("", 119)
	assert.True(t, errors.Is(err, ErrAddress))

	_, err = NewServer("news.example.org", 0)
	assert.True(t, errors.Is(err, ErrAddress))
}
