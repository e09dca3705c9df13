package main

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zereker/nntp"
)

func TestFlatten(t *testing.T) {
	doc := map[string]any{
		"server":   []any{"news.example.org", "news.example.net:563"},
		"tls":      false,
		"user":     "joe",
		"timeout":  "5s",
		"log":      map[string]any{"level": "debug", "file": "/tmp/nntpcli.log"},
		"log_note": nil,
	}

	assert.Equal(t, map[string]string{
		"server":    "news.example.org,news.example.net:563",
		"tls":       "false",
		"user":      "joe",
		"timeout":   "5s",
		"log-level": "debug",
		"log-file":  "/tmp/nntpcli.log",
	}, flatten("", doc))
}

func TestConfigFile(t *testing.T) {
	resolver, err := yamlLoader(strings.NewReader(`
server:
  - news.example.org
  - news.example.net:563
tls: false
log:
  level: debug
`))
	require.NoError(t, err)

	var cli CLI
	parser, err := kong.New(&cli, kong.Resolvers(resolver))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"--log-level", "info", "date"})
	require.NoError(t, err)

	assert.Equal(t, []string{"news.example.org", "news.example.net:563"}, cli.Server)
	assert.False(t, cli.TLS)
	assert.Equal(t, "info", cli.LogLevel)
}

func TestConfigFile_Empty(t *testing.T) {
	_, err := yamlLoader(strings.NewReader(""))
	assert.NoError(t, err)

	_, err = yamlLoader(strings.NewReader("server: [unclosed"))
	assert.Error(t, err)
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in   string
		want nntp.Range
	}{
		{"7", nntp.ArticleRange(7)},
		{"7-", nntp.ArticlesFrom(7)},
		{"7-9", nntp.ArticlesBetween(7, 9)},
	}
	for _, tt := range tests {
		got, err := parseRange(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, in := range []string{"", "x", "-5", "9-7", "1-x"} {
		_, err := parseRange(in)
		assert.Error(t, err, in)
	}
}

func TestParseSelector(t *testing.T) {
	sel, err := parseSelector("<abc@example.org>")
	require.NoError(t, err)
	assert.Equal(t, nntp.MessageID("abc@example.org"), sel)

	sel, err = parseSelector("abc@example.org")
	require.NoError(t, err)
	assert.Equal(t, "<abc@example.org>", sel.String())

	sel, err = parseSelector("42")
	require.NoError(t, err)
	assert.Equal(t, nntp.ArticleNumber(42), sel)

	_, err = parseSelector("latest")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, closer, err := newLogger("debug", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())

	_, _, err = newLogger("loud", "")
	assert.Error(t, err)
}
