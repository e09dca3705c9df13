package nntp

import (
	"bytes"
	"log/slog"
)

// Logger is the interface for structured logging.
// It is designed to be compatible with *slog.Logger from the standard library.
// A Conn only logs its lifecycle; errors are returned, never logged.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// defaultLogger returns the default slog logger from the standard library.
func defaultLogger() Logger {
	return slog.Default()
}

// commandVerb returns the loggable part of an encoded command: its first
// word, or the first two for AUTHINFO. Arguments may carry credentials and
// are never logged.
func commandVerb(line []byte) string {
	line = bytes.TrimRight(line, "\r\n")
	verb, rest, _ := bytes.Cut(line, space)
	if string(verb) == "AUTHINFO" {
		mode, _, _ := bytes.Cut(rest, space)
		return "AUTHINFO " + string(mode)
	}
	return string(verb)
}
