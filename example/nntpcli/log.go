package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger builds a tint logger writing to stderr, or to a rotated file
// when file is set. The closer releases the file.
func newLogger(level, file string) (*slog.Logger, io.Closer, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, errors.Wrapf(err, "log level %q", level)
	}

	opts := &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
	}

	if file == "" {
		return slog.New(tint.NewHandler(os.Stderr, opts)), nopCloser{}, nil
	}

	w := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
	opts.NoColor = true
	opts.TimeFormat = time.RFC3339
	return slog.New(tint.NewHandler(w, opts)), w, nil
}
