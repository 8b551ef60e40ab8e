// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package logging builds the structured [slog.Logger] shared by every binary.

Output is JSON. When a log file is configured, entries go to a size-rotated
file managed by lumberjack instead of the provided writer, so a terminal
session is not interleaved with log lines.
*/
package logging

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation policy for file output.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// Options controls logger construction.
type Options struct {
	// App is attached to every entry as the "app" attribute.
	App string
	// Debug lowers the level to [slog.LevelDebug].
	Debug bool
	// Level is the minimum level when Debug is false. Zero means Info.
	Level slog.Level
	// File, when non-empty, is the path of a rotated log file.
	File string
}

// New returns a JSON logger writing to fallback, or to a rotated file when
// opts.File is set. The returned closer releases the file (a no-op otherwise).
func New(fallback io.Writer, opts Options) (*slog.Logger, io.Closer) {
	var (
		out    io.Writer = fallback
		closer io.Closer = nopCloser{}
	)

	if opts.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		out, closer = rotated, rotated
	}

	level := opts.Level
	if opts.Debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	if opts.App != "" {
		logger = logger.With(slog.String("app", opts.App))
	}

	return logger, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
