// Package logging configures structured logging for log/slog.
//
// Usage:
//
//	logging.Setup()                          // from LOG_* env
//	logging.SetupWithLevel(slog.LevelDebug)  // explicit level override
//
// Environment variables:
//
//	LOG_LEVEL:  debug, info, warn, error (default: info)
//	LOG_FORMAT: text (colored, default) or json
//	LOG_FILE:   also write JSON logs to this file, rotated by size
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the handler. The zero value is colored text on stderr.
type Options struct {
	Level  slog.Level
	Format string
	// File, when set, receives JSON logs through a rotating writer.
	File string
}

// Setup configures logging from LOG_LEVEL, LOG_FORMAT and LOG_FILE.
// The returned closer releases the log file, if any.
func Setup() io.Closer {
	return SetupWith(optionsFromEnv())
}

// SetupWithLevel configures colored logging at the given level.
func SetupWithLevel(level slog.Level) io.Closer {
	opts := optionsFromEnv()
	opts.Level = level
	return SetupWith(opts)
}

// SetupWith installs the default logger described by opts.
func SetupWith(opts Options) io.Closer {
	handler, closer := newHandler(os.Stderr, opts)
	slog.SetDefault(slog.New(handler))
	return closer
}

func newHandler(w io.Writer, opts Options) (slog.Handler, io.Closer) {
	var console slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		console = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level})
	} else {
		console = tint.NewHandler(w, &tint.Options{
			Level:      opts.Level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		})
	}

	if opts.File == "" {
		return console, nopCloser{}
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    100, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	file := slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: opts.Level})
	return fanout{console, file}, rotator
}

func optionsFromEnv() Options {
	return Options{
		Level:  levelFromEnv(),
		Format: os.Getenv("LOG_FORMAT"),
		File:   os.Getenv("LOG_FILE"),
	}
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
