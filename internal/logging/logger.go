// Package logging provides structured logging for museum-engine using zerolog.
// Human-readable console output is used on a terminal and JSON otherwise.
//
//	log := logging.FromContext(ctx)
//	log.Warn().Str("museum_id", "met").Err(err).Msg("search failed")
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/pdiddy/museum-engine/pkg/types"
)

var defaultLogger = newLogger(os.Stderr, types.LogConfig{Level: os.Getenv("LOG_LEVEL")})

// Nop discards everything.
var Nop = zerolog.Nop()

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// Configure rebuilds the default logger from cfg and returns it.
func Configure(cfg types.LogConfig) *zerolog.Logger {
	defaultLogger = newLogger(os.Stderr, cfg)
	return &defaultLogger
}

// New creates a JSON logger writing to w at the given level.
func New(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

func newLogger(w *os.File, cfg types.LogConfig) zerolog.Logger {
	var out io.Writer = w
	if useConsole(w, cfg.Format) {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	level := ParseLevel(cfg.Level)
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

func useConsole(w *os.File, format string) bool {
	switch strings.ToLower(format) {
	case "json":
		return false
	case "console", "pretty":
		return true
	default:
		if os.Getenv("LOG_FORMAT") == "json" {
			return false
		}
		return isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
	}
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	if s == "" {
		if os.Getenv("DEBUG") != "" {
			return zerolog.DebugLevel
		}
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
