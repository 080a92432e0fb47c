// Package logging builds the zerolog loggers used across yggdrasil.
//
// Terminals get human-readable console output; everything else, or
// Format "json", gets one JSON object per line:
//
//	log := logging.New(logging.Config{Level: "debug", Format: "console"})
//	log.Info().Str("path", path).Int("songs", n).Msg("catalog loaded")
//
// Packages receive a logger from their caller and tag it with Component.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Nop discards everything. It is the default for components created without
// a logger, and the logger of choice in tests.
var Nop = zerolog.Nop()

// Config holds logger configuration options
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error.
	Level string

	// Format is "console", "json" or "" to pick based on the output.
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer

	// NoColor disables color in console output.
	NoColor bool
}

// New creates a logger from cfg.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	if format == "" {
		format = "json"
		if isTerminal(out) {
			format = "console"
		}
	}

	if format == "console" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor || os.Getenv("NO_COLOR") != "",
		}
	}

	level := ParseLevel(cfg.Level)
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

// ParseLevel converts a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// isTerminal reports whether w is a terminal, Cygwin and MSYS included.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
