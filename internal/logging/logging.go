package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds a logger writing to w. Development mode uses zerolog's console
// writer; otherwise lines are JSON.
func New(w io.Writer, level zerolog.Level, dev bool) zerolog.Logger {
	if dev {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Init creates the process logger on stderr and installs it as the global
// zerolog logger. stdout is left free for prediction output.
func Init(level zerolog.Level, dev bool) zerolog.Logger {
	l := New(os.Stderr, level, dev)
	log.Logger = l
	zerolog.DefaultContextLogger = &l
	return l
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to a
// zerolog level. Unknown strings default to InfoLevel.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
