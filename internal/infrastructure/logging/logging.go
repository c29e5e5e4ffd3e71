package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the service logger. Development (or LOG_FORMAT=console) gets
// the human readable console writer; everything else emits JSON lines.
func New(w io.Writer, level, format string, development bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if development || strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "billing").
		Logger()
}

// Setup installs the logger as the package-level zerolog logger.
func Setup(level, format string, development bool) zerolog.Logger {
	l := New(os.Stdout, level, format, development)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = l
	return l
}
