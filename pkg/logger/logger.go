// Package logger builds the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config selects verbosity and output format.
type Config struct {
	Level  string // trace, debug, info, warn, error
	Pretty bool   // human-readable console output instead of JSON
}

// New returns a logger writing to stderr, keeping stdout free for report
// output. Unknown level strings fall back to info rather than erroring;
// a bad LOG_LEVEL must not block an audit.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
