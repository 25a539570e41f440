// Package logging sets up the global zerolog logger and the analytics log.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger to write human readable lines to out.
// Debug lowers the level to debug and adds the caller to every line.
func Setup(out io.Writer, debug bool) {
	level := zerolog.InfoLevel

	logger := zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Stamp}).
		With().
		Timestamp()

	if debug {
		level = zerolog.DebugLevel
		logger = logger.Caller()
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = logger.Logger()
}

// Component returns the global logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
