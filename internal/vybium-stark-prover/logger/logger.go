// Package logger provides the shared zerolog logger used across the
// prover. It defaults to a human-readable console writer on stderr and
// can be redirected or disabled by the embedding application.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	logger = zerolog.New(output).With().Timestamp().Logger()
}

// Logger returns the shared logger.
func Logger() zerolog.Logger {
	return logger
}

// Set replaces the shared logger.
func Set(l zerolog.Logger) {
	logger = l
}

// SetOutput redirects the shared logger to w.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// Disable silences the shared logger.
func Disable() {
	logger = zerolog.Nop()
}
