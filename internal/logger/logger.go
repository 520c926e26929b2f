// Package logger provides the zerolog constructor shared by the server
// binaries.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a JSON logger writing to stdout with a "role" field for
// filtering logs from different components.
func New(role string) zerolog.Logger {
	return zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Logger()
}
