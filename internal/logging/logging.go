// Package logging builds the client's zerolog logger. The TUI owns the
// terminal, so log output goes to a file that the in-app log view tails.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// New opens the log file under dir and returns a logger writing console
// formatted lines to it, plus a closer for shutdown. The directory is
// created when missing.
func New(dir string) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, "roadwatch.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	writer := zerolog.ConsoleWriter{
		Out:        file,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	logger := zerolog.New(writer).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	return logger, file, nil
}

// Nop returns a logger that discards everything, for tests and for running
// before configuration is loaded.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
