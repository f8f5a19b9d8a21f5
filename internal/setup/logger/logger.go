package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the process logger. Output goes to stderr so the stdio MCP
// transport keeps stdout clean for protocol frames.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stderr).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
}
