package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the process-wide structured logger. It discards everything
// until Init is called.
var Logger = zerolog.Nop()

// ParseLevel maps a config or flag value to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// Init routes log output to out (stderr when nil) through a console writer.
func Init(level zerolog.Level, out io.Writer) {
	if out == nil {
		out = os.Stderr
	}
	w := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
	}
	Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// SetOutput replaces the logger with a plain JSON logger writing to w.
// Tests use it to capture log lines.
func SetOutput(w io.Writer, level zerolog.Level) {
	Logger = zerolog.New(w).Level(level)
}

// Debug starts a debug event tagged with module.
func Debug(module string) *zerolog.Event {
	return Logger.Debug().Str("module", module)
}

// Info starts an info event tagged with module.
func Info(module string) *zerolog.Event {
	return Logger.Info().Str("module", module)
}

// Warn starts a warn event tagged with module.
func Warn(module string) *zerolog.Event {
	return Logger.Warn().Str("module", module)
}

// Error starts an error event tagged with module.
func Error(module string) *zerolog.Event {
	return Logger.Error().Str("module", module)
}
