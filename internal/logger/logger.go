package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = newLogger(os.Stdout, zerolog.InfoLevel)

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Init configures the process-wide logger. Unknown levels fall back to info.
func Init(level string) {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	log = newLogger(os.Stdout, lvl)
	log.Info().Msg("logger initialized")
}

// SetOutput redirects log output, keeping the current level.
func SetOutput(w io.Writer) {
	log = newLogger(w, log.GetLevel())
}

func Debug(msg string, fields map[string]any) {
	log.Debug().Fields(fields).Msg(msg)
}

func Info(msg string, fields map[string]any) {
	log.Info().Fields(fields).Msg(msg)
}

func Warn(msg string, fields map[string]any) {
	log.Warn().Fields(fields).Msg(msg)
}

func Error(msg string, fields map[string]any) {
	log.Error().Fields(fields).Msg(msg)
}

func Fatal(msg string, fields map[string]any) {
	log.WithLevel(zerolog.FatalLevel).Fields(fields).Msg(msg)
	os.Exit(1)
}
