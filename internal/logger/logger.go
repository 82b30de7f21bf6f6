package logger

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the logging interface used across the pipeline.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})
}

type implLogger struct {
	logger zerolog.Logger
}

// New creates a Logger at the given level. format is "console" for
// human-readable output or "json" for structured lines.
func New(level, format string) Logger {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if strings.ToLower(format) == "json" {
		zl = zerolog.New(os.Stdout)
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05"})
	}
	zl = zl.Level(parsed).With().Timestamp().Logger()

	return &implLogger{logger: zl}
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.logger.Debug().Msgf(msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.logger.Info().Msgf(msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.logger.Warn().Msgf(msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.logger.Error().Msgf(msg, args...)
}

// Nop returns a Logger that discards everything, for tests.
func Nop() Logger {
	return &implLogger{logger: zerolog.Nop()}
}
