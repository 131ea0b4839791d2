// Package logx is the application-wide logging facade, backed by zerolog.
package logx

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level mirrors the supported log levels
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var logger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.RFC3339,
}).With().Timestamp().Logger()

// SetLevel sets the global minimum level
func SetLevel(level Level) {
	switch level {
	case LevelDebug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case LevelWarn:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case LevelError:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func Debug(msg string)                  { logger.Debug().Msg(msg) }
func Debugf(format string, args ...any) { logger.Debug().Msgf(format, args...) }
func Info(msg string)                   { logger.Info().Msg(msg) }
func Infof(format string, args ...any)  { logger.Info().Msgf(format, args...) }
func Warn(msg string)                   { logger.Warn().Msg(msg) }
func Warnf(format string, args ...any)  { logger.Warn().Msgf(format, args...) }
func Error(msg string)                  { logger.Error().Msg(msg) }
func Errorf(format string, args ...any) { logger.Error().Msgf(format, args...) }

// Fatalf logs and exits the process
func Fatalf(format string, args ...any) { logger.Fatal().Msgf(format, args...) }

// Fields is structured context attached to a log entry
type Fields map[string]any

// Entry is a logger with fields pre-attached
type Entry struct {
	logger zerolog.Logger
}

// WithFields returns an Entry carrying the given fields
func WithFields(fields Fields) *Entry {
	return &Entry{
		logger: logger.With().Fields(map[string]any(fields)).Logger(),
	}
}

func (e *Entry) Debugf(format string, args ...any) { e.logger.Debug().Msgf(format, args...) }
func (e *Entry) Infof(format string, args ...any)  { e.logger.Info().Msgf(format, args...) }
func (e *Entry) Warnf(format string, args ...any)  { e.logger.Warn().Msgf(format, args...) }
func (e *Entry) Errorf(format string, args ...any) { e.logger.Error().Msgf(format, args...) }
