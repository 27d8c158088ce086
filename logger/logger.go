// Package logger provides JSON structured logging using zerolog.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config selects level, destination and timestamp format.
type Config struct {
	Level      string `json:"level"`
	Debug      bool   `json:"debug"`
	Output     string `json:"output"`
	TimeFormat string `json:"time_format"`
}

// Logger is the logging surface handed to every component.
type Logger interface {
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
	With() zerolog.Context
	WithComponent(component string) zerolog.Logger
	GetLevel() zerolog.Level
}

type zeroLogger struct {
	zerolog.Logger
}

// New builds a Logger from cfg. Output "stdout" writes to stdout; anything else
// (including empty) writes to stderr so record JSON on stdout stays clean.
func New(cfg Config) (Logger, error) {
	var output io.Writer = os.Stderr
	if cfg.Output == "stdout" {
		output = os.Stdout
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	} else if cfg.Level != "" {
		var err error

		level, err = zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
	}

	timeFormat := time.RFC3339
	if cfg.TimeFormat != "" {
		timeFormat = cfg.TimeFormat
	}
	zerolog.TimeFieldFormat = timeFormat

	return Wrap(zerolog.New(output).Level(level).With().Timestamp().Logger()), nil
}

// Wrap adapts an existing zerolog.Logger.
func Wrap(l zerolog.Logger) Logger {
	return &zeroLogger{Logger: l}
}

func (l *zeroLogger) WithComponent(component string) zerolog.Logger {
	return l.Logger.With().Str("component", component).Logger()
}

// NewTestLogger creates a no-op logger for testing that discards all output.
func NewTestLogger() Logger {
	return Wrap(zerolog.New(io.Discard).Level(zerolog.Disabled))
}

// Nop is the logger used when a component is given none.
func Nop() Logger {
	return NewTestLogger()
}
