// Package logger builds the root zerolog logger from configuration.
package logger

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New constructs the root logger. Format is "json" for collection or
// "console" for local runs. The zerolog global level is set as a side
// effect so package-level log calls obey the same threshold.
func New(level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, err
	}

	var root zerolog.Logger
	switch strings.ToLower(format) {
	case "json":
		root = zerolog.New(os.Stdout).With().Timestamp().Logger()
	case "console":
		root = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	default:
		return zerolog.Logger{}, errors.New("unsupported log format")
	}

	zerolog.SetGlobalLevel(lvl)
	return root.Level(lvl), nil
}
