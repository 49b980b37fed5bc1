// Package logging builds the zerolog logger shared by the CLI and server.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lgbarn/chessboard-go/internal/config"
	"github.com/lgbarn/chessboard-go/internal/errors"
)

// New returns a logger writing to w with the configured level and format.
// The logger is returned by value and passed explicitly; the zerolog
// global logger is never touched.
func New(cfg config.LogConfig, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", cfg.Level, errors.ErrInvalidConfig)
	}

	switch cfg.Format {
	case config.JSONLog:
	case config.ConsoleLog, "":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	default:
		return zerolog.Nop(), fmt.Errorf("log format %q: %w", cfg.Format, errors.ErrInvalidConfig)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
