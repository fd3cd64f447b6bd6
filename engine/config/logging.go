package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds the process logger. level is a slog level name
// ("debug", "info", "warn", "error"); empty means info. format "json"
// selects the JSON handler, anything else text.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lv slog.Level
	if level != "" {
		if err := lv.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("%w: log level %q", ErrInvalid, level)
		}
	}
	opts := &slog.HandlerOptions{Level: lv}
	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h), nil
}

// LoggerFromEnv reads GEOJUMP_LOG_LEVEL and GEOJUMP_LOG_FORMAT
func LoggerFromEnv(w io.Writer, getenv func(string) string) (*slog.Logger, error) {
	return NewLogger(w, getenv("GEOJUMP_LOG_LEVEL"), getenv("GEOJUMP_LOG_FORMAT"))
}
