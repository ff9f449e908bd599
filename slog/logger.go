// Package slog provides log/slog decorators for wcollama services and the
// logger constructor used by the binaries.
package slog

import (
	"io"
	"log/slog"
	"strings"

	"github.com/watercrawl/wcollama"
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewLogger returns a logger writing to w. level is one of debug, info,
// warn or error; format is text or json. Empty values mean info and text.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, wcollama.Errorf(wcollama.ECONFIG, "invalid log level %q", level)
		}
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, wcollama.Errorf(wcollama.ECONFIG, "invalid log format %q", format)
	}
}
