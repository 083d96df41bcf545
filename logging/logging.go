// Package logging turns the log_level and log_format settings of a render
// job into a *slog.Logger.
//
// Packages that log take a logger as an option and default to Nop, so a
// library caller sees nothing unless it passes one in. Only the CLI builds
// a real logger:
//
//	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Format names a handler encoding.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// New returns a logger writing to w at the named level and format.
// Unknown names fall back to info and text, matching ParseLevel and
// ParseFormat.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if ParseFormat(format) == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Nop returns a logger that drops every record.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps debug, info, warn(ing) and error, in any case, to a
// slog level. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseFormat maps "json", in any case, to FormatJSON and anything else to
// FormatText.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}
