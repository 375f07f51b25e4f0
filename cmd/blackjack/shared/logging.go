package shared

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger builds the process logger. level is a charm log level name;
// format is text, json or logfmt. debug overrides level.
func SetupLogger(w io.Writer, level, format string, debug bool) (*log.Logger, error) {
	lvl := log.InfoLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		lvl = parsed
	}
	if debug {
		lvl = log.DebugLevel
	}

	opts := log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	}
	switch format {
	case "", "text":
		opts.Formatter = log.TextFormatter
	case "json":
		opts.Formatter = log.JSONFormatter
		opts.TimeFormat = time.RFC3339Nano
	case "logfmt":
		opts.Formatter = log.LogfmtFormatter
		opts.TimeFormat = time.RFC3339Nano
	default:
		return nil, fmt.Errorf("log format: unknown %q", format)
	}
	return log.NewWithOptions(w, opts), nil
}

// OpenLogFile opens path for appending. The terminal table owns the screen,
// so interactive sessions log to a file.
func OpenLogFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
