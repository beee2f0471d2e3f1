package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/legaldesk/casectl/internal/util"
)

type Key struct{}

var LoggerKey = Key{}

// LevelTrace is a custom trace level for slog
// Using LevelDebug - 4 which equals -8
const LevelTrace = slog.LevelDebug - 4

func ConfigLevelStringToSlogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}

// Options configures the process logger.
type Options struct {
	// Level is one of trace, debug, info, warn, error.
	Level string
	// FilePath receives JSON records. Empty disables file logging.
	FilePath string
	// Console receives friendly error summaries, typically stderr.
	Console io.Writer
}

// New builds the process logger: JSON records go to the log file and error
// records are mirrored to the console. The returned closer releases the file.
func New(opts Options) (*slog.Logger, func() error, error) {
	level := ConfigLevelStringToSlogLevel(opts.Level)
	closer := func() error { return nil }

	var primary slog.Handler
	if opts.FilePath != "" {
		path := util.ExpandHome(opts.FilePath)
		if err := util.InitDir(path, 0o700); err != nil {
			return nil, closer, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file: %w", err)
		}
		closer = f.Close
		primary = slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: replaceLevelNames,
		})
	}

	var secondary slog.Handler
	if opts.Console != nil {
		secondary = NewFriendlyErrorHandler(opts.Console)
	}

	return slog.New(NewDualHandler(primary, secondary)), closer, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func replaceLevelNames(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl <= LevelTrace {
		a.Value = slog.StringValue("TRACE")
	}
	return a
}
