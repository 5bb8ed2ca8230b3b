package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mari8i/remind-me-the-hard-way/internal/security"
)

// Name is attached to every record as the "logger" attribute.
const Name = "remind-me-the-hard-way"

var (
	mu           sync.RWMutex
	globalLogger = newLogger(os.Stderr, "text", slog.LevelInfo)
	verboseMode  bool
	output       io.Writer = os.Stderr
	format                 = "text"
)

// Init initializes the global logger. Info is the floor for the daemon;
// verbose lowers it to debug.
func Init(verbose bool, logFormat string) {
	mu.Lock()
	defer mu.Unlock()

	verboseMode = verbose
	if logFormat != "" {
		format = logFormat
	}
	rebuild()
}

// SetOutput redirects log output. Tests use it to capture records.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	output = w
	rebuild()
}

func rebuild() {
	level := slog.LevelInfo
	if verboseMode {
		level = slog.LevelDebug
	}
	globalLogger = newLogger(output, format, level)
	slog.SetDefault(globalLogger)
}

func newLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: security.RedactAttr,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("logger", Name)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Debug logs debug messages, visible only in verbose mode
func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

// Error always logs
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

// IsVerbose returns whether verbose mode is enabled
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verboseMode
}
