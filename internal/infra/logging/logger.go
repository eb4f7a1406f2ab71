// Package logging provides console and file logging for tissue.
// Console output honours the quiet/verbose settings; the optional log file
// receives every entry at or above the configured level and is rotated by size.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/runoshun/tissue/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Options configures a Logger.
// Fields are ordered to minimize memory padding.
type Options struct {
	Console    io.Writer // Console destination (usually stderr); nil disables console output
	File       string    // Optional log file path
	RunID      string
	Level      slog.Level // Minimum level for the log file and the console in normal mode
	MaxSizeMB  int
	MaxBackups int
	Verbose    bool // Console shows debug entries
	Quiet      bool // Console shows errors only
}

// Logger writes log entries to the console and an optional rotating file.
// Fields are ordered to minimize memory padding.
type Logger struct {
	console      io.Writer
	file         io.WriteCloser
	now          func() time.Time
	runID        string
	mu           sync.Mutex
	level        slog.Level
	consoleLevel slog.Level
}

// New creates a Logger from options.
func New(opts Options) *Logger {
	l := &Logger{
		console:      opts.Console,
		runID:        opts.RunID,
		level:        opts.Level,
		consoleLevel: consoleLevel(opts),
		now:          time.Now,
	}
	if opts.File != "" {
		l.file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
	}
	return l
}

// NewWithFile creates a Logger writing file entries to w. This is useful for testing.
func NewWithFile(opts Options, w io.WriteCloser) *Logger {
	l := New(Options{Console: opts.Console, RunID: opts.RunID, Level: opts.Level, Verbose: opts.Verbose, Quiet: opts.Quiet})
	l.file = w
	return l
}

func consoleLevel(opts Options) slog.Level {
	switch {
	case opts.Quiet:
		return slog.LevelError
	case opts.Verbose:
		return slog.LevelDebug
	default:
		return max(opts.Level, slog.LevelInfo)
	}
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// formatLog formats a file log entry.
// Format: [2025-12-30 09:32:51] [INFO] [run-1a2b3c4d] [category] message
func formatLog(t time.Time, level slog.Level, runID, category, msg string) string {
	runStr := "run"
	if runID != "" {
		runStr = "run-" + domain.ShortRunID(runID)
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		runStr,
		category,
		msg,
	)
}

// formatConsole formats a console entry.
func formatConsole(level slog.Level, msg string) string {
	switch level {
	case slog.LevelDebug:
		return "[VERBOSE] " + msg + "\n"
	case slog.LevelWarn:
		return "Warning: " + msg + "\n"
	case slog.LevelError:
		return "Error: " + msg + "\n"
	default:
		return msg + "\n"
	}
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (l *Logger) log(level slog.Level, category, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil && level >= l.level {
		_, _ = io.WriteString(l.file, formatLog(l.now(), level, l.runID, category, msg))
	}
	if l.console != nil && level >= l.consoleLevel {
		_, _ = io.WriteString(l.console, formatConsole(level, msg))
	}
}

// Info logs an info message.
func (l *Logger) Info(category, msg string) {
	l.log(slog.LevelInfo, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(category, msg string) {
	l.log(slog.LevelDebug, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(category, msg string) {
	l.log(slog.LevelWarn, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(category, msg string) {
	l.log(slog.LevelError, category, msg)
}

// MaskToken hides all but the last four characters of a token.
func MaskToken(token string) string {
	if len(token) <= 4 {
		return "***"
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
