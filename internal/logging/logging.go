// Package logging builds the structured logger shared by the simulator.
// Records are JSON lines; the level can be changed at runtime.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger is a slog.Logger with an adjustable level and an optional file
// sink.
type Logger struct {
	*slog.Logger
	level *slog.LevelVar
	file  *os.File
}

// New returns a logger writing to w and, if path is set, appending to the
// file at path. Parent directories of path are created. With neither, log
// output is discarded.
func New(path string, w io.Writer) (*Logger, error) {
	var writers []io.Writer
	if w != nil {
		writers = append(writers, w)
	}

	var file *os.File
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		writers = append(writers, f)
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = io.Discard
	case 1:
		out = writers[0]
	default:
		out = io.MultiWriter(writers...)
	}

	level := &slog.LevelVar{}
	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:     level,
		AddSource: false,
	})
	return &Logger{Logger: slog.New(handler), level: level, file: file}, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	l, _ := New("", nil)
	return l
}

// SetLevel changes the minimum level.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// SetRawLevel parses raw and sets the level. Unknown names select info.
func (l *Logger) SetRawLevel(raw string) {
	level, _ := ParseLevel(raw)
	l.level.Set(level)
}

// Level returns the current minimum level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ParseLevel maps a level name to a slog level. The empty string is info.
func ParseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level %q is not one of debug, info, warn, error", raw)
}
