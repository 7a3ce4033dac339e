package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultPath is the log file used when none is configured, relative to the working directory.
const DefaultPath = "logs/bookshelf.log"

// defaultMaxLines bounds the in-memory console history.
const defaultMaxLines = 200

// Options configures New. A zero Options logs at info level to DefaultPath.
type Options struct {
	Path     string    // log file; ignored when Writer is set
	Writer   io.Writer // explicit sink, e.g. os.Stderr or a test buffer
	Level    string    // debug, info, warn, error
	MaxLines int       // console history kept in memory
}

// Logger keeps recent console lines in memory (drawn by the terminal overlay) and writes
// structured records through slog to a file or writer.
// A nil *Logger is valid and discards everything.
type Logger struct {
	mu       sync.Mutex
	lines    []string
	maxLines int
	parent   *Logger // set by With; console lines go to the root
	log      *slog.Logger
	closer   io.Closer
}

func (l *Logger) root() *Logger {
	for l.parent != nil {
		l = l.parent
	}
	return l
}

// New returns a Logger writing to opts.Writer, or to opts.Path (directory created as needed).
func New(opts Options) (*Logger, error) {
	w := opts.Writer
	var closer io.Closer
	if w == nil {
		path := opts.Path
		if path == "" {
			path = DefaultPath
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		w, closer = f, f
	}
	level, err := ParseLevel(opts.Level)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	maxLines := opts.MaxLines
	if maxLines <= 0 {
		maxLines = defaultMaxLines
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{log: slog.New(h), closer: closer, maxLines: maxLines}, nil
}

// Discard returns a Logger that keeps console lines but drops records.
func Discard() *Logger {
	return &Logger{log: slog.New(slog.NewTextHandler(io.Discard, nil)), maxLines: defaultMaxLines}
}

// ParseLevel maps a config string to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("logger: unknown level %q", s)
}

// Log appends a console line, prefixed with the local time, and records it at info level.
func (l *Logger) Log(line string) {
	if l == nil {
		return
	}
	stamped := "[" + time.Now().Format("15:04:05") + "] " + line
	r := l.root()
	r.mu.Lock()
	r.lines = append(r.lines, stamped)
	if over := len(r.lines) - r.maxLines; over > 0 {
		r.lines = append(r.lines[:0], r.lines[over:]...)
	}
	r.mu.Unlock()
	l.log.Info(line, "source", "console")
}

// Lines returns a copy of the console history, oldest first.
func (l *Logger) Lines() []string {
	if l == nil {
		return nil
	}
	r := l.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

func (l *Logger) Debug(msg string, args ...any) {
	if l != nil {
		l.log.Debug(msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l != nil {
		l.log.Info(msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	if l != nil {
		l.log.Warn(msg, args...)
	}
}

func (l *Logger) Error(msg string, args ...any) {
	if l != nil {
		l.log.Error(msg, args...)
	}
}

// With returns a Logger that adds args to every record and shares this logger's console history.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{parent: l, log: l.log.With(args...), maxLines: l.maxLines}
}

// Close releases the log file, if New opened one.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
