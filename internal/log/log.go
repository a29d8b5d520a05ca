// Package log provides a registry of named slog loggers backed by
// rotating files. A name is configured once, on first Get, and stays
// immutable afterwards; the single sanctioned mutation is the explicit
// console opt-in. Tools share a logger by agreeing on a name instead of
// passing the object around.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultFileName  = "goutil_debug.log"
	defaultMaxSizeMB = 10
	defaultMaxFiles  = 5
)

// Options configure a named logger. They apply only on the first Get for
// a given name; later Gets return the existing logger untouched.
type Options struct {
	// File is the log file path. Empty means a debug log in the user's
	// home directory.
	File string
	// Level accepts debug, info, warn, warning, error, critical or fatal.
	Level string
	// MaxSizeMB and MaxFiles bound rotation.
	MaxSizeMB int
	MaxFiles  int
	// Console additionally mirrors records to stdout.
	Console bool
}

type entry struct {
	logger  *slog.Logger
	fanout  *fanoutHandler
	level   slog.Level
	console bool
}

// Registry owns the name-to-logger mapping. Pass it down explicitly;
// there is no package-level instance.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry

	// stdout is swapped in tests.
	stdout io.Writer
}

func NewRegistry() *Registry {
	return &Registry{
		entries: map[string]*entry{},
		stdout:  os.Stdout,
	}
}

// Get returns the logger registered under name, creating and configuring
// it from opts on first request. An existing logger's configuration is
// never modified, with one exception: opts.Console on a later Get behaves
// like EnableConsole.
func (r *Registry) Get(name string, opts Options) (*slog.Logger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[name]; ok {
		if opts.Console && !existing.console {
			r.addConsoleLocked(existing)
		}
		return existing.logger, nil
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	file := opts.File
	if file == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve default log path: %w", err)
		}
		file = filepath.Join(home, defaultFileName)
	}
	writer, err := newRotatingWriter(file, opts.MaxSizeMB, opts.MaxFiles)
	if err != nil {
		return nil, err
	}

	fanout := &fanoutHandler{}
	fanout.add(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level}))

	created := &entry{
		logger: slog.New(fanout),
		fanout: fanout,
		level:  level,
	}
	if opts.Console {
		r.addConsoleLocked(created)
	}
	r.entries[name] = created
	return created.logger, nil
}

// EnableConsole adds a stdout sink to an already-registered logger. It is
// the only post-creation mutation allowed, and it only happens once per
// name. Loggers derived earlier via With do not gain the sink.
func (r *Registry) EnableConsole(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.entries[name]
	if !ok {
		return fmt.Errorf("enable console: no logger registered under %q", name)
	}
	if !existing.console {
		r.addConsoleLocked(existing)
	}
	return nil
}

func (r *Registry) addConsoleLocked(e *entry) {
	e.fanout.add(slog.NewTextHandler(r.stdout, &slog.HandlerOptions{Level: e.level}))
	e.console = true
}

func newRotatingWriter(file string, maxSizeMB, maxFiles int) (*lumberjack.Logger, error) {
	if maxSizeMB <= 0 {
		maxSizeMB = defaultMaxSizeMB
	}
	if maxFiles <= 0 {
		maxFiles = defaultMaxFiles
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSizeMB,
		MaxBackups: maxFiles,
		Compress:   false,
	}, nil
}

// ParseLevel maps the accepted level names onto slog levels. Empty means
// info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error", "critical", "fatal":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log level %q is not one of debug, info, warn, warning, error, critical, fatal", level)
	}
}
