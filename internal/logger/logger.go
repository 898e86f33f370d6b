// Package logger provides structured logging for fdk on top of log/slog,
// with rotating file sinks, redaction of sensitive keys, and a styled
// console handler for interactive use.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"fdk/internal/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the application logger. It embeds slog.Logger and owns the
// file sinks opened for it; Close releases them.
type Logger struct {
	*slog.Logger
	sinks io.Closer
}

// New builds a Logger from the log configuration. Format selects the
// handler: "json", "pretty" for the styled console handler, anything
// else falls back to plain text.
func New(cfg config.LogConfig) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	sink, closer := openSinks(cfg)

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(sink, &slog.HandlerOptions{
			Level:     level,
			AddSource: cfg.EnableCaller,
		})
	case "pretty":
		handler = NewConsoleHandler(sink, &ConsoleOptions{
			Level:   level,
			NoColor: cfg.NoColor,
		})
	default:
		handler = slog.NewTextHandler(sink, &slog.HandlerOptions{
			Level:     level,
			AddSource: cfg.EnableCaller,
		})
	}

	if len(cfg.RedactFields) > 0 {
		handler = NewRedactingHandler(handler, cfg.RedactFields)
	}

	return &Logger{
		Logger: slog.New(handler),
		sinks:  closer,
	}, nil
}

// Default returns a logger backed by the process-wide slog default.
// Packages use it until the configured logger is injected.
func Default() *Logger {
	return &Logger{Logger: slog.Default()}
}

// With returns a Logger with the given attributes attached. Sink
// ownership stays with the parent.
func (l *Logger) With(attrs ...any) *Logger {
	return &Logger{Logger: l.Logger.With(attrs...)}
}

// WithGroup returns a Logger that nests subsequent attributes under name.
func (l *Logger) WithGroup(name string) *Logger {
	return &Logger{Logger: l.Logger.WithGroup(name)}
}

// Close flushes and closes any file sinks this logger opened.
func (l *Logger) Close() error {
	if l.sinks == nil {
		return nil
	}
	return l.sinks.Close()
}

// openSinks assembles the output writer from the configuration. Output
// names a console stream or a file path; FilePath adds a second,
// always-rotating file sink. With nothing configured, logs go to stderr.
func openSinks(cfg config.LogConfig) (io.Writer, io.Closer) {
	var (
		writers []io.Writer
		files   closeAll
	)

	addFile := func(path string) {
		f := rotatingFile(path, cfg)
		writers = append(writers, f)
		files = append(files, f)
	}

	switch strings.ToLower(cfg.Output) {
	case "stdout":
		writers = append(writers, os.Stdout)
	case "stderr":
		writers = append(writers, os.Stderr)
	case "":
	default:
		addFile(cfg.Output)
	}

	if cfg.FilePath != "" {
		addFile(cfg.FilePath)
	}

	if len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	var closer io.Closer
	if len(files) > 0 {
		closer = files
	}
	if len(writers) == 1 {
		return writers[0], closer
	}
	return io.MultiWriter(writers...), closer
}

// rotatingFile opens a size-rotated log file via lumberjack.
func rotatingFile(path string, cfg config.LogConfig) *lumberjack.Logger {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	if lj.MaxSize <= 0 {
		lj.MaxSize = 100
	}
	if lj.MaxBackups <= 0 {
		lj.MaxBackups = 3
	}
	if lj.MaxAge <= 0 {
		lj.MaxAge = 28
	}
	return lj
}

// parseLevel maps a level name to its slog level. Empty means info.
func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// closeAll closes a set of sinks, keeping every error.
type closeAll []io.Closer

func (c closeAll) Close() error {
	var errs []error
	for _, closer := range c {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}
