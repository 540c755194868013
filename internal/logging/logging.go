// Package logging installs the process-wide slog logger.
//
// Besides the standard slog levels it defines three extra severities used
// throughout the engine: TRACE (below DEBUG), SUCCESS (between INFO and
// WARN) and CRITICAL (above ERROR).
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Extra levels.
const (
	LevelTrace    = slog.Level(-8)
	LevelSuccess  = slog.Level(2)
	LevelCritical = slog.Level(12)

	// levelOff is above every level the engine logs at.
	levelOff = slog.Level(64)
)

// EnvLevel overrides Options.Level when set.
const EnvLevel = "ASHBORN_LOG_LEVEL"

// FileName is the log file created inside Options.Dir.
const FileName = "ashborn.log"

// Options configures Setup.
type Options struct {
	// Level is one of trace, debug, info, success, warn, error, critical
	// or off. Empty means info.
	Level string

	// Format is "text" (default) or "json".
	Format string

	// Dir, when non-empty, receives a log file teed with Writer.
	Dir string

	// Writer is the console sink. Defaults to os.Stderr.
	Writer io.Writer
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "success":
		return LevelSuccess, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "critical", "fatal":
		return LevelCritical, nil
	case "off", "none":
		return levelOff, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// LevelName renders a level, including the extra ones.
func LevelName(l slog.Level) string {
	switch {
	case l == LevelTrace:
		return "TRACE"
	case l == LevelSuccess:
		return "SUCCESS"
	case l == LevelCritical:
		return "CRITICAL"
	default:
		return l.String()
	}
}

// Setup builds a logger from opts, installs it as the slog default and
// returns it with a close function for the file sink.
func Setup(opts Options) (*slog.Logger, func() error, error) {
	levelName := opts.Level
	if v, ok := os.LookupEnv(EnvLevel); ok && v != "" {
		levelName = v
	}
	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	if opts.Writer != nil {
		w = opts.Writer
	}
	closer := func() error { return nil }

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(opts.Dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(w, f)
		closer = f.Close
	}

	handler, err := newHandler(w, opts.Format, level)
	if err != nil {
		closer()
		return nil, nil, err
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, closer, nil
}

func newHandler(w io.Writer, format string, level slog.Level) (slog.Handler, error) {
	hopts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevel,
	}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.NewTextHandler(w, hopts), nil
	case "json":
		return slog.NewJSONHandler(w, hopts), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(LevelName(l))
		}
	}
	return a
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Trace logs at LevelTrace.
func Trace(l *slog.Logger, msg string, args ...any) {
	l.Log(context.Background(), LevelTrace, msg, args...)
}

// Success logs at LevelSuccess.
func Success(l *slog.Logger, msg string, args ...any) {
	l.Log(context.Background(), LevelSuccess, msg, args...)
}

// Critical logs at LevelCritical.
func Critical(l *slog.Logger, msg string, args ...any) {
	l.Log(context.Background(), LevelCritical, msg, args...)
}
