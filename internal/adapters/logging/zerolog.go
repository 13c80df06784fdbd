package logging

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/meelinux/sssdcfg/internal/ports"
)

// ZerologLogger implements ports.Logger on top of rs/zerolog.
type ZerologLogger struct {
	mu     sync.RWMutex
	logger zerolog.Logger
	level  ports.Level
}

// ZerologOption configures the zerolog logger.
type ZerologOption func(*zerologConfig)

type zerologConfig struct {
	out     io.Writer
	level   ports.Level
	console bool
}

// WithOutput sets the output writer (default: os.Stderr).
func WithOutput(w io.Writer) ZerologOption {
	return func(c *zerologConfig) {
		c.out = w
	}
}

// WithLevel sets the minimum log level (default: Info).
func WithLevel(level ports.Level) ZerologOption {
	return func(c *zerologConfig) {
		c.level = level
	}
}

// WithConsoleFormat enables human-readable console output instead of JSON.
func WithConsoleFormat(enabled bool) ZerologOption {
	return func(c *zerologConfig) {
		c.console = enabled
	}
}

// NewZerologLogger creates a new zerolog-backed logger.
func NewZerologLogger(opts ...ZerologOption) *ZerologLogger {
	cfg := &zerologConfig{
		out:   os.Stderr,
		level: ports.LevelInfo,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	out := cfg.out
	if cfg.console {
		out = zerolog.ConsoleWriter{Out: cfg.out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).Level(toZerologLevel(cfg.level)).With().Timestamp().Logger()

	return &ZerologLogger{
		logger: logger,
		level:  cfg.level,
	}
}

// current snapshots the underlying logger under the read lock so that
// emits racing a SetLevel see a consistent value.
func (l *ZerologLogger) current() zerolog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.logger
}

// Debug logs a debug message.
func (l *ZerologLogger) Debug(_ context.Context, msg string, fields ...ports.Field) {
	logger := l.current()
	l.emit(logger.Debug(), msg, fields)
}

// Info logs an informational message.
func (l *ZerologLogger) Info(_ context.Context, msg string, fields ...ports.Field) {
	logger := l.current()
	l.emit(logger.Info(), msg, fields)
}

// Warn logs a warning message.
func (l *ZerologLogger) Warn(_ context.Context, msg string, fields ...ports.Field) {
	logger := l.current()
	l.emit(logger.Warn(), msg, fields)
}

// Error logs an error message.
func (l *ZerologLogger) Error(_ context.Context, msg string, fields ...ports.Field) {
	logger := l.current()
	l.emit(logger.Error(), msg, fields)
}

// With returns a new logger with additional fields.
func (l *ZerologLogger) With(fields ...ports.Field) ports.Logger {
	ctx := l.current().With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return &ZerologLogger{
		logger: ctx.Logger(),
		level:  l.Level(),
	}
}

// Level returns the minimum log level.
func (l *ZerologLogger) Level() ports.Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// SetLevel sets the minimum log level.
func (l *ZerologLogger) SetLevel(level ports.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.logger = l.logger.Level(toZerologLevel(level))
}

func (l *ZerologLogger) emit(event *zerolog.Event, msg string, fields []ports.Field) {
	for _, f := range fields {
		event = event.Interface(f.Key, f.Value)
	}
	event.Msg(msg)
}

func toZerologLevel(level ports.Level) zerolog.Level {
	switch level {
	case ports.LevelDebug:
		return zerolog.DebugLevel
	case ports.LevelWarn:
		return zerolog.WarnLevel
	case ports.LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Ensure ZerologLogger implements Logger.
var _ ports.Logger = (*ZerologLogger)(nil)
