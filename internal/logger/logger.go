// Package logger provides a context-aware structured logger
// built on top of zap.
package logger

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/KretovDmitry/squarehouse/internal/config"
	"github.com/google/uuid"
	sqldblogger "github.com/simukti/sqldb-logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a logger that supports log levels, context and structured logging.
// It also satisfies sqldblogger.Logger, so every database query can be
// logged through it.
type Logger interface {
	// With returns a logger based off the root logger and decorates it
	// with the given context and arguments.
	With(ctx context.Context, args ...any) Logger

	// Debug uses fmt.Sprint to construct and log a message at DEBUG level.
	Debug(args ...any)
	// Info uses fmt.Sprint to construct and log a message at INFO level.
	Info(args ...any)
	// Warn uses fmt.Sprint to construct and log a message at WARN level.
	Warn(args ...any)
	// Error uses fmt.Sprint to construct and log a message at ERROR level.
	Error(args ...any)

	// Debugf uses fmt.Sprintf to construct and log a message at DEBUG level.
	Debugf(format string, args ...any)
	// Infof uses fmt.Sprintf to construct and log a message at INFO level.
	Infof(format string, args ...any)
	// Warnf uses fmt.Sprintf to construct and log a message at WARN level.
	Warnf(format string, args ...any)
	// Errorf uses fmt.Sprintf to construct and log a message at ERROR level.
	Errorf(format string, args ...any)

	// Log implements sqldblogger.Logger.
	Log(ctx context.Context, level sqldblogger.Level, msg string, data map[string]any)

	// Sync flushes any buffered log entries.
	Sync() error
}

type logger struct {
	*zap.SugaredLogger
}

type contextKey int

const (
	requestIDKey contextKey = iota
	correlationIDKey
)

var (
	_ Logger             = (*logger)(nil)
	_ sqldblogger.Logger = (*logger)(nil)
)

// New creates a logger that writes colored human readable records
// to stdout and JSON records to a rotated log file.
func New(cfg *config.Config) (Logger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("new logger: nil config")
	}

	level, err := zapcore.ParseLevel(cfg.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logLevel := zap.NewAtomicLevelAt(level)

	stdout := zapcore.AddSync(os.Stdout)

	file := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Logger.Path,
		MaxSize:    cfg.Logger.MaxSizeMB,  // megabytes
		MaxBackups: cfg.Logger.MaxBackups, // max num of old log files
		MaxAge:     cfg.Logger.MaxAgeDays, // days
		Compress:   true,
	})

	productionCfg := zap.NewProductionEncoderConfig()
	productionCfg.TimeKey = "timestamp"
	productionCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	developmentCfg := zap.NewDevelopmentEncoderConfig()
	developmentCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(developmentCfg)
	fileEncoder := zapcore.NewJSONEncoder(productionCfg)

	var gitRevision, goVersion string
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		goVersion = buildInfo.GoVersion
		for _, v := range buildInfo.Settings {
			if v.Key == "vcs.revision" {
				gitRevision = v.Value
				break
			}
		}
	}

	// log to multiple destinations (console and file)
	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, stdout, logLevel),
		zapcore.NewCore(fileEncoder, file, logLevel).
			With([]zapcore.Field{
				zap.String("git_revision", gitRevision),
				zap.String("go_version", goVersion),
			}),
	)

	return NewWithZap(zap.New(core)), nil
}

// NewWithZap creates a new logger using the pre-configured zap logger.
func NewWithZap(l *zap.Logger) Logger {
	return &logger{l.Sugar()}
}

// NewForTest returns a new logger and the corresponding observed logs
// which can be used in unit tests to verify log entries.
func NewForTest() (Logger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewWithZap(zap.New(core)), recorded
}

// With returns a logger based off the root logger and decorates it
// with the given context and arguments.
//
// If the context contains request ID and/or correlation ID information
// (recorded via WithRequest), they will be added to every log message
// generated by the new logger.
//
// The arguments should be specified as a sequence of name, value pairs
// with names being strings.
func (l *logger) With(ctx context.Context, args ...any) Logger {
	if ctx != nil {
		if id, ok := ctx.Value(requestIDKey).(string); ok {
			args = append(args, zap.String("request_id", id))
		}
		if id, ok := ctx.Value(correlationIDKey).(string); ok {
			args = append(args, zap.String("correlation_id", id))
		}
	}
	if len(args) > 0 {
		return &logger{l.SugaredLogger.With(args...)}
	}
	return l
}

// Log implements sqldblogger.Logger.
func (l *logger) Log(ctx context.Context, level sqldblogger.Level,
	msg string, data map[string]any,
) {
	args := make([]any, 0, len(data)*2)
	for k, v := range data {
		args = append(args, k, v)
	}

	lg := l.With(ctx, args...)

	switch level {
	case sqldblogger.LevelError:
		lg.Error(msg)
	case sqldblogger.LevelInfo:
		lg.Info(msg)
	default:
		lg.Debug(msg)
	}
}

// WithRequest returns a context which knows the request ID
// and correlation ID in the given request.
func WithRequest(ctx context.Context, req *http.Request) context.Context {
	id := req.Header.Get("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	ctx = context.WithValue(ctx, requestIDKey, id)
	if cid := req.Header.Get("X-Correlation-ID"); cid != "" {
		ctx = context.WithValue(ctx, correlationIDKey, cid)
	}
	return ctx
}

// RequestID returns the request ID recorded by WithRequest.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
