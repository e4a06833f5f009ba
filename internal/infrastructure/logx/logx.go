package logx

import (
	"context"
	"strings"
	"sync"

	"goldprice/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	traceIDKey   ctxKey = "trace_id"
)

var (
	once   sync.Once
	logger *zap.Logger
)

// New builds a production JSON logger at the given level ("debug", "info", ...).
func New(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Sampling = nil
	zapCfg.DisableStacktrace = true
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, err
		}
	}
	return zapCfg.Build(zap.AddCaller())
}

// L returns the package-level logger. It is built on first use so that a
// .env loaded by main is already in the environment.
func L() *zap.Logger {
	once.Do(func() { logger = build(config.Load().LogLevel) })
	return logger
}

// build never fails: an unknown level falls back to info with a warning.
func build(level string) *zap.Logger {
	l, err := New(level)
	if err == nil {
		return l
	}
	l, _ = New("info")
	l.Warn("invalid_log_level", zap.String("level", level), zap.Error(err))
	return l
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey, id)
}

func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

func TraceID(ctx context.Context) string {
	v, _ := ctx.Value(traceIDKey).(string)
	return v
}

// WithFields returns the base logger enriched with request and trace IDs found in ctx.
func WithFields(ctx context.Context) *zap.Logger {
	l := L()
	if id := RequestID(ctx); id != "" {
		l = l.With(zap.String("request_id", id))
	}
	if id := TraceID(ctx); id != "" {
		l = l.With(zap.String("trace_id", id))
	}
	return l
}
