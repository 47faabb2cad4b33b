// Package snsctx carries per command settings through the bus and device calls.
package snsctx

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	keyVerbose ctxKey = iota
	keyLogger
)

// IsVerbose reports whether transports should dump the raw frames they exchange.
func IsVerbose(ctx context.Context) bool {
	v, _ := ctx.Value(keyVerbose).(bool)
	return v
}

func SetVerbose(ctx context.Context, value bool) context.Context {
	return context.WithValue(ctx, keyVerbose, value)
}

// Logger returns the logger attached with WithLogger or slog.Default.
func Logger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(keyLogger).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, keyLogger, l)
}
