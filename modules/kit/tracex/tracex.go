package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type traceIDKey struct{}
type spanIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	return stringValue(ctx, traceIDKey{})
}

func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanIDKey{}, spanID)
}

func SpanIDFrom(ctx context.Context) (string, bool) {
	return stringValue(ctx, spanIDKey{})
}

// EnsureTraceID 在 ctx 没有 trace_id 时补一个。
func EnsureTraceID(ctx context.Context) context.Context {
	if _, ok := TraceIDFrom(ctx); ok {
		return ctx
	}
	if tid := NewTraceID(); tid != "" {
		return WithTraceID(ctx, tid)
	}
	return ctx
}

// NewTraceID 生成 16 字节随机 trace_id（hex）。
func NewTraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}

func stringValue(ctx context.Context, key any) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, ok := ctx.Value(key).(string)
	return s, ok && s != ""
}
