package contextx

import (
	"context"
	"fmt"
)

const maxTraceIDLen = 64

type TraceID string

type contextKeyTraceID struct{}

func (t TraceID) String() string {
	return string(t)
}

// Valid reports whether t is non-empty, at most 64 bytes long and made of
// characters safe to echo into headers and log lines.
func (t TraceID) Valid() bool {
	if t == "" || len(t) > maxTraceIDLen {
		return false
	}

	for _, c := range []byte(t) {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.' || c == ':':
		default:
			return false
		}
	}

	return true
}

func WithTraceID(ctx context.Context, traceID TraceID) context.Context {
	return context.WithValue(ctx, contextKeyTraceID{}, traceID)
}

func TraceIDFromContext(ctx context.Context) (TraceID, error) {
	traceID, ok := ctx.Value(contextKeyTraceID{}).(TraceID)
	if !ok {
		return "", fmt.Errorf("trace id: %w", ErrNoValue)
	}

	return traceID, nil
}

// TraceIDOr returns the trace id stored in ctx or fallback.
func TraceIDOr(ctx context.Context, fallback string) string {
	traceID, err := TraceIDFromContext(ctx)
	if err != nil {
		return fallback
	}

	return traceID.String()
}
