package middlewarex

import (
	"log/slog"
	"net/http"
	"strings"

	"explore_tours/pkg/contextx"
	"explore_tours/pkg/logx"
)

const headerNameForwardedFor = "X-Forwarded-For"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Logger stores a request scoped logger in the context. It must run after
// TraceID.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		traceID, err := contextx.TraceIDFromContext(ctx)
		if err != nil {
			logger(ctx).Error("contextx.TraceIDFromContext", logx.Error(err))
		}

		requestLogger := logger(ctx).With(
			logx.Stringer(logx.FieldTraceID, traceID),
			slog.String(logx.FieldHTTPMethod, r.Method),
			slog.String(logx.FieldURL, r.URL.RequestURI()),
			slog.String(logx.FieldIP, clientIP(r)),
		)

		if ua := r.UserAgent(); ua != "" {
			requestLogger = requestLogger.With(slog.String(logx.FieldUserAgent, ua))
		}

		next.ServeHTTP(w, r.WithContext(contextx.WithLogger(ctx, requestLogger)))
	})
}

// clientIP prefers the first X-Forwarded-For hop over the socket address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get(headerNameForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")

		return strings.TrimSpace(first)
	}

	return r.RemoteAddr
}
