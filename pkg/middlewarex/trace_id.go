package middlewarex

import (
	"net/http"

	"github.com/rs/xid"

	"explore_tours/pkg/contextx"
)

const (
	headerNameTraceID   = "X-Trace-Id"
	headerNameRequestID = "X-Request-Id"
)

// TraceID takes the trace id from X-Trace-Id, then X-Request-Id, and
// generates one when neither carries a usable value. The chosen id is echoed
// back in X-Trace-Id.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := incomingTraceID(r)
		if traceID == "" {
			traceID = contextx.TraceID(xid.New().String())
		}

		w.Header().Set(headerNameTraceID, traceID.String())

		next.ServeHTTP(w, r.WithContext(contextx.WithTraceID(r.Context(), traceID)))
	})
}

func incomingTraceID(r *http.Request) contextx.TraceID {
	for _, header := range []string{headerNameTraceID, headerNameRequestID} {
		if traceID := contextx.TraceID(r.Header.Get(header)); traceID.Valid() {
			return traceID
		}
	}

	return ""
}
