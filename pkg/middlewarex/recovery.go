package middlewarex

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/zenazn/goji/web/mutil"

	"explore_tours/pkg/httpx/reply"
	"explore_tours/pkg/logx"
)

// Recovery turns a handler panic into a 500 reply. When the handler already
// wrote a status line, the connection keeps what was sent and only the log
// records the panic.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		lw := mutil.WrapWriter(w)

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			if rec == http.ErrAbortHandler { //nolint:errorlint,goerr113
				panic(rec)
			}

			logger(ctx).Error(
				"panic in handler",
				slog.String(logx.FieldError, fmt.Sprint(rec)),
				slog.Int(logx.FieldResponseStatus, lw.Status()),
				slog.String(logx.FieldStack, string(debug.Stack())),
			)

			if lw.Status() == 0 {
				reply.Error(ctx, lw, fmt.Errorf("panic: %v", rec))
			}
		}()

		next.ServeHTTP(lw, r)
	})
}
