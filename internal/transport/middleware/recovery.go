package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/frahmantamala/rbac-admin/pkg/logger"
)

var errPanic = internal.NewInternalError("Internal server error", nil)

// RecoveryMiddleware answers a panicking handler with the generic 500 body.
// The panic value and stack only go to the log.
func RecoveryMiddleware(fallback *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(fallback)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.From(r.Context()).Error("panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()))
				base.HandleServiceError(w, errPanic)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
