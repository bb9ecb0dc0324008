package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/core/metrics"
	"github.com/frahmantamala/rbac-admin/pkg/logger"
	"github.com/go-chi/chi"
)

const (
	redacted       = "[FILTERED]"
	maxLoggedBody  = 4 << 10
	unmatchedRoute = "unmatched"
)

// Any JSON key containing one of these is masked in debug body logs.
var redactedKeys = []string{"password", "token", "secret", "authorization"}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *statusRecorder) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// LoggingMiddleware puts a request-scoped logger into the context and writes
// one access line per request. Request bodies are logged, redacted, at debug
// level only. Requests are observed in m by chi route pattern.
func LoggingMiddleware(base *slog.Logger, m *metrics.Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			lg := base.With("request_id", internal.RequestIDFromContext(r.Context()))
			ctx := logger.Into(r.Context(), lg)
			r = r.WithContext(ctx)

			if lg.Enabled(ctx, slog.LevelDebug) {
				logRequestBody(lg, r)
			}

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			elapsed := time.Since(start)
			m.ObserveRequest(r.Method, route, status, elapsed)

			lg.Log(ctx, levelFor(status), "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", status,
				"bytes", rec.bytes,
				"duration_ms", elapsed.Milliseconds(),
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent())
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}

func logRequestBody(lg *slog.Logger, r *http.Request) {
	if r.Body == nil || r.Body == http.NoBody {
		return
	}
	raw, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return
	}
	if len(raw) > maxLoggedBody {
		lg.Debug("request body", "size", len(raw), "body", "[TRUNCATED]")
		return
	}
	lg.Debug("request body", "size", len(raw), "body", redactBody(raw))
}

func redactBody(raw []byte) string {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		if sensitive(string(raw)) {
			return redacted
		}
		return string(raw)
	}
	out, err := json.Marshal(redactValue(doc))
	if err != nil {
		return redacted
	}
	return string(out)
}

func redactValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, inner := range val {
			if sensitive(k) {
				val[k] = redacted
				continue
			}
			val[k] = redactValue(inner)
		}
		return val
	case []interface{}:
		for i, inner := range val {
			val[i] = redactValue(inner)
		}
		return val
	default:
		return v
	}
}

func sensitive(s string) bool {
	s = strings.ToLower(s)
	for _, key := range redactedKeys {
		if strings.Contains(s, key) {
			return true
		}
	}
	return false
}
