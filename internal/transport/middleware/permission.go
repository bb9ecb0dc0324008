package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/access"
	"github.com/frahmantamala/rbac-admin/internal/transport"
)

type Checker interface {
	Check(ctx context.Context, p *access.Principal, req access.Requirement) error
}

// RequirePermission runs the guard before the handler, so a denied request
// never reaches it.
func RequirePermission(guard Checker, logger *slog.Logger, permission string, details ...string) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(logger)
	req := access.Require(permission, details...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := access.PrincipalFromContext(r.Context())
			if !ok {
				base.HandleServiceError(w, internal.ErrNotAuthenticated)
				return
			}

			if err := guard.Check(r.Context(), p, req); err != nil {
				base.HandleServiceError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
