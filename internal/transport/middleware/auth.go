package middleware

import (
	"net/http"

	"github.com/frahmantamala/rbac-admin/internal/access"
	"github.com/frahmantamala/rbac-admin/pkg/logger"
)

// PrincipalContext tags the request logger with the authenticated caller.
func PrincipalContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := access.PrincipalFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "user_id", p.UserID.String(), "role", p.RoleCode)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
