package access

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/audit"
	"github.com/frahmantamala/rbac-admin/internal/core/metrics"
)

var ErrAccessDenied = internal.NewForbiddenError("User does not have required permissions", internal.ErrCodeAccessDenied)

// DeniedError carries the sets that failed the subset test.
type DeniedError struct {
	Required []string
	Granted  []string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("access denied: required %v, granted %v", e.Required, e.Granted)
}

func (e *DeniedError) Unwrap() error {
	return ErrAccessDenied
}

func (e *DeniedError) Missing() []string {
	granted := make(map[string]struct{}, len(e.Granted))
	for _, g := range e.Granted {
		granted[g] = struct{}{}
	}
	var missing []string
	for _, r := range e.Required {
		if _, ok := granted[r]; !ok {
			missing = append(missing, r)
		}
	}
	return missing
}

type AuditRecorder interface {
	RecordAsync(ctx context.Context, entry audit.Entry)
}

// Guard gates protected operations. Every decision is recorded through the
// audit recorder without waiting for the write.
type Guard struct {
	resolver *Resolver
	recorder AuditRecorder
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewGuard(resolver *Resolver, recorder AuditRecorder, m *metrics.Metrics, logger *slog.Logger) *Guard {
	return &Guard{
		resolver: resolver,
		recorder: recorder,
		metrics:  m,
		logger:   logger,
	}
}

func (g *Guard) Check(ctx context.Context, p *Principal, req Requirement) error {
	if p.IsAdmin() {
		g.record(ctx, p, req, http.StatusOK)
		return nil
	}

	grants, err := g.resolver.Resolve(ctx, p.RoleID, p.RoleCode)
	if err != nil {
		return internal.NewInternalError("failed to resolve grants", err)
	}

	if grants.Allows(req) {
		g.record(ctx, p, req, http.StatusOK)
		return nil
	}

	denied := &DeniedError{Required: req.codes(), Granted: grants.Codes()}
	g.logger.WarnContext(ctx, "access denied: insufficient permissions",
		"user_id", p.UserID,
		"role", p.RoleCode,
		"required", denied.Required,
		"missing", denied.Missing())
	g.record(ctx, p, req, http.StatusForbidden)
	return denied
}

func (g *Guard) record(ctx context.Context, p *Principal, req Requirement, status int) {
	permission := strings.Join(req.Permissions, ",")
	outcome := "allow"
	if status != http.StatusOK {
		outcome = "deny"
	}
	g.metrics.ObserveDecision(permission, outcome)

	userID := p.UserID
	g.recorder.RecordAsync(ctx, audit.Entry{
		UserID:           &userID,
		Email:            p.Email,
		Permission:       permission,
		PermissionDetail: strings.Join(req.Details, ","),
		StatusCode:       status,
	})
}
