package access

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal/core/metrics"
)

// IntegrityScanner reports detail grants whose parent permission is not
// granted to the same role. Such rows never reach a GrantSet.
type IntegrityScanner struct {
	repo    RepositoryAPI
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewIntegrityScanner(repo RepositoryAPI, m *metrics.Metrics, logger *slog.Logger) *IntegrityScanner {
	return &IntegrityScanner{repo: repo, metrics: m, logger: logger}
}

func (s *IntegrityScanner) Scan(ctx context.Context) (int, error) {
	orphans, err := s.repo.OrphanDetailGrants(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "grant integrity scan failed", "error", err)
		return 0, err
	}

	s.metrics.SetOrphanDetailGrants(len(orphans))
	for _, o := range orphans {
		s.logger.WarnContext(ctx, "orphan permission detail grant",
			"role_id", o.RoleID,
			"permission_detail_id", o.PermissionDetailID)
	}
	s.logger.InfoContext(ctx, "grant integrity scan finished", "orphans", len(orphans))
	return len(orphans), nil
}
