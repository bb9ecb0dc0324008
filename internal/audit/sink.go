package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal/core/events"
	"github.com/frahmantamala/rbac-admin/internal/core/metrics"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	Create(ctx context.Context, history *userDatamodel.UserHistory) error
}

// Sink appends user history rows. Record is the direct path and reports
// failures; RecordAsync never blocks and drops failures after logging them.
type Sink struct {
	repo    RepositoryAPI
	bus     *events.EventBus
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewSink(repo RepositoryAPI, bus *events.EventBus, m *metrics.Metrics, logger *slog.Logger) *Sink {
	s := &Sink{
		repo:    repo,
		bus:     bus,
		metrics: m,
		logger:  logger,
	}
	bus.Subscribe(EventRecorded, s.handleRecorded)
	return s
}

func (s *Sink) Record(ctx context.Context, entry Entry) error {
	if err := s.repo.Create(ctx, ToDataModel(entry)); err != nil {
		s.metrics.ObserveAuditWrite("direct", "error")
		s.logger.ErrorContext(ctx, "failed to create user history",
			"error", err,
			"email", entry.Email,
			"permission", entry.Permission,
			"permission_detail", entry.PermissionDetail)
		return ErrCannotCreateHistory.WithCause(err)
	}
	s.metrics.ObserveAuditWrite("direct", "ok")
	return nil
}

func (s *Sink) RecordAsync(ctx context.Context, entry Entry) {
	s.bus.Publish(ctx, events.NewEvent(EventRecorded, entry))
}

func (s *Sink) handleRecorded(ctx context.Context, event events.Event) error {
	entry, ok := event.Payload().(Entry)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload())
	}

	if err := s.repo.Create(ctx, ToDataModel(entry)); err != nil {
		s.metrics.ObserveAuditWrite("async", "error")
		return fmt.Errorf("create user history for %s: %w", entry.Email, err)
	}
	s.metrics.ObserveAuditWrite("async", "ok")
	return nil
}
