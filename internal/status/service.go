package status

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal"
	statusDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/status"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	List(ctx context.Context, limit, offset int) ([]*statusDatamodel.Status, error)
	GetByID(ctx context.Context, id uuid.UUID) (*statusDatamodel.Status, error)
	Create(ctx context.Context, status *statusDatamodel.Status) error
	Update(ctx context.Context, status *statusDatamodel.Status) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]StatusResponse, error) {
	rows, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list statuses", "error", err)
		return nil, internal.StorageError("get", "status", err)
	}

	out := make([]StatusResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row).ToResponse())
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*StatusResponse, error) {
	st, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := st.ToResponse()
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, dto StatusDTO) (*StatusResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	st := &Status{}
	st.Apply(dto)
	data := ToDataModel(st)
	if err := s.repo.Create(ctx, data); err != nil {
		s.logger.Error("failed to create status", "error", err, "title", dto.Title)
		return nil, internal.StorageError("create", "status", err)
	}

	resp := FromDataModel(data).ToResponse()
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, dto StatusDTO) (*StatusResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	st, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	st.Apply(dto)

	data := ToDataModel(st)
	if err := s.repo.Update(ctx, data); err != nil {
		s.logger.Error("failed to update status", "error", err, "id", id)
		return nil, internal.StorageError("update", "status", err)
	}

	resp := FromDataModel(data).ToResponse()
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete status", "error", err, "id", id)
		return internal.StorageError("delete", "status", err)
	}
	return nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*Status, error) {
	data, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get status", "error", err, "id", id)
		return nil, internal.StorageError("get", "status", err)
	}
	if data == nil {
		return nil, ErrStatusNotFound
	}
	return FromDataModel(data), nil
}
