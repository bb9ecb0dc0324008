package category

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal"
	categoryDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/category"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*categoryDatamodel.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*categoryDatamodel.Category, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	Update(ctx context.Context, category *categoryDatamodel.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]CategoryResponse, error) {
	dataCategories, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, internal.StorageError("get", "categories", err)
	}

	responses := make([]CategoryResponse, 0, len(dataCategories))
	for _, dataCategory := range dataCategories {
		responses = append(responses, FromDataModel(dataCategory).ToResponse())
	}
	return responses, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := c.ToResponse()
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, dto CategoryDTO) (*CategoryResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	data := ToDataModel(NewCategory(dto))
	if err := s.repo.Create(ctx, data); err != nil {
		s.logger.Error("failed to create category", "error", err, "name", dto.Name)
		return nil, internal.StorageError("create", "category", err)
	}

	s.logger.Info("category created", "id", data.ID, "name", data.Name)
	resp := FromDataModel(data).ToResponse()
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, dto CategoryDTO) (*CategoryResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Apply(dto)

	data := ToDataModel(c)
	if err := s.repo.Update(ctx, data); err != nil {
		s.logger.Error("failed to update category", "error", err, "id", id)
		return nil, internal.StorageError("update", "category", err)
	}

	resp := FromDataModel(data).ToResponse()
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete category", "error", err, "id", id)
		return internal.StorageError("delete", "category", err)
	}
	s.logger.Info("category deleted", "id", id)
	return nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*Category, error) {
	data, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get category", "error", err, "id", id)
		return nil, internal.StorageError("get", "category", err)
	}
	if data == nil {
		return nil, ErrCategoryNotFound
	}
	return FromDataModel(data), nil
}
