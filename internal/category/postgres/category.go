package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/rbac-admin/internal/category"
	"github.com/frahmantamala/rbac-admin/internal/core/database"
	categoryDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/category"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context, filter category.ListFilter) ([]*categoryDatamodel.Category, error) {
	var categories []*categoryDatamodel.Category
	q := database.GetDB(ctx, r.db).Order("name ASC")
	if filter.Name != "" {
		q = q.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	err := q.Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := database.GetDB(ctx, r.db).Where("id = ?", id).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) Create(ctx context.Context, cat *categoryDatamodel.Category) error {
	return database.GetDB(ctx, r.db).Create(cat).Error
}

func (r *CategoryRepository) Update(ctx context.Context, cat *categoryDatamodel.Category) error {
	return database.GetDB(ctx, r.db).Save(cat).Error
}

func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.GetDB(ctx, r.db).Where("id = ?", id).Delete(&categoryDatamodel.Category{}).Error
}
