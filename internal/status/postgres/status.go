package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/rbac-admin/internal/core/database"
	statusDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/status"
	"github.com/frahmantamala/rbac-admin/internal/status"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) status.RepositoryAPI {
	return &StatusRepository{db: db}
}

func (r *StatusRepository) List(ctx context.Context, limit, offset int) ([]*statusDatamodel.Status, error) {
	var rows []*statusDatamodel.Status
	q := database.GetDB(ctx, r.db).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *StatusRepository) GetByID(ctx context.Context, id uuid.UUID) (*statusDatamodel.Status, error) {
	var row statusDatamodel.Status
	err := database.GetDB(ctx, r.db).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *StatusRepository) Create(ctx context.Context, row *statusDatamodel.Status) error {
	return database.GetDB(ctx, r.db).Create(row).Error
}

func (r *StatusRepository) Update(ctx context.Context, row *statusDatamodel.Status) error {
	return database.GetDB(ctx, r.db).Save(row).Error
}

func (r *StatusRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.GetDB(ctx, r.db).Where("id = ?", id).Delete(&statusDatamodel.Status{}).Error
}
