package postgres

import (
	"context"

	"github.com/frahmantamala/rbac-admin/internal/audit"
	"github.com/frahmantamala/rbac-admin/internal/core/database"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) audit.RepositoryAPI {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Create(ctx context.Context, history *userDatamodel.UserHistory) error {
	return database.GetDB(ctx, r.db).Create(history).Error
}
