package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/rbac-admin/internal/auth"
	"github.com/frahmantamala/rbac-admin/internal/core/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.RepositoryAPI {
	return &Repository{
		db: db,
	}
}

type identityRow struct {
	ID       uuid.UUID
	Email    string
	Name     string
	Password string
	IsActive bool
	RoleID   uuid.UUID
	RoleCode string
}

func (r *Repository) find(ctx context.Context, where string, arg interface{}) (*auth.Identity, error) {
	var row identityRow
	err := database.GetDB(ctx, r.db).
		Table("users AS u").
		Select("u.id, u.email, u.name, u.password, u.is_active, u.role_id, ro.code AS role_code").
		Joins("LEFT JOIN roles ro ON ro.id = u.role_id").
		Where(where, arg).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &auth.Identity{
		UserID:       row.ID,
		Email:        row.Email,
		Name:         row.Name,
		PasswordHash: row.Password,
		IsActive:     row.IsActive,
		RoleID:       row.RoleID,
		RoleCode:     row.RoleCode,
	}, nil
}

func (r *Repository) FindIdentityByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	return r.find(ctx, "u.email = ?", email)
}

func (r *Repository) FindIdentityByID(ctx context.Context, id uuid.UUID) (*auth.Identity, error) {
	return r.find(ctx, "u.id = ?", id)
}
