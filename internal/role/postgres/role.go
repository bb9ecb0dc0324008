package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/rbac-admin/internal/core/database"
	menuDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/menu"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/rbac-admin/internal/role"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) ListWithUserCount(ctx context.Context) ([]role.RoleCount, error) {
	var roles []*rbac.Role
	db := database.GetDB(ctx, r.db)
	if err := db.Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}

	var counts []struct {
		RoleID uuid.UUID
		Total  int64
	}
	err := db.Model(&userDatamodel.User{}).
		Select("role_id, COUNT(*) AS total").
		Group("role_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	byRole := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		byRole[c.RoleID] = c.Total
	}

	out := make([]role.RoleCount, len(roles))
	for i, ro := range roles {
		out[i] = role.RoleCount{Role: ro, UserCount: byRole[ro.ID]}
	}
	return out, nil
}

func (r *RoleRepository) first(ctx context.Context, query string, arg interface{}) (*rbac.Role, error) {
	var ro rbac.Role
	err := database.GetDB(ctx, r.db).Where(query, arg).First(&ro).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ro, nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id uuid.UUID) (*rbac.Role, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *RoleRepository) GetByCode(ctx context.Context, code string) (*rbac.Role, error) {
	return r.first(ctx, "code = ?", code)
}

func (r *RoleRepository) Create(ctx context.Context, ro *rbac.Role) error {
	return database.GetDB(ctx, r.db).Create(ro).Error
}

func (r *RoleRepository) Update(ctx context.Context, ro *rbac.Role) error {
	return database.GetDB(ctx, r.db).Save(ro).Error
}

func (r *RoleRepository) CountUsers(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := database.GetDB(ctx, r.db).Model(&userDatamodel.User{}).Where("role_id = ?", id).Count(&n).Error
	return n, err
}

func (r *RoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := database.GetDB(ctx, r.db)
	for _, model := range []interface{}{&rbac.RolePermissionDetail{}, &rbac.RolePermission{}, &menuDatamodel.RoleMenu{}} {
		if err := db.Where("role_id = ?", id).Delete(model).Error; err != nil {
			return err
		}
	}
	return db.Where("id = ?", id).Delete(&rbac.Role{}).Error
}
