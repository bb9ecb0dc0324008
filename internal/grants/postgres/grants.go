package postgres

import (
	"context"

	"github.com/frahmantamala/rbac-admin/internal/core/database"
	menuDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/menu"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	"github.com/frahmantamala/rbac-admin/internal/grants"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GrantRepository struct {
	db *gorm.DB
}

func NewGrantRepository(db *gorm.DB) grants.RepositoryAPI {
	return &GrantRepository{db: db}
}

func (r *GrantRepository) existing(ctx context.Context, model interface{}, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	var found []uuid.UUID
	if err := database.GetDB(ctx, r.db).Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		set[id] = struct{}{}
	}
	return set, nil
}

func (r *GrantRepository) ExistingPermissions(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	return r.existing(ctx, &rbac.Permission{}, ids)
}

func (r *GrantRepository) ExistingRoles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	return r.existing(ctx, &rbac.Role{}, ids)
}

func (r *GrantRepository) DetailParents(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	var details []rbac.PermissionDetail
	if err := database.GetDB(ctx, r.db).Select("id", "permission_id").Where("id IN ?", ids).Find(&details).Error; err != nil {
		return nil, err
	}
	parents := make(map[uuid.UUID]uuid.UUID, len(details))
	for _, d := range details {
		parents[d.ID] = d.PermissionID
	}
	return parents, nil
}

func (r *GrantRepository) DeleteRoleGrants(ctx context.Context, roleID uuid.UUID) error {
	db := database.GetDB(ctx, r.db)
	if err := db.Where("role_id = ?", roleID).Delete(&rbac.RolePermissionDetail{}).Error; err != nil {
		return err
	}
	return db.Where("role_id = ?", roleID).Delete(&rbac.RolePermission{}).Error
}

func (r *GrantRepository) InsertRolePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	rows := make([]rbac.RolePermission, len(permissionIDs))
	for i, id := range permissionIDs {
		rows[i] = rbac.RolePermission{RoleID: roleID, PermissionID: id}
	}
	return database.GetDB(ctx, r.db).Create(&rows).Error
}

func (r *GrantRepository) InsertRoleDetails(ctx context.Context, roleID uuid.UUID, detailIDs []uuid.UUID) error {
	if len(detailIDs) == 0 {
		return nil
	}
	rows := make([]rbac.RolePermissionDetail, len(detailIDs))
	for i, id := range detailIDs {
		rows[i] = rbac.RolePermissionDetail{RoleID: roleID, PermissionDetailID: id}
	}
	return database.GetDB(ctx, r.db).Create(&rows).Error
}

func (r *GrantRepository) DeleteMenuRoles(ctx context.Context, menuID uuid.UUID) error {
	return database.GetDB(ctx, r.db).Where("menu_id = ?", menuID).Delete(&menuDatamodel.RoleMenu{}).Error
}

func (r *GrantRepository) InsertMenuRoles(ctx context.Context, menuID uuid.UUID, roleIDs []uuid.UUID) error {
	if len(roleIDs) == 0 {
		return nil
	}
	rows := make([]menuDatamodel.RoleMenu, len(roleIDs))
	for i, id := range roleIDs {
		rows[i] = menuDatamodel.RoleMenu{RoleID: id, MenuID: menuID}
	}
	return database.GetDB(ctx, r.db).Create(&rows).Error
}
