package postgres

import (
	"context"

	"github.com/frahmantamala/rbac-admin/internal/access"
	"github.com/frahmantamala/rbac-admin/internal/core/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GrantRepository struct {
	db *gorm.DB
}

func NewGrantRepository(db *gorm.DB) access.RepositoryAPI {
	return &GrantRepository{db: db}
}

type permissionRow struct {
	ID   uuid.UUID
	Code string
	Name string
}

type detailRow struct {
	ID           uuid.UUID
	PermissionID uuid.UUID
	Code         string
	Name         string
}

func (r *GrantRepository) GrantedPermissions(ctx context.Context, roleID uuid.UUID) ([]access.PermissionRef, error) {
	var rows []permissionRow
	err := database.GetDB(ctx, r.db).
		Table("permissions AS p").
		Select("p.id, p.code, p.name").
		Joins("JOIN role_permissions rp ON rp.permission_id = p.id").
		Where("rp.role_id = ?", roleID).
		Order("p.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toPermissionRefs(rows), nil
}

func (r *GrantRepository) GrantedDetails(ctx context.Context, roleID uuid.UUID) ([]access.DetailRef, error) {
	var rows []detailRow
	err := database.GetDB(ctx, r.db).
		Table("permissions_detail AS pd").
		Select("pd.id, pd.permission_id, pd.code, pd.name").
		Joins("JOIN role_permission_details rpd ON rpd.permission_detail_id = pd.id").
		Joins("JOIN role_permissions rp ON rp.role_id = rpd.role_id AND rp.permission_id = pd.permission_id").
		Where("rpd.role_id = ?", roleID).
		Order("pd.code ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDetailRefs(rows), nil
}

func (r *GrantRepository) AllPermissions(ctx context.Context) ([]access.PermissionRef, error) {
	var rows []permissionRow
	err := database.GetDB(ctx, r.db).
		Table("permissions").
		Select("id, code, name").
		Order("name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toPermissionRefs(rows), nil
}

func (r *GrantRepository) AllDetails(ctx context.Context) ([]access.DetailRef, error) {
	var rows []detailRow
	err := database.GetDB(ctx, r.db).
		Table("permissions_detail").
		Select("id, permission_id, code, name").
		Order("code ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDetailRefs(rows), nil
}

func (r *GrantRepository) OrphanDetailGrants(ctx context.Context) ([]access.OrphanGrant, error) {
	var rows []struct {
		RoleID             uuid.UUID
		PermissionDetailID uuid.UUID
	}
	err := database.GetDB(ctx, r.db).
		Table("role_permission_details AS rpd").
		Select("rpd.role_id, rpd.permission_detail_id").
		Joins("JOIN permissions_detail pd ON pd.id = rpd.permission_detail_id").
		Joins("LEFT JOIN role_permissions rp ON rp.role_id = rpd.role_id AND rp.permission_id = pd.permission_id").
		Where("rp.role_id IS NULL").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	orphans := make([]access.OrphanGrant, len(rows))
	for i, row := range rows {
		orphans[i] = access.OrphanGrant{RoleID: row.RoleID, PermissionDetailID: row.PermissionDetailID}
	}
	return orphans, nil
}

func toPermissionRefs(rows []permissionRow) []access.PermissionRef {
	refs := make([]access.PermissionRef, len(rows))
	for i, row := range rows {
		refs[i] = access.PermissionRef{ID: row.ID, Code: row.Code, Name: row.Name}
	}
	return refs
}

func toDetailRefs(rows []detailRow) []access.DetailRef {
	refs := make([]access.DetailRef, len(rows))
	for i, row := range rows {
		refs[i] = access.DetailRef{ID: row.ID, PermissionID: row.PermissionID, Code: row.Code, Name: row.Name}
	}
	return refs
}
