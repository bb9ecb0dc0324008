package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/rbac-admin/internal/core/database"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	"github.com/frahmantamala/rbac-admin/internal/permission"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) permission.RepositoryAPI {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) List(ctx context.Context, filter permission.ListFilter) ([]*rbac.Permission, error) {
	var permissions []*rbac.Permission
	q := database.GetDB(ctx, r.db).Order("name ASC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	err := q.Find(&permissions).Error
	return permissions, err
}

func (r *PermissionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := database.GetDB(ctx, r.db).Model(&rbac.Permission{}).Count(&n).Error
	return n, err
}

func (r *PermissionRepository) RoleNames(ctx context.Context, permissionIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	out := make(map[uuid.UUID][]string)
	if len(permissionIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		PermissionID uuid.UUID
		Name         string
	}
	err := database.GetDB(ctx, r.db).
		Table("role_permissions AS rp").
		Select("rp.permission_id, ro.name").
		Joins("JOIN roles ro ON ro.id = rp.role_id").
		Where("rp.permission_id IN ?", permissionIDs).
		Order("ro.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.PermissionID] = append(out[row.PermissionID], row.Name)
	}
	return out, nil
}

func (r *PermissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*rbac.Permission, error) {
	return firstPermission(database.GetDB(ctx, r.db).Where("id = ?", id))
}

func (r *PermissionRepository) GetByCode(ctx context.Context, code string) (*rbac.Permission, error) {
	return firstPermission(database.GetDB(ctx, r.db).Where("code = ?", code))
}

func firstPermission(q *gorm.DB) (*rbac.Permission, error) {
	var p rbac.Permission
	if err := q.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PermissionRepository) Create(ctx context.Context, p *rbac.Permission) error {
	return database.GetDB(ctx, r.db).Create(p).Error
}

func (r *PermissionRepository) Update(ctx context.Context, p *rbac.Permission) error {
	return database.GetDB(ctx, r.db).Save(p).Error
}

func (r *PermissionRepository) RoleGrants(ctx context.Context, permissionID uuid.UUID) ([]rbac.RolePermission, error) {
	var grants []rbac.RolePermission
	err := database.GetDB(ctx, r.db).Where("permission_id = ?", permissionID).Find(&grants).Error
	return grants, err
}

func (r *PermissionRepository) DeleteRoleGrant(ctx context.Context, grant rbac.RolePermission) error {
	return database.GetDB(ctx, r.db).
		Where("role_id = ? AND permission_id = ?", grant.RoleID, grant.PermissionID).
		Delete(&rbac.RolePermission{}).Error
}

func (r *PermissionRepository) GrantToRole(ctx context.Context, roleCode string, permissionID uuid.UUID) (bool, error) {
	db := database.GetDB(ctx, r.db)

	var ro rbac.Role
	if err := db.Where("code = ?", roleCode).First(&ro).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	grant := rbac.RolePermission{RoleID: ro.ID, PermissionID: permissionID}
	if err := db.Create(&grant).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *PermissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := database.GetDB(ctx, r.db)

	details := db.Model(&rbac.PermissionDetail{}).Select("id").Where("permission_id = ?", id)
	if err := db.Where("permission_detail_id IN (?)", details).Delete(&rbac.RolePermissionDetail{}).Error; err != nil {
		return err
	}
	if err := db.Where("permission_id = ?", id).Delete(&rbac.PermissionDetail{}).Error; err != nil {
		return err
	}
	if err := db.Where("permission_id = ?", id).Delete(&rbac.RolePermission{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&rbac.Permission{}).Error
}

func (r *PermissionRepository) ListDetails(ctx context.Context, permissionID *uuid.UUID) ([]*rbac.PermissionDetail, error) {
	var details []*rbac.PermissionDetail
	q := database.GetDB(ctx, r.db).Order("name ASC")
	if permissionID != nil {
		q = q.Where("permission_id = ?", *permissionID)
	}
	err := q.Find(&details).Error
	return details, err
}

func (r *PermissionRepository) GetDetailByID(ctx context.Context, id uuid.UUID) (*rbac.PermissionDetail, error) {
	return firstDetail(database.GetDB(ctx, r.db).Where("id = ?", id))
}

func (r *PermissionRepository) GetDetailByCode(ctx context.Context, permissionID uuid.UUID, code string) (*rbac.PermissionDetail, error) {
	return firstDetail(database.GetDB(ctx, r.db).Where("permission_id = ? AND code = ?", permissionID, code))
}

func firstDetail(q *gorm.DB) (*rbac.PermissionDetail, error) {
	var d rbac.PermissionDetail
	if err := q.First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *PermissionRepository) CreateDetail(ctx context.Context, d *rbac.PermissionDetail) error {
	return database.GetDB(ctx, r.db).Create(d).Error
}

func (r *PermissionRepository) UpdateDetail(ctx context.Context, d *rbac.PermissionDetail) error {
	return database.GetDB(ctx, r.db).Save(d).Error
}

func (r *PermissionRepository) DeleteDetailGrants(ctx context.Context, detailID uuid.UUID) error {
	return database.GetDB(ctx, r.db).Where("permission_detail_id = ?", detailID).Delete(&rbac.RolePermissionDetail{}).Error
}

func (r *PermissionRepository) DeleteDetail(ctx context.Context, id uuid.UUID) error {
	if err := r.DeleteDetailGrants(ctx, id); err != nil {
		return err
	}
	return database.GetDB(ctx, r.db).Where("id = ?", id).Delete(&rbac.PermissionDetail{}).Error
}
