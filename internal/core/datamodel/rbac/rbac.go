package rbac

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;size:250;not null"`
	Code      string    `gorm:"column:code;size:50;uniqueIndex"`
	Icon      string    `gorm:"column:icon;size:50"`
	Color     string    `gorm:"column:color;size:50"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Role) TableName() string { return "roles" }

func (r *Role) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type Permission struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;size:50;not null;uniqueIndex:uq_permissions_name_code"`
	Code        string    `gorm:"column:code;size:50;uniqueIndex:uq_permissions_name_code"`
	Description string    `gorm:"column:description;size:500"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Permission) TableName() string { return "permissions" }

func (p *Permission) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type PermissionDetail struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	PermissionID uuid.UUID `gorm:"column:permission_id;type:uuid;not null;uniqueIndex:uq_permissions_detail_permission_code"`
	Name         string    `gorm:"column:name;size:50;not null"`
	Code         string    `gorm:"column:code;size:50;uniqueIndex:uq_permissions_detail_permission_code"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PermissionDetail) TableName() string { return "permissions_detail" }

func (d *PermissionDetail) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// RolePermission grants a role use of a permission (resource).
type RolePermission struct {
	RoleID       uuid.UUID `gorm:"column:role_id;type:uuid;primaryKey"`
	PermissionID uuid.UUID `gorm:"column:permission_id;type:uuid;primaryKey"`
}

func (RolePermission) TableName() string { return "role_permissions" }

// RolePermissionDetail grants a role one action on a resource.
type RolePermissionDetail struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID             uuid.UUID `gorm:"column:role_id;type:uuid;not null;uniqueIndex:uq_role_permission_details"`
	PermissionDetailID uuid.UUID `gorm:"column:permission_detail_id;type:uuid;not null;uniqueIndex:uq_role_permission_details"`
}

func (RolePermissionDetail) TableName() string { return "role_permission_details" }

func (d *RolePermissionDetail) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Models lists the tables owned by this package in migration order.
func Models() []interface{} {
	return []interface{}{&Role{}, &Permission{}, &PermissionDetail{}, &RolePermission{}, &RolePermissionDetail{}}
}
