package permission

import (
	"time"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/core/common/validation"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	"github.com/google/uuid"
)

var (
	ErrPermissionNotFound  = internal.NewNotFoundError("Permission not found", internal.ErrCodeNotFound)
	ErrPermissionExists    = internal.NewBadRequestError("Permission code already exists", internal.ErrCodeDuplicate)
	ErrPermissionCodeTaken = internal.NewBadRequestError("Cannot update permission. Maybe permission already exists", internal.ErrCodeDuplicate)
	ErrPermissionInUse     = internal.NewUnprocessableError("Cannot delete permission. It is associated with one or more roles.", internal.ErrCodeInUse)

	ErrDetailNotFound  = internal.NewNotFoundError("Permission Detail not found", internal.ErrCodeNotFound)
	ErrDetailExists    = internal.NewBadRequestError("Permission Detail code already exists", internal.ErrCodeDuplicate)
	ErrDetailCodeTaken = internal.NewBadRequestError("Cannot update permission detail. Maybe permission detail already exists", internal.ErrCodeDuplicate)
)

// Permission is a resource a role can be granted.
type Permission struct {
	ID          uuid.UUID
	Name        string
	Code        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewPermission(dto PermissionDTO) *Permission {
	p := &Permission{}
	p.Apply(dto)
	return p
}

func (p *Permission) Apply(dto PermissionDTO) {
	p.Name = dto.Name
	p.Code = validation.Code(dto.Code)
	p.Description = dto.Description
}

func (p *Permission) ToResponse() PermissionResponse {
	return PermissionResponse{
		ID:          p.ID,
		Name:        p.Name,
		Code:        p.Code,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToDataModel(p *Permission) *rbac.Permission {
	return &rbac.Permission{
		ID:          p.ID,
		Name:        p.Name,
		Code:        p.Code,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDataModel(p *rbac.Permission) *Permission {
	return &Permission{
		ID:          p.ID,
		Name:        p.Name,
		Code:        p.Code,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// Detail is an action under a permission.
type Detail struct {
	ID           uuid.UUID
	PermissionID uuid.UUID
	Name         string
	Code         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewDetail(dto DetailDTO) *Detail {
	d := &Detail{}
	d.Apply(dto)
	return d
}

func (d *Detail) Apply(dto DetailDTO) {
	d.PermissionID = dto.PermissionID
	d.Name = dto.Name
	d.Code = validation.Code(dto.Code)
}

func (d *Detail) ToResponse() DetailResponse {
	return DetailResponse{
		ID:           d.ID,
		PermissionID: d.PermissionID,
		Name:         d.Name,
		Code:         d.Code,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func DetailToDataModel(d *Detail) *rbac.PermissionDetail {
	return &rbac.PermissionDetail{
		ID:           d.ID,
		PermissionID: d.PermissionID,
		Name:         d.Name,
		Code:         d.Code,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func DetailFromDataModel(d *rbac.PermissionDetail) *Detail {
	return &Detail{
		ID:           d.ID,
		PermissionID: d.PermissionID,
		Name:         d.Name,
		Code:         d.Code,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
