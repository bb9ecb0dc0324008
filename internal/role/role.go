package role

import (
	"fmt"
	"time"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/access"
	"github.com/frahmantamala/rbac-admin/internal/core/common/validation"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	"github.com/google/uuid"
)

var (
	ErrRoleNotFound = internal.NewNotFoundError("Role not found", internal.ErrCodeNotFound)
	ErrRoleExists   = internal.NewBadRequestError("Role already exists", internal.ErrCodeDuplicate)
	ErrRoleInUse    = internal.NewNotFoundError("Role is being used", internal.ErrCodeInUse)
)

func errCodeTaken(name string) *internal.AppError {
	return internal.NewBadRequestError(fmt.Sprintf("Role with the updated code '%s' already exists", name), internal.ErrCodeDuplicate)
}

type Role struct {
	ID        uuid.UUID
	Name      string
	Code      string
	Icon      string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Apply copies the payload onto the role. A protected role keeps its code.
func (r *Role) Apply(dto RoleDTO) {
	code := validation.Code(dto.Code)
	if r.ID == uuid.Nil || !access.ProtectedRole(r.Code) {
		r.Code = code
	}
	r.Name = dto.Name
	r.Icon = dto.Icon
	r.Color = dto.Color
}

func (r *Role) ToResponse() RoleResponse {
	return RoleResponse{
		ID:        r.ID,
		Name:      r.Name,
		Code:      r.Code,
		Icon:      r.Icon,
		Color:     r.Color,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func ToDataModel(r *Role) *rbac.Role {
	return &rbac.Role{
		ID:        r.ID,
		Name:      r.Name,
		Code:      r.Code,
		Icon:      r.Icon,
		Color:     r.Color,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func FromDataModel(r *rbac.Role) *Role {
	return &Role{
		ID:        r.ID,
		Name:      r.Name,
		Code:      r.Code,
		Icon:      r.Icon,
		Color:     r.Color,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
