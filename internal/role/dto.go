package role

import (
	"time"

	"github.com/frahmantamala/rbac-admin/internal/access"
	"github.com/frahmantamala/rbac-admin/internal/core/common/validation"
	"github.com/frahmantamala/rbac-admin/internal/grants"
	"github.com/google/uuid"
)

type RoleDTO struct {
	Name        string             `json:"name"`
	Code        string             `json:"code"`
	Icon        string             `json:"icon"`
	Color       string             `json:"color"`
	Permissions []grants.Selection `json:"permissions"`
}

func (d RoleDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(250)
	v.Field("code", d.Code).Required().MaxLength(50)
	v.Field("icon", d.Icon).MaxLength(50)
	v.Field("color", d.Color).MaxLength(50)
	for _, p := range d.Permissions {
		v.Field("permission_id", p.PermissionID).Required()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type RoleResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RoleWithUserCount struct {
	RoleResponse
	UserCount int64 `json:"user_count"`
}

type RoleDetailResponse struct {
	RoleResponse
	Permissions []access.PermissionGrant `json:"permissions"`
}

type RolesResponse struct {
	Status  string              `json:"status"`
	Results int                 `json:"results"`
	Roles   []RoleWithUserCount `json:"roles"`
}
