package permission

import (
	"time"

	"github.com/frahmantamala/rbac-admin/internal/core/common/validation"
	"github.com/google/uuid"
)

type PermissionDTO struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (d PermissionDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(50)
	v.Field("code", d.Code).Required().MaxLength(50)
	v.Field("description", d.Description).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type DetailDTO struct {
	PermissionID uuid.UUID `json:"permission_id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
}

func (d DetailDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("permission_id", d.PermissionID).Required()
	v.Field("name", d.Name).Required().MaxLength(50)
	v.Field("code", d.Code).Required().MaxLength(50)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListFilter struct {
	Limit  int
	Offset int
}

type PermissionResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PermissionWithRoles struct {
	PermissionResponse
	RoleNames []string `json:"role_names"`
}

type PermissionDetailedResponse struct {
	PermissionResponse
	PermissionDetails []DetailResponse `json:"permissions_detail"`
}

type PermissionsResponse struct {
	Status      string                `json:"status"`
	CountAll    int64                 `json:"count_all"`
	Results     int                   `json:"results"`
	Permissions []PermissionWithRoles `json:"permissions"`
}

type DetailResponse struct {
	ID           uuid.UUID `json:"id"`
	PermissionID uuid.UUID `json:"permission_id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type DetailsResponse struct {
	Status            string           `json:"status"`
	Results           int              `json:"results"`
	PermissionDetails []DetailResponse `json:"permissions_detail"`
}
