package user

import (
	"time"

	"github.com/frahmantamala/rbac-admin/internal/access"
	"github.com/frahmantamala/rbac-admin/internal/core/common/validation"
	"github.com/frahmantamala/rbac-admin/internal/menu"
	"github.com/google/uuid"
)

const minPasswordLength = 8

type CreateUserDTO struct {
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Password        string    `json:"password"`
	PasswordConfirm string    `json:"password_confirm"`
	RoleID          uuid.UUID `json:"role_id"`
	IsActive        *bool     `json:"is_active"`
}

// Normalize matches the stored form of the email.
func (d CreateUserDTO) Normalize() CreateUserDTO {
	d.Email = NormalizeEmail(d.Email)
	return d
}

func (d CreateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(250)
	v.Field("email", d.Email).Required().Email().MaxLength(250)
	v.Field("password", d.Password).Required().MinLength(minPasswordLength)
	v.Field("password_confirm", d.PasswordConfirm).Required()
	v.Field("role_id", d.RoleID).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateUserDTO struct {
	Name     string    `json:"name"`
	RoleID   uuid.UUID `json:"role_id"`
	IsActive *bool     `json:"is_active"`
}

func (d UpdateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(250)
	v.Field("role_id", d.RoleID).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ResetPasswordDTO struct {
	UserID          uuid.UUID `json:"user_id"`
	Password        string    `json:"password"`
	PasswordConfirm string    `json:"password_confirm"`
}

func (d ResetPasswordDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("user_id", d.UserID).Required()
	v.Field("password", d.Password).Required().MinLength(minPasswordLength)
	v.Field("password_confirm", d.PasswordConfirm).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ProfileInfoDTO struct {
	Name string `json:"name"`
}

type MetaValueDTO struct {
	MetaID       uuid.UUID  `json:"meta_id"`
	MetaDetailID *uuid.UUID `json:"meta_detail_id"`
	MetaValue    *string    `json:"meta_value"`
}

type ProfileDTO struct {
	Info     ProfileInfoDTO `json:"info"`
	UserMeta []MetaValueDTO `json:"user_meta"`
}

func (d ProfileDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("info.name", d.Info.Name).Required().MaxLength(250)
	for _, m := range d.UserMeta {
		v.Field("user_meta.meta_id", m.MetaID).Required()
		if m.MetaValue != nil {
			v.Field("user_meta.meta_value", *m.MetaValue).MaxLength(250)
		}
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ListFilter narrows the user list. Empty fields do not filter.
type ListFilter struct {
	Name     string
	Email    string
	Status   *bool
	RoleCode string
	Limit    int
	Offset   int
}

type RoleRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Code  string    `json:"code"`
	Icon  string    `json:"icon"`
	Color string    `json:"color"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    *string   `json:"avatar"`
	IsActive  bool      `json:"is_active"`
	Role      *RoleRef  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserPage struct {
	Users    []UserResponse
	CountAll int64
	Active   int64
	Inactive int64
}

type UsersResponse struct {
	Status        string         `json:"status"`
	UsersActive   int64          `json:"users_active"`
	UsersInactive int64          `json:"users_inactive"`
	CountAll      int64          `json:"count_all"`
	Results       int            `json:"results"`
	Users         []UserResponse `json:"users"`
}

type RoleMembersResponse struct {
	Status   string         `json:"status"`
	CountAll int64          `json:"count_all"`
	Results  int            `json:"results"`
	Users    []UserResponse `json:"users"`
}

type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type PermissionsResponse struct {
	Permissions []access.PermissionGrant `json:"permissions"`
}

type RolePermissions struct {
	RoleRef
	Permissions []access.PermissionGrant `json:"permissions"`
}

type MenuAccessResponse struct {
	Status                string              `json:"status"`
	Menu                  []menu.MenuResponse `json:"menu"`
	RolePermissionsDetail RolePermissions     `json:"role_permissions_detail"`
}

type ProfileInfo struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Status   bool    `json:"status"`
	RoleName string  `json:"role_name"`
	Avatar   *string `json:"avatar"`
}

type MetaValue struct {
	MetaID       uuid.UUID  `json:"meta_id"`
	MetaCode     string     `json:"meta_code"`
	MetaName     string     `json:"meta_name"`
	MetaDetailID *uuid.UUID `json:"meta_detail_id"`
	MetaValue    *string    `json:"meta_value"`
}

type ProfileResponse struct {
	Info     ProfileInfo `json:"info"`
	UserMeta []MetaValue `json:"user_meta"`
}
