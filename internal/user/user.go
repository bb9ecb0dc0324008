package user

import (
	"strings"
	"time"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
	"github.com/google/uuid"
)

var (
	ErrUserNotFound     = internal.NewNotFoundError("User not found", internal.ErrCodeNotFound)
	ErrAccountExists    = internal.NewConflictError("Account already exist", internal.ErrCodeDuplicate)
	ErrPasswordMismatch = internal.NewValidationError("Passwords do not match", internal.ErrCodePasswordMismatch)
	ErrInvalidRole      = internal.NewBadRequestError("Invalid role_id", internal.ErrCodeValidationFailed)
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Avatar       *string
	PasswordHash string
	IsActive     bool
	RoleID       uuid.UUID
	Role         *rbac.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Record is a stored user with its role, when the role still exists.
type Record struct {
	User *userDatamodel.User
	Role *rbac.Role
}

func NewUser(dto CreateUserDTO, passwordHash string) *User {
	active := true
	if dto.IsActive != nil {
		active = *dto.IsActive
	}
	return &User{
		Name:         dto.Name,
		Email:        NormalizeEmail(dto.Email),
		PasswordHash: passwordHash,
		IsActive:     active,
		RoleID:       dto.RoleID,
	}
}

func (u *User) Apply(dto UpdateUserDTO) {
	u.Name = dto.Name
	u.RoleID = dto.RoleID
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) ToResponse() UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Role != nil {
		resp.Role = &RoleRef{
			ID:    u.Role.ID,
			Name:  u.Role.Name,
			Code:  u.Role.Code,
			Icon:  u.Role.Icon,
			Color: u.Role.Color,
		}
	}
	return resp
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Avatar:       u.Avatar,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		RoleID:       u.RoleID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Avatar:       u.Avatar,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		RoleID:       u.RoleID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromRecord(r Record) *User {
	u := FromDataModel(r.User)
	u.Role = r.Role
	return u
}
