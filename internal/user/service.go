package user

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/access"
	"github.com/frahmantamala/rbac-admin/internal/audit"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/rbac-admin/internal/menu"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]Record, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	CountByStatus(ctx context.Context) (active int64, inactive int64, err error)
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	RoleByID(ctx context.Context, id uuid.UUID) (*rbac.Role, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, u *userDatamodel.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	MetaForRole(ctx context.Context, roleID uuid.UUID) ([]userDatamodel.UserMeta, error)
	MetaDetails(ctx context.Context, userID uuid.UUID) ([]userDatamodel.UserMetaDetail, error)
	SaveMetaDetail(ctx context.Context, d *userDatamodel.UserMetaDetail) error
}

type Transactor interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type GrantReader interface {
	Tree(ctx context.Context, roleID uuid.UUID, roleCode string) ([]access.PermissionGrant, error)
}

type MenuLister interface {
	Visible(ctx context.Context, p *access.Principal) ([]menu.MenuResponse, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry) error
	RecordAsync(ctx context.Context, entry audit.Entry)
}

type Service struct {
	repo   RepositoryAPI
	hasher PasswordHasher
	grants GrantReader
	menus  MenuLister
	audit  AuditRecorder
	tx     Transactor
	logger *slog.Logger
}

func NewService(
	repo RepositoryAPI,
	hasher PasswordHasher,
	grants GrantReader,
	menus MenuLister,
	recorder AuditRecorder,
	tx Transactor,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		grants: grants,
		menus:  menus,
		audit:  recorder,
		tx:     tx,
		logger: logger,
	}
}

// List pages through users newest first. The status counts ignore the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) (*UserPage, error) {
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count users", "error", err)
		return nil, internal.StorageError("get", "users", err)
	}

	active, inactive, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("failed to count users by status", "error", err)
		return nil, internal.StorageError("get", "users", err)
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.StorageError("get", "users", err)
	}

	return &UserPage{
		Users:    toResponses(rows),
		CountAll: total,
		Active:   active,
		Inactive: inactive,
	}, nil
}

// ActiveInRole lists the active users holding roleCode. Name and email
// filters of filter still apply; its status and role are overridden.
func (s *Service) ActiveInRole(ctx context.Context, roleCode string, filter ListFilter) ([]UserResponse, int64, error) {
	active := true
	filter.Status = &active
	filter.RoleCode = roleCode

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count users in role", "error", err, "role", roleCode)
		return nil, 0, internal.StorageError("get", "users", err)
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list users in role", "error", err, "role", roleCode)
		return nil, 0, internal.StorageError("get", "users", err)
	}
	return toResponses(rows), total, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := u.ToResponse()
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*UserResponse, error) {
	dto = dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.Password != dto.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.StorageError("create", "user", err)
	}

	u := NewUser(dto, hash)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByEmail(txCtx, u.Email)
		if err != nil {
			return internal.StorageError("create", "user", err)
		}
		if existing != nil {
			return ErrAccountExists
		}

		role, err := s.requireRole(txCtx, u.RoleID)
		if err != nil {
			return err
		}
		u.Role = role

		data := ToDataModel(u)
		if err := s.repo.Create(txCtx, data); err != nil {
			return internal.StorageError("create", "user", err)
		}
		u.ID, u.CreatedAt, u.UpdatedAt = data.ID, data.CreatedAt, data.UpdatedAt
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create user", "error", err, "email", u.Email)
		return nil, err
	}

	s.logger.Info("user created", "id", u.ID, "email", u.Email)
	resp := u.ToResponse()
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, dto UpdateUserDTO) (*UserResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var u *User
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		if u, err = s.find(txCtx, id); err != nil {
			return err
		}
		u.Apply(dto)

		if u.Role, err = s.requireRole(txCtx, u.RoleID); err != nil {
			return err
		}
		if err := s.repo.Update(txCtx, ToDataModel(u)); err != nil {
			return internal.StorageError("update", "user", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to update user", "error", err, "id", id)
		return nil, err
	}

	resp := u.ToResponse()
	return &resp, nil
}

func (s *Service) ResetPassword(ctx context.Context, dto ResetPasswordDTO) (*MessageResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.Password != dto.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}

	u, err := s.find(ctx, dto.UserID)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.StorageError("update", "user", err)
	}
	if err := s.repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		s.logger.Error("failed to reset password", "error", err, "id", u.ID)
		return nil, internal.StorageError("update", "user", err)
	}

	s.logger.Info("password reset", "id", u.ID)
	return &MessageResponse{
		Status:  "success",
		Message: fmt.Sprintf("Reset password for user %s successfully", u.Email),
	}, nil
}

func (s *Service) Me(ctx context.Context, p *access.Principal) (*UserResponse, error) {
	resp, err := s.Get(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	s.audit.RecordAsync(ctx, s.entry(p, "", "get me"))
	return resp, nil
}

// Permissions is the caller's grant tree. The access is written to history
// before returning.
func (s *Service) Permissions(ctx context.Context, p *access.Principal) (*PermissionsResponse, error) {
	tree, err := s.grants.Tree(ctx, p.RoleID, p.RoleCode)
	if err != nil {
		s.logger.Error("failed to load permissions", "error", err, "role", p.RoleCode)
		return nil, internal.StorageError("get", "permissions", err)
	}
	if err := s.audit.Record(ctx, s.entry(p, "permission", "permission")); err != nil {
		return nil, err
	}
	return &PermissionsResponse{Permissions: tree}, nil
}

func (s *Service) Menu(ctx context.Context, p *access.Principal) (*MenuAccessResponse, error) {
	menus, err := s.menus.Visible(ctx, p)
	if err != nil {
		return nil, err
	}

	role, err := s.repo.RoleByID(ctx, p.RoleID)
	if err != nil {
		s.logger.Error("failed to get role", "error", err, "role_id", p.RoleID)
		return nil, internal.StorageError("get", "role", err)
	}
	if role == nil {
		return nil, ErrInvalidRole
	}

	tree, err := s.grants.Tree(ctx, role.ID, role.Code)
	if err != nil {
		s.logger.Error("failed to load permissions", "error", err, "role", role.Code)
		return nil, internal.StorageError("get", "permissions", err)
	}

	if err := s.audit.Record(ctx, s.entry(p, "menu", "menu")); err != nil {
		return nil, err
	}

	return &MenuAccessResponse{
		Status: "success",
		Menu:   menus,
		RolePermissionsDetail: RolePermissions{
			RoleRef:     roleRef(role),
			Permissions: tree,
		},
	}, nil
}

func (s *Service) entry(p *access.Principal, permission, detail string) audit.Entry {
	userID := p.UserID
	return audit.Entry{
		UserID:           &userID,
		Email:            p.Email,
		Permission:       permission,
		PermissionDetail: detail,
		StatusCode:       http.StatusOK,
	}
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*User, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "id", id)
		return nil, internal.StorageError("get", "user", err)
	}
	if rec == nil {
		return nil, ErrUserNotFound
	}
	return FromRecord(*rec), nil
}

func (s *Service) requireRole(ctx context.Context, id uuid.UUID) (*rbac.Role, error) {
	role, err := s.repo.RoleByID(ctx, id)
	if err != nil {
		return nil, internal.StorageError("get", "role", err)
	}
	if role == nil {
		return nil, ErrInvalidRole
	}
	return role, nil
}

func roleRef(r *rbac.Role) RoleRef {
	return RoleRef{ID: r.ID, Name: r.Name, Code: r.Code, Icon: r.Icon, Color: r.Color}
}

func toResponses(rows []Record) []UserResponse {
	out := make([]UserResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromRecord(row).ToResponse())
	}
	return out
}
