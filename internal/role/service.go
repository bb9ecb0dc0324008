package role

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/access"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	"github.com/frahmantamala/rbac-admin/internal/grants"
	"github.com/google/uuid"
)

type RoleCount struct {
	Role      *rbac.Role
	UserCount int64
}

type RepositoryAPI interface {
	ListWithUserCount(ctx context.Context) ([]RoleCount, error)
	GetByID(ctx context.Context, id uuid.UUID) (*rbac.Role, error)
	GetByCode(ctx context.Context, code string) (*rbac.Role, error)
	Create(ctx context.Context, role *rbac.Role) error
	Update(ctx context.Context, role *rbac.Role) error
	CountUsers(ctx context.Context, id uuid.UUID) (int64, error)
	// Delete removes the role with its grant and menu join rows.
	Delete(ctx context.Context, id uuid.UUID) error
}

type GrantWriter interface {
	ReplaceRolePermissions(ctx context.Context, roleID uuid.UUID, selections []grants.Selection) error
}

type GrantReader interface {
	GrantedTree(ctx context.Context, roleID uuid.UUID) ([]access.PermissionGrant, error)
}

type Transactor interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type Service struct {
	repo   RepositoryAPI
	grants GrantWriter
	tree   GrantReader
	tx     Transactor
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, grantWriter GrantWriter, tree GrantReader, tx Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		grants: grantWriter,
		tree:   tree,
		tx:     tx,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context) ([]RoleWithUserCount, error) {
	rows, err := s.repo.ListWithUserCount(ctx)
	if err != nil {
		s.logger.Error("failed to list roles", "error", err)
		return nil, internal.StorageError("get", "roles", err)
	}

	out := make([]RoleWithUserCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, RoleWithUserCount{
			RoleResponse: FromDataModel(row.Role).ToResponse(),
			UserCount:    row.UserCount,
		})
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*RoleDetailResponse, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, r)
}

func (s *Service) Create(ctx context.Context, dto RoleDTO) (*RoleDetailResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	r := &Role{}
	r.Apply(dto)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByCode(txCtx, r.Code)
		if err != nil {
			return internal.StorageError("create", "role", err)
		}
		if existing != nil {
			return ErrRoleExists
		}

		data := ToDataModel(r)
		if err := s.repo.Create(txCtx, data); err != nil {
			return internal.StorageError("create", "role", err)
		}
		r = FromDataModel(data)

		if len(dto.Permissions) > 0 {
			return s.grants.ReplaceRolePermissions(txCtx, r.ID, dto.Permissions)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create role", "error", err, "code", r.Code)
		return nil, err
	}

	s.logger.Info("role created", "id", r.ID, "code", r.Code)
	return s.detail(ctx, r)
}

// Update replaces the role's attributes and its whole grant set.
func (s *Service) Update(ctx context.Context, id uuid.UUID, dto RoleDTO) (*RoleDetailResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var r *Role
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		r, err = s.find(txCtx, id)
		if err != nil {
			return err
		}

		previous := r.Code
		r.Apply(dto)
		if r.Code != previous {
			existing, err := s.repo.GetByCode(txCtx, r.Code)
			if err != nil {
				return internal.StorageError("update", "role", err)
			}
			if existing != nil && existing.ID != r.ID {
				return errCodeTaken(dto.Name)
			}
		}

		if err := s.grants.ReplaceRolePermissions(txCtx, r.ID, dto.Permissions); err != nil {
			return err
		}

		data := ToDataModel(r)
		if err := s.repo.Update(txCtx, data); err != nil {
			return internal.StorageError("update", "role", err)
		}
		r = FromDataModel(data)
		return nil
	})
	if err != nil {
		s.logger.Error("failed to update role", "error", err, "id", id)
		return nil, err
	}

	return s.detail(ctx, r)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.find(txCtx, id); err != nil {
			return err
		}

		users, err := s.repo.CountUsers(txCtx, id)
		if err != nil {
			return internal.StorageError("delete", "role", err)
		}
		if users > 0 {
			return ErrRoleInUse
		}

		if err := s.repo.Delete(txCtx, id); err != nil {
			s.logger.Error("failed to delete role", "error", err, "id", id)
			return internal.StorageError("delete", "role", err)
		}
		s.logger.Info("role deleted", "id", id)
		return nil
	})
}

func (s *Service) detail(ctx context.Context, r *Role) (*RoleDetailResponse, error) {
	tree, err := s.tree.GrantedTree(ctx, r.ID)
	if err != nil {
		s.logger.Error("failed to load role grants", "error", err, "id", r.ID)
		return nil, internal.StorageError("get", "role", err)
	}
	return &RoleDetailResponse{
		RoleResponse: r.ToResponse(),
		Permissions:  tree,
	}, nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*Role, error) {
	data, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get role", "error", err, "id", id)
		return nil, internal.StorageError("get", "role", err)
	}
	if data == nil {
		return nil, ErrRoleNotFound
	}
	return FromDataModel(data), nil
}
