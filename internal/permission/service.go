package permission

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/access"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*rbac.Permission, error)
	Count(ctx context.Context) (int64, error)
	// RoleNames maps each permission id to the names of the roles holding it.
	RoleNames(ctx context.Context, permissionIDs []uuid.UUID) (map[uuid.UUID][]string, error)
	GetByID(ctx context.Context, id uuid.UUID) (*rbac.Permission, error)
	GetByCode(ctx context.Context, code string) (*rbac.Permission, error)
	Create(ctx context.Context, p *rbac.Permission) error
	Update(ctx context.Context, p *rbac.Permission) error
	RoleGrants(ctx context.Context, permissionID uuid.UUID) ([]rbac.RolePermission, error)
	DeleteRoleGrant(ctx context.Context, grant rbac.RolePermission) error
	// GrantToRole reports false when no role has the given code.
	GrantToRole(ctx context.Context, roleCode string, permissionID uuid.UUID) (bool, error)
	// Delete removes the permission, its details and their role grants.
	Delete(ctx context.Context, id uuid.UUID) error

	ListDetails(ctx context.Context, permissionID *uuid.UUID) ([]*rbac.PermissionDetail, error)
	GetDetailByID(ctx context.Context, id uuid.UUID) (*rbac.PermissionDetail, error)
	GetDetailByCode(ctx context.Context, permissionID uuid.UUID, code string) (*rbac.PermissionDetail, error)
	CreateDetail(ctx context.Context, d *rbac.PermissionDetail) error
	UpdateDetail(ctx context.Context, d *rbac.PermissionDetail) error
	DeleteDetailGrants(ctx context.Context, detailID uuid.UUID) error
	DeleteDetail(ctx context.Context, id uuid.UUID) error
}

type Transactor interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type Service struct {
	repo   RepositoryAPI
	tx     Transactor
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, tx Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tx:     tx,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]PermissionWithRoles, int64, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count permissions", "error", err)
		return nil, 0, internal.StorageError("get", "permissions", err)
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list permissions", "error", err)
		return nil, 0, internal.StorageError("get", "permissions", err)
	}

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	names, err := s.repo.RoleNames(ctx, ids)
	if err != nil {
		s.logger.Error("failed to load permission roles", "error", err)
		return nil, 0, internal.StorageError("get", "permissions", err)
	}

	out := make([]PermissionWithRoles, 0, len(rows))
	for _, row := range rows {
		roleNames := names[row.ID]
		if roleNames == nil {
			roleNames = []string{}
		}
		out = append(out, PermissionWithRoles{
			PermissionResponse: FromDataModel(row).ToResponse(),
			RoleNames:          roleNames,
		})
	}
	return out, total, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*PermissionDetailedResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	details, err := s.repo.ListDetails(ctx, &p.ID)
	if err != nil {
		s.logger.Error("failed to load permission details", "error", err, "id", id)
		return nil, internal.StorageError("get", "permission", err)
	}

	return &PermissionDetailedResponse{
		PermissionResponse: p.ToResponse(),
		PermissionDetails:  detailResponses(details),
	}, nil
}

// Create stores the permission and grants it to the admin role when one exists.
func (s *Service) Create(ctx context.Context, dto PermissionDTO) (*PermissionResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p := NewPermission(dto)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByCode(txCtx, p.Code)
		if err != nil {
			return internal.StorageError("create", "permission", err)
		}
		if existing != nil {
			return ErrPermissionExists
		}

		data := ToDataModel(p)
		if err := s.repo.Create(txCtx, data); err != nil {
			return internal.StorageError("create", "permission", err)
		}
		p = FromDataModel(data)

		granted, err := s.repo.GrantToRole(txCtx, access.RoleAdmin, p.ID)
		if err != nil {
			return internal.StorageError("create", "permission", err)
		}
		if !granted {
			s.logger.Warn("admin role missing, permission left ungranted", "code", p.Code)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create permission", "error", err, "code", p.Code)
		return nil, err
	}

	s.logger.Info("permission created", "id", p.ID, "code", p.Code)
	resp := p.ToResponse()
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, dto PermissionDTO) (*PermissionResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var p *Permission
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		p, err = s.find(txCtx, id)
		if err != nil {
			return err
		}

		previous := p.Code
		p.Apply(dto)
		if p.Code != previous {
			existing, err := s.repo.GetByCode(txCtx, p.Code)
			if err != nil {
				return internal.StorageError("update", "permission", err)
			}
			if existing != nil {
				return ErrPermissionCodeTaken
			}
		}

		data := ToDataModel(p)
		if err := s.repo.Update(txCtx, data); err != nil {
			return ErrPermissionCodeTaken.WithCause(err)
		}
		p = FromDataModel(data)
		return nil
	})
	if err != nil {
		s.logger.Error("failed to update permission", "error", err, "id", id)
		return nil, err
	}

	resp := p.ToResponse()
	return &resp, nil
}

// Delete refuses while more than one role holds the permission. A single
// holder loses its grant along with the permission.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.find(txCtx, id); err != nil {
			return err
		}

		holders, err := s.repo.RoleGrants(txCtx, id)
		if err != nil {
			return internal.StorageError("delete", "permission", err)
		}
		switch {
		case len(holders) > 1:
			s.logger.Warn("permission still granted", "id", id, "roles", len(holders))
			return ErrPermissionInUse
		case len(holders) == 1:
			if err := s.repo.DeleteRoleGrant(txCtx, holders[0]); err != nil {
				s.logger.Error("failed to delete role permission", "error", err, "id", id)
				return internal.StorageError("delete", "permission", err)
			}
		}

		if err := s.repo.Delete(txCtx, id); err != nil {
			s.logger.Error("failed to delete permission", "error", err, "id", id)
			return internal.StorageError("delete", "permission", err)
		}
		s.logger.Info("permission deleted", "id", id)
		return nil
	})
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*Permission, error) {
	data, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get permission", "error", err, "id", id)
		return nil, internal.StorageError("get", "permission", err)
	}
	if data == nil {
		return nil, ErrPermissionNotFound
	}
	return FromDataModel(data), nil
}

func detailResponses(rows []*rbac.PermissionDetail) []DetailResponse {
	out := make([]DetailResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, DetailFromDataModel(row).ToResponse())
	}
	return out
}
