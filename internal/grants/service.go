package grants

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	ExistingPermissions(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error)
	// DetailParents maps each known detail id to its permission id.
	DetailParents(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
	ExistingRoles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error)

	DeleteRoleGrants(ctx context.Context, roleID uuid.UUID) error
	InsertRolePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error
	InsertRoleDetails(ctx context.Context, roleID uuid.UUID, detailIDs []uuid.UUID) error

	DeleteMenuRoles(ctx context.Context, menuID uuid.UUID) error
	InsertMenuRoles(ctx context.Context, menuID uuid.UUID, roleIDs []uuid.UUID) error
}

type Transactor interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// Service applies replace-all grant updates. Each call either fully replaces
// the previous set or leaves it untouched.
type Service struct {
	repo   RepositoryAPI
	tx     Transactor
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, tx Transactor, logger *slog.Logger) *Service {
	return &Service{repo: repo, tx: tx, logger: logger}
}

func (s *Service) ReplaceRolePermissions(ctx context.Context, roleID uuid.UUID, selections []Selection) error {
	selections = normalize(selections)

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.validateSelections(txCtx, selections); err != nil {
			return err
		}

		if err := s.repo.DeleteRoleGrants(txCtx, roleID); err != nil {
			return internal.StorageError("update", "role", err)
		}

		permissionIDs := make([]uuid.UUID, 0, len(selections))
		var detailIDs []uuid.UUID
		for _, sel := range selections {
			permissionIDs = append(permissionIDs, sel.PermissionID)
			detailIDs = append(detailIDs, sel.DetailIDs...)
		}

		if err := s.repo.InsertRolePermissions(txCtx, roleID, permissionIDs); err != nil {
			return internal.StorageError("update", "role", err)
		}
		if err := s.repo.InsertRoleDetails(txCtx, roleID, detailIDs); err != nil {
			return internal.StorageError("update", "role", err)
		}

		s.logger.InfoContext(ctx, "role grants replaced",
			"role_id", roleID,
			"permissions", len(permissionIDs),
			"details", len(detailIDs))
		return nil
	})
}

func (s *Service) validateSelections(ctx context.Context, selections []Selection) error {
	if len(selections) == 0 {
		return nil
	}

	permissionIDs := make([]uuid.UUID, 0, len(selections))
	var detailIDs []uuid.UUID
	for _, sel := range selections {
		permissionIDs = append(permissionIDs, sel.PermissionID)
		detailIDs = append(detailIDs, sel.DetailIDs...)
	}

	known, err := s.repo.ExistingPermissions(ctx, permissionIDs)
	if err != nil {
		return internal.StorageError("update", "role", err)
	}
	for _, id := range permissionIDs {
		if _, ok := known[id]; !ok {
			return ErrInvalidPermissionSelection.WithCause(fmt.Errorf("unknown permission %s", id))
		}
	}

	if len(detailIDs) == 0 {
		return nil
	}
	parents, err := s.repo.DetailParents(ctx, detailIDs)
	if err != nil {
		return internal.StorageError("update", "role", err)
	}
	for _, sel := range selections {
		for _, d := range sel.DetailIDs {
			parent, ok := parents[d]
			if !ok {
				return ErrInvalidPermissionSelection.WithCause(fmt.Errorf("unknown permission detail %s", d))
			}
			if parent != sel.PermissionID {
				return ErrInvalidPermissionSelection.WithCause(fmt.Errorf("permission detail %s does not belong to permission %s", d, sel.PermissionID))
			}
		}
	}
	return nil
}

func (s *Service) ReplaceMenuRoles(ctx context.Context, menuID uuid.UUID, roleIDs []uuid.UUID) error {
	roleIDs = uniqueIDs(roleIDs)

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if len(roleIDs) > 0 {
			known, err := s.repo.ExistingRoles(txCtx, roleIDs)
			if err != nil {
				return internal.StorageError("update", "menu", err)
			}
			for _, id := range roleIDs {
				if _, ok := known[id]; !ok {
					return ErrInvalidMenuRoles.WithCause(fmt.Errorf("unknown role %s", id))
				}
			}
		}

		if err := s.repo.DeleteMenuRoles(txCtx, menuID); err != nil {
			return internal.StorageError("update", "menu", err)
		}
		if err := s.repo.InsertMenuRoles(txCtx, menuID, roleIDs); err != nil {
			return internal.StorageError("update", "menu", err)
		}

		s.logger.InfoContext(ctx, "menu roles replaced", "menu_id", menuID, "roles", len(roleIDs))
		return nil
	})
}
