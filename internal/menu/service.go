package menu

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/access"
	menuDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/menu"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	ListSubjectMenus(ctx context.Context, filter SubjectFilter) ([]*menuDatamodel.SubjectMenu, error)
	GetSubjectMenuByID(ctx context.Context, id uuid.UUID) (*menuDatamodel.SubjectMenu, error)
	GetSubjectMenuByCode(ctx context.Context, code string) (*menuDatamodel.SubjectMenu, error)
	CreateSubjectMenu(ctx context.Context, s *menuDatamodel.SubjectMenu) error
	UpdateSubjectMenu(ctx context.Context, s *menuDatamodel.SubjectMenu) error
	CountMenusBySubject(ctx context.Context, subjectID uuid.UUID) (int64, error)
	DeleteSubjectMenu(ctx context.Context, id uuid.UUID) error

	// ListMenus and GetMenuByID preload the subject and submenus.
	ListMenus(ctx context.Context, filter MenuFilter) ([]*menuDatamodel.Menu, error)
	GetMenuByID(ctx context.Context, id uuid.UUID) (*menuDatamodel.Menu, error)
	GetMenuByCode(ctx context.Context, code string) (*menuDatamodel.Menu, error)
	CreateMenu(ctx context.Context, m *menuDatamodel.Menu) error
	UpdateMenu(ctx context.Context, m *menuDatamodel.Menu) error
	// MenuRoles maps each menu id to the roles it is visible to.
	MenuRoles(ctx context.Context, menuIDs []uuid.UUID) (map[uuid.UUID][]rbac.Role, error)
	// DeleteMenu removes the role links, then the submenus, then the menu.
	DeleteMenu(ctx context.Context, id uuid.UUID) error

	ListSubMenus(ctx context.Context, filter SubMenuFilter) ([]*menuDatamodel.SubMenu, error)
	GetSubMenuByID(ctx context.Context, id uuid.UUID) (*menuDatamodel.SubMenu, error)
	CreateSubMenu(ctx context.Context, s *menuDatamodel.SubMenu) error
	UpdateSubMenu(ctx context.Context, s *menuDatamodel.SubMenu) error
	DeleteSubMenu(ctx context.Context, id uuid.UUID) error
}

type RoleWriter interface {
	ReplaceMenuRoles(ctx context.Context, menuID uuid.UUID, roleIDs []uuid.UUID) error
}

type Transactor interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type Service struct {
	repo   RepositoryAPI
	roles  RoleWriter
	tx     Transactor
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, roles RoleWriter, tx Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		roles:  roles,
		tx:     tx,
		logger: logger,
	}
}

// List returns the menus visible to p. Roles that see all menus skip the
// role-menu filter.
func (s *Service) List(ctx context.Context, p *access.Principal, filter MenuFilter) ([]MenuResponse, error) {
	filter.RoleID = nil
	if !access.SeesAllMenus(p.RoleCode) {
		roleID := p.RoleID
		filter.RoleID = &roleID
	}

	rows, err := s.repo.ListMenus(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list menus", "error", err, "role", p.RoleCode)
		return nil, internal.StorageError("get", "menu", err)
	}
	return s.withRoles(ctx, rows)
}

// Visible is every menu p may see, ordered by position.
func (s *Service) Visible(ctx context.Context, p *access.Principal) ([]MenuResponse, error) {
	return s.List(ctx, p, MenuFilter{})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*MenuResponse, error) {
	data, err := s.repo.GetMenuByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get menu", "error", err, "id", id)
		return nil, internal.StorageError("get", "menu", err)
	}
	if data == nil {
		return nil, ErrMenuNotFound
	}

	menus, err := s.withRoles(ctx, []*menuDatamodel.Menu{data})
	if err != nil {
		return nil, err
	}
	return &menus[0], nil
}

func (s *Service) Create(ctx context.Context, dto MenuDTO) (*MenuResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	m := &Menu{}
	m.Apply(dto)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkMenu(txCtx, m, "create"); err != nil {
			return err
		}

		data := ToDataModel(m)
		if err := s.repo.CreateMenu(txCtx, data); err != nil {
			return internal.StorageError("create", "menu", err)
		}
		m.ID = data.ID

		if len(dto.RoleIDs) > 0 {
			return s.roles.ReplaceMenuRoles(txCtx, m.ID, dto.RoleIDs)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create menu", "error", err, "code", m.Code)
		return nil, err
	}

	s.logger.Info("menu created", "id", m.ID, "code", m.Code)
	return s.Get(ctx, m.ID)
}

// Update replaces the menu's attributes and its whole role list.
func (s *Service) Update(ctx context.Context, id uuid.UUID, dto MenuDTO) (*MenuResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		data, err := s.repo.GetMenuByID(txCtx, id)
		if err != nil {
			return internal.StorageError("update", "menu", err)
		}
		if data == nil {
			return ErrMenuNotFound
		}

		m := FromDataModel(data)
		m.Apply(dto)
		if err := s.checkMenu(txCtx, m, "update"); err != nil {
			return err
		}

		if err := s.repo.UpdateMenu(txCtx, ToDataModel(m)); err != nil {
			return internal.StorageError("update", "menu", err)
		}
		return s.roles.ReplaceMenuRoles(txCtx, id, dto.RoleIDs)
	})
	if err != nil {
		s.logger.Error("failed to update menu", "error", err, "id", id)
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		data, err := s.repo.GetMenuByID(txCtx, id)
		if err != nil {
			return internal.StorageError("delete", "menu", err)
		}
		if data == nil {
			return ErrMenuNotFound
		}

		if err := s.repo.DeleteMenu(txCtx, id); err != nil {
			s.logger.Error("failed to delete menu", "error", err, "id", id)
			return internal.StorageError("delete", "menu", err)
		}
		s.logger.Info("menu deleted", "id", id)
		return nil
	})
}

// checkMenu enforces a unique code and an existing subject.
func (s *Service) checkMenu(ctx context.Context, m *Menu, op string) error {
	existing, err := s.repo.GetMenuByCode(ctx, m.Code)
	if err != nil {
		return internal.StorageError(op, "menu", err)
	}
	if existing != nil && existing.ID != m.ID {
		return ErrMenuExists
	}

	if m.SubjectID != nil {
		subject, err := s.repo.GetSubjectMenuByID(ctx, *m.SubjectID)
		if err != nil {
			return internal.StorageError(op, "menu", err)
		}
		if subject == nil {
			return ErrSubjectMenuNotFound
		}
	}
	return nil
}

func (s *Service) withRoles(ctx context.Context, rows []*menuDatamodel.Menu) ([]MenuResponse, error) {
	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	roles, err := s.repo.MenuRoles(ctx, ids)
	if err != nil {
		s.logger.Error("failed to load menu roles", "error", err)
		return nil, internal.StorageError("get", "menu", err)
	}

	out := make([]MenuResponse, 0, len(rows))
	for _, row := range rows {
		m := FromDataModel(row)
		m.Roles = roles[row.ID]
		out = append(out, m.ToResponse())
	}
	return out, nil
}
