package menu

import (
	"context"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/google/uuid"
)

func (s *Service) ListSubMenus(ctx context.Context, filter SubMenuFilter) ([]SubMenuResponse, error) {
	rows, err := s.repo.ListSubMenus(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list submenus", "error", err)
		return nil, internal.StorageError("get", "sub_menu", err)
	}

	out := make([]SubMenuResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, SubFromDataModel(row).ToResponse())
	}
	return out, nil
}

func (s *Service) GetSubMenu(ctx context.Context, id uuid.UUID) (*SubMenuResponse, error) {
	sub, err := s.findSubMenu(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := sub.ToResponse()
	return &resp, nil
}

func (s *Service) CreateSubMenu(ctx context.Context, dto SubMenuDTO) (*SubMenuResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	sub := &SubMenu{}
	sub.Apply(dto)

	if err := s.requireMenu(ctx, sub.MenuID); err != nil {
		return nil, err
	}

	data := SubToDataModel(sub)
	if err := s.repo.CreateSubMenu(ctx, data); err != nil {
		s.logger.Error("failed to create submenu", "error", err, "menu_id", sub.MenuID)
		return nil, internal.StorageError("create", "sub_menu", err)
	}

	resp := SubFromDataModel(data).ToResponse()
	return &resp, nil
}

func (s *Service) UpdateSubMenu(ctx context.Context, id uuid.UUID, dto SubMenuDTO) (*SubMenuResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.findSubMenu(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.Apply(dto)

	if err := s.requireMenu(ctx, sub.MenuID); err != nil {
		return nil, err
	}

	data := SubToDataModel(sub)
	if err := s.repo.UpdateSubMenu(ctx, data); err != nil {
		s.logger.Error("failed to update submenu", "error", err, "id", id)
		return nil, internal.StorageError("update", "sub_menu", err)
	}

	resp := SubFromDataModel(data).ToResponse()
	return &resp, nil
}

func (s *Service) DeleteSubMenu(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findSubMenu(ctx, id); err != nil {
		return err
	}

	if err := s.repo.DeleteSubMenu(ctx, id); err != nil {
		s.logger.Error("failed to delete submenu", "error", err, "id", id)
		return internal.StorageError("delete", "sub_menu", err)
	}
	return nil
}

func (s *Service) requireMenu(ctx context.Context, menuID uuid.UUID) error {
	m, err := s.repo.GetMenuByID(ctx, menuID)
	if err != nil {
		return internal.StorageError("get", "menu", err)
	}
	if m == nil {
		return ErrMenuNotFound
	}
	return nil
}

func (s *Service) findSubMenu(ctx context.Context, id uuid.UUID) (*SubMenu, error) {
	data, err := s.repo.GetSubMenuByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get submenu", "error", err, "id", id)
		return nil, internal.StorageError("get", "sub_menu", err)
	}
	if data == nil {
		return nil, ErrSubMenuNotFound
	}
	return SubFromDataModel(data), nil
}
