package menu

import (
	"time"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/core/common/validation"
	menuDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/menu"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	"github.com/google/uuid"
)

var (
	ErrSubjectMenuNotFound = internal.NewNotFoundError("SubjectMenu not found", internal.ErrCodeNotFound)
	ErrSubjectMenuExists   = internal.NewBadRequestError("Subject menu already exists", internal.ErrCodeDuplicate)
	ErrSubjectMenuInUse    = internal.NewNotFoundError("Cannot delete subject menu. It is associated with one or more menu.", internal.ErrCodeInUse)

	ErrMenuNotFound = internal.NewNotFoundError("Menu not found", internal.ErrCodeNotFound)
	ErrMenuExists   = internal.NewBadRequestError("Menu already exists", internal.ErrCodeDuplicate)

	ErrSubMenuNotFound = internal.NewNotFoundError("SubMenu not found", internal.ErrCodeNotFound)
)

type SubjectMenu struct {
	ID          uuid.UUID
	Name        string
	Code        string
	Position    int
	Icon        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s *SubjectMenu) Apply(dto SubjectMenuDTO) {
	s.Name = dto.Name
	s.Code = validation.Code(dto.Code)
	s.Position = dto.Position
	s.Icon = dto.Icon
	s.Description = dto.Description
}

func (s *SubjectMenu) ToResponse() SubjectMenuResponse {
	return SubjectMenuResponse{
		ID:          s.ID,
		Name:        s.Name,
		Code:        s.Code,
		Position:    s.Position,
		Icon:        s.Icon,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func SubjectToDataModel(s *SubjectMenu) *menuDatamodel.SubjectMenu {
	return &menuDatamodel.SubjectMenu{
		ID:          s.ID,
		Name:        s.Name,
		Code:        s.Code,
		Position:    s.Position,
		Icon:        s.Icon,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func SubjectFromDataModel(s *menuDatamodel.SubjectMenu) *SubjectMenu {
	return &SubjectMenu{
		ID:          s.ID,
		Name:        s.Name,
		Code:        s.Code,
		Position:    s.Position,
		Icon:        s.Icon,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// Menu carries its subject, submenus and the roles it is visible to when
// loaded for a response.
type Menu struct {
	ID        uuid.UUID
	SubjectID *uuid.UUID
	Name      string
	Code      string
	Position  int
	Icon      string
	CreatedAt time.Time
	UpdatedAt time.Time

	Subject  *SubjectMenu
	SubMenus []SubMenu
	Roles    []rbac.Role
}

func (m *Menu) Apply(dto MenuDTO) {
	m.SubjectID = dto.SubjectID
	m.Name = dto.Name
	m.Code = validation.Code(dto.Code)
	m.Position = dto.Position
	m.Icon = dto.Icon
}

func (m *Menu) ToResponse() MenuResponse {
	resp := MenuResponse{
		ID:        m.ID,
		Name:      m.Name,
		Code:      m.Code,
		Icon:      m.Icon,
		Position:  m.Position,
		Roles:     make([]MenuRoleResponse, 0, len(m.Roles)),
		SubMenus:  make([]SubMenuResponse, 0, len(m.SubMenus)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Subject != nil {
		resp.SubjectMenu = &SubjectRef{
			ID:       m.Subject.ID,
			Name:     m.Subject.Name,
			Code:     m.Subject.Code,
			Position: m.Subject.Position,
		}
	}
	for _, r := range m.Roles {
		resp.Roles = append(resp.Roles, MenuRoleResponse{ID: r.ID, Name: r.Name, Code: r.Code, Icon: r.Icon})
	}
	for i := range m.SubMenus {
		resp.SubMenus = append(resp.SubMenus, m.SubMenus[i].ToResponse())
	}
	return resp
}

func ToDataModel(m *Menu) *menuDatamodel.Menu {
	return &menuDatamodel.Menu{
		ID:        m.ID,
		SubjectID: m.SubjectID,
		Name:      m.Name,
		Code:      m.Code,
		Position:  m.Position,
		Icon:      m.Icon,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func FromDataModel(m *menuDatamodel.Menu) *Menu {
	out := &Menu{
		ID:        m.ID,
		SubjectID: m.SubjectID,
		Name:      m.Name,
		Code:      m.Code,
		Position:  m.Position,
		Icon:      m.Icon,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.SubjectMenu != nil {
		out.Subject = SubjectFromDataModel(m.SubjectMenu)
	}
	for i := range m.SubMenus {
		out.SubMenus = append(out.SubMenus, *SubFromDataModel(&m.SubMenus[i]))
	}
	return out
}

type SubMenu struct {
	ID        uuid.UUID
	MenuID    uuid.UUID
	Name      string
	Code      string
	Icon      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *SubMenu) Apply(dto SubMenuDTO) {
	s.MenuID = dto.MenuID
	s.Name = dto.Name
	s.Code = validation.Code(dto.Code)
	s.Icon = dto.Icon
}

func (s *SubMenu) ToResponse() SubMenuResponse {
	return SubMenuResponse{
		ID:        s.ID,
		MenuID:    s.MenuID,
		Name:      s.Name,
		Code:      s.Code,
		Icon:      s.Icon,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func SubToDataModel(s *SubMenu) *menuDatamodel.SubMenu {
	return &menuDatamodel.SubMenu{
		ID:        s.ID,
		MenuID:    s.MenuID,
		Name:      s.Name,
		Code:      s.Code,
		Icon:      s.Icon,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func SubFromDataModel(s *menuDatamodel.SubMenu) *SubMenu {
	return &SubMenu{
		ID:        s.ID,
		MenuID:    s.MenuID,
		Name:      s.Name,
		Code:      s.Code,
		Icon:      s.Icon,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
