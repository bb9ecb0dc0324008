package menu

import (
	"time"

	"github.com/frahmantamala/rbac-admin/internal/core/common/validation"
	"github.com/google/uuid"
)

type SubjectMenuDTO struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Position    int    `json:"position"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

func (d SubjectMenuDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(250)
	v.Field("code", d.Code).Required().MaxLength(250)
	v.Field("position", d.Position).MinInt(0)
	v.Field("icon", d.Icon).MaxLength(250)
	v.Field("description", d.Description).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type MenuDTO struct {
	SubjectID *uuid.UUID  `json:"subject_id"`
	Name      string      `json:"name"`
	Code      string      `json:"code"`
	Position  int         `json:"position"`
	Icon      string      `json:"icon"`
	RoleIDs   []uuid.UUID `json:"role_ids"`
}

func (d MenuDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(250)
	v.Field("code", d.Code).Required().MaxLength(250)
	v.Field("position", d.Position).MinInt(0)
	v.Field("icon", d.Icon).MaxLength(250)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type SubMenuDTO struct {
	MenuID uuid.UUID `json:"menu_id"`
	Name   string    `json:"name"`
	Code   string    `json:"code"`
	Icon   string    `json:"icon"`
}

func (d SubMenuDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("menu_id", d.MenuID).Required()
	v.Field("name", d.Name).Required().MaxLength(250)
	v.Field("code", d.Code).Required().MaxLength(250)
	v.Field("icon", d.Icon).MaxLength(250)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type SubjectFilter struct {
	Limit  int
	Offset int
}

// MenuFilter narrows the menu list. A nil RoleID lists every menu.
type MenuFilter struct {
	Name   string
	RoleID *uuid.UUID
	Limit  int
	Offset int
}

type SubMenuFilter struct {
	Name   string
	MenuID *uuid.UUID
	Limit  int
	Offset int
}

type SubjectMenuResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Position    int       `json:"position"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SubjectMenusResponse struct {
	Status       string                `json:"status"`
	Results      int                   `json:"results"`
	SubjectMenus []SubjectMenuResponse `json:"subject_menus"`
}

type SubjectRef struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Code     string    `json:"code"`
	Position int       `json:"position"`
}

type MenuRoleResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
	Icon string    `json:"icon"`
}

type MenuResponse struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Code        string             `json:"code"`
	Icon        string             `json:"icon"`
	Position    int                `json:"position"`
	SubjectMenu *SubjectRef        `json:"subject_menu"`
	Roles       []MenuRoleResponse `json:"roles"`
	SubMenus    []SubMenuResponse  `json:"submenus"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type MenusResponse struct {
	Status  string         `json:"status"`
	Results int            `json:"results"`
	Menu    []MenuResponse `json:"menu"`
}

type SubMenuResponse struct {
	ID        uuid.UUID `json:"id"`
	MenuID    uuid.UUID `json:"menu_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SubMenusResponse struct {
	Status  string            `json:"status"`
	Results int               `json:"results"`
	SubMenu []SubMenuResponse `json:"sub_menu"`
}
