package menu

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectMenu struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;size:250;not null"`
	Code        string    `gorm:"column:code;size:250;not null;uniqueIndex"`
	Position    int       `gorm:"column:position;not null"`
	Icon        string    `gorm:"column:icon;size:250"`
	Description string    `gorm:"column:description;size:500"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SubjectMenu) TableName() string { return "subject_menu" }

func (s *SubjectMenu) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type Menu struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey"`
	SubjectID   *uuid.UUID   `gorm:"column:subject_id;type:uuid;index"`
	Name        string       `gorm:"column:name;size:250;not null"`
	Code        string       `gorm:"column:code;size:250;not null;uniqueIndex"`
	Position    int          `gorm:"column:position"`
	Icon        string       `gorm:"column:icon;size:250"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime"`
	SubjectMenu *SubjectMenu `gorm:"foreignKey:SubjectID"`
	SubMenus    []SubMenu    `gorm:"foreignKey:MenuID"`
}

func (Menu) TableName() string { return "menus" }

func (m *Menu) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type SubMenu struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	MenuID    uuid.UUID `gorm:"column:menu_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;size:250;not null"`
	Code      string    `gorm:"column:code;size:250;not null"`
	Icon      string    `gorm:"column:icon;size:250"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SubMenu) TableName() string { return "submenus" }

func (s *SubMenu) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// RoleMenu makes a menu (and its submenus) visible to a role.
type RoleMenu struct {
	RoleID uuid.UUID `gorm:"column:role_id;type:uuid;primaryKey"`
	MenuID uuid.UUID `gorm:"column:menu_id;type:uuid;primaryKey"`
}

func (RoleMenu) TableName() string { return "role_menus" }

func Models() []interface{} {
	return []interface{}{&SubjectMenu{}, &Menu{}, &SubMenu{}, &RoleMenu{}}
}
