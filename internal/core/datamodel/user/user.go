package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"column:name;size:250;not null"`
	Email        string    `gorm:"column:email;size:250;uniqueIndex;not null"`
	Avatar       *string   `gorm:"column:avatar;size:550"`
	PasswordHash string    `gorm:"column:password;not null"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	RoleID       uuid.UUID `gorm:"column:role_id;type:uuid;not null;index"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserHistory is append-only. UserID stays nullable so rows outlive the user.
type UserHistory struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID           *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	Email            string     `gorm:"column:email"`
	StatusCode       int        `gorm:"column:status_code"`
	Permission       string     `gorm:"column:permission;size:50"`
	PermissionDetail string     `gorm:"column:permission_detail;size:50"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime;index"`
}

func (UserHistory) TableName() string { return "user_history" }

func (h *UserHistory) BeforeCreate(*gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

type UserMeta struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	MetaCode  string    `gorm:"column:meta_code;size:100;not null"`
	MetaName  string    `gorm:"column:meta_name;size:100;not null"`
	RoleID    uuid.UUID `gorm:"column:role_id;type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserMeta) TableName() string { return "user_meta" }

func (m *UserMeta) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type UserMetaDetail struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	MetaID    uuid.UUID `gorm:"column:meta_id;type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	MetaValue *string   `gorm:"column:meta_value;size:250"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserMetaDetail) TableName() string { return "user_meta_detail" }

func (d *UserMetaDetail) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func Models() []interface{} {
	return []interface{}{&User{}, &UserHistory{}, &UserMeta{}, &UserMetaDetail{}}
}
