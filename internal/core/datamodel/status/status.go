package status

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"column:title;size:250"`
	Type      string    `gorm:"column:type;size:250"`
	Color     string    `gorm:"column:color;size:100"`
	Code      string    `gorm:"column:code;size:50"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Status) TableName() string { return "statuses" }

func (s *Status) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
