package status

import (
	"time"

	"github.com/frahmantamala/rbac-admin/internal"
	statusDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/status"
	"github.com/google/uuid"
)

var ErrStatusNotFound = internal.NewNotFoundError("Status not found", internal.ErrCodeNotFound)

// Status is a labelled state other records can point at.
type Status struct {
	ID        uuid.UUID
	Title     string
	Type      string
	Color     string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Status) Apply(dto StatusDTO) {
	s.Title = dto.Title
	s.Type = dto.Type
	s.Color = dto.Color
	s.Code = dto.Code
}

func (s *Status) ToResponse() StatusResponse {
	return StatusResponse{
		ID:        s.ID,
		Title:     s.Title,
		Type:      s.Type,
		Color:     s.Color,
		Code:      s.Code,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func ToDataModel(s *Status) *statusDatamodel.Status {
	return &statusDatamodel.Status{
		ID:        s.ID,
		Title:     s.Title,
		Type:      s.Type,
		Color:     s.Color,
		Code:      s.Code,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func FromDataModel(s *statusDatamodel.Status) *Status {
	return &Status{
		ID:        s.ID,
		Title:     s.Title,
		Type:      s.Type,
		Color:     s.Color,
		Code:      s.Code,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
