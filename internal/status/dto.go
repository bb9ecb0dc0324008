package status

import (
	"time"

	"github.com/frahmantamala/rbac-admin/internal/core/common/validation"
	"github.com/google/uuid"
)

type StatusDTO struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Code  string `json:"code"`
}

func (d StatusDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(250)
	v.Field("type", d.Type).MaxLength(250)
	v.Field("color", d.Color).MaxLength(100)
	v.Field("code", d.Code).MaxLength(50)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type StatusResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Color     string    `json:"color"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StatusesResponse struct {
	Status   string           `json:"status"`
	Results  int              `json:"results"`
	Statuses []StatusResponse `json:"statuses"`
}
