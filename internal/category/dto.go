package category

import (
	"time"

	"github.com/frahmantamala/rbac-admin/internal/core/common/validation"
	"github.com/google/uuid"
)

type CategoryDTO struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (d CategoryDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(250)
	v.Field("code", d.Code).MaxLength(250)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListFilter struct {
	Name   string
	Limit  int
	Offset int
}

type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CategoriesResponse struct {
	Status     string             `json:"status"`
	Results    int                `json:"results"`
	Categories []CategoryResponse `json:"categories"`
}
