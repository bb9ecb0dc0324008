package category

import (
	"time"

	"github.com/frahmantamala/rbac-admin/internal"
	categoryDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/category"
	"github.com/google/uuid"
)

var ErrCategoryNotFound = internal.NewNotFoundError("Category not found", internal.ErrCodeNotFound)

type Category struct {
	ID        uuid.UUID
	Name      string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Code:      c.Code,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func NewCategory(dto CategoryDTO) *Category {
	return &Category{
		Name: dto.Name,
		Code: dto.Code,
	}
}

func (c *Category) Apply(dto CategoryDTO) {
	c.Name = dto.Name
	c.Code = dto.Code
}

func ToDataModel(c *Category) *categoryDatamodel.Category {
	return &categoryDatamodel.Category{
		ID:        c.ID,
		Name:      c.Name,
		Code:      c.Code,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromDataModel(c *categoryDatamodel.Category) *Category {
	return &Category{
		ID:        c.ID,
		Name:      c.Name,
		Code:      c.Code,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
