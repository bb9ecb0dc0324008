package datamodel

import (
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/category"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/menu"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/status"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
)

// All returns every persisted model in dependency order. The sqlite driver
// migrates with it; postgres uses the goose files under db/migrations.
func All() []interface{} {
	models := rbac.Models()
	models = append(models, user.Models()...)
	models = append(models, menu.Models()...)
	models = append(models, &category.Category{}, &status.Status{})
	return models
}
