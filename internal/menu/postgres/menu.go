package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/rbac-admin/internal/core/database"
	menuDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/menu"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	"github.com/frahmantamala/rbac-admin/internal/menu"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) menu.RepositoryAPI {
	return &MenuRepository{db: db}
}

func first[T any](q *gorm.DB) (*T, error) {
	var row T
	if err := q.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func paginate(q *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		return q.Limit(limit).Offset(offset)
	}
	return q
}

func (r *MenuRepository) ListSubjectMenus(ctx context.Context, filter menu.SubjectFilter) ([]*menuDatamodel.SubjectMenu, error) {
	var subjects []*menuDatamodel.SubjectMenu
	q := database.GetDB(ctx, r.db).Order("position ASC, name ASC")
	err := paginate(q, filter.Limit, filter.Offset).Find(&subjects).Error
	return subjects, err
}

func (r *MenuRepository) GetSubjectMenuByID(ctx context.Context, id uuid.UUID) (*menuDatamodel.SubjectMenu, error) {
	return first[menuDatamodel.SubjectMenu](database.GetDB(ctx, r.db).Where("id = ?", id))
}

func (r *MenuRepository) GetSubjectMenuByCode(ctx context.Context, code string) (*menuDatamodel.SubjectMenu, error) {
	return first[menuDatamodel.SubjectMenu](database.GetDB(ctx, r.db).Where("code = ?", code))
}

func (r *MenuRepository) CreateSubjectMenu(ctx context.Context, s *menuDatamodel.SubjectMenu) error {
	return database.GetDB(ctx, r.db).Create(s).Error
}

func (r *MenuRepository) UpdateSubjectMenu(ctx context.Context, s *menuDatamodel.SubjectMenu) error {
	return database.GetDB(ctx, r.db).Save(s).Error
}

func (r *MenuRepository) CountMenusBySubject(ctx context.Context, subjectID uuid.UUID) (int64, error) {
	var n int64
	err := database.GetDB(ctx, r.db).Model(&menuDatamodel.Menu{}).Where("subject_id = ?", subjectID).Count(&n).Error
	return n, err
}

func (r *MenuRepository) DeleteSubjectMenu(ctx context.Context, id uuid.UUID) error {
	return database.GetDB(ctx, r.db).Where("id = ?", id).Delete(&menuDatamodel.SubjectMenu{}).Error
}

func (r *MenuRepository) withRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("SubjectMenu").Preload("SubMenus", func(db *gorm.DB) *gorm.DB {
		return db.Order("submenus.name ASC")
	})
}

func (r *MenuRepository) ListMenus(ctx context.Context, filter menu.MenuFilter) ([]*menuDatamodel.Menu, error) {
	var menus []*menuDatamodel.Menu
	q := r.withRelations(database.GetDB(ctx, r.db)).Order("menus.position ASC, menus.name ASC")
	if filter.RoleID != nil {
		q = q.Joins("JOIN role_menus rm ON rm.menu_id = menus.id AND rm.role_id = ?", *filter.RoleID)
	}
	if filter.Name != "" {
		q = q.Where("menus.name LIKE ?", "%"+filter.Name+"%")
	}
	err := paginate(q, filter.Limit, filter.Offset).Find(&menus).Error
	return menus, err
}

func (r *MenuRepository) GetMenuByID(ctx context.Context, id uuid.UUID) (*menuDatamodel.Menu, error) {
	return first[menuDatamodel.Menu](r.withRelations(database.GetDB(ctx, r.db)).Where("menus.id = ?", id))
}

func (r *MenuRepository) GetMenuByCode(ctx context.Context, code string) (*menuDatamodel.Menu, error) {
	return first[menuDatamodel.Menu](database.GetDB(ctx, r.db).Where("code = ?", code))
}

func (r *MenuRepository) CreateMenu(ctx context.Context, m *menuDatamodel.Menu) error {
	return database.GetDB(ctx, r.db).Omit("SubjectMenu", "SubMenus").Create(m).Error
}

func (r *MenuRepository) UpdateMenu(ctx context.Context, m *menuDatamodel.Menu) error {
	return database.GetDB(ctx, r.db).Omit("SubjectMenu", "SubMenus").Save(m).Error
}

func (r *MenuRepository) MenuRoles(ctx context.Context, menuIDs []uuid.UUID) (map[uuid.UUID][]rbac.Role, error) {
	out := make(map[uuid.UUID][]rbac.Role)
	if len(menuIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		MenuID uuid.UUID
		RoleID uuid.UUID
		Name   string
		Code   string
		Icon   string
		Color  string
	}
	err := database.GetDB(ctx, r.db).
		Table("role_menus AS rm").
		Select("rm.menu_id, roles.id AS role_id, roles.name, roles.code, roles.icon, roles.color").
		Joins("JOIN roles ON roles.id = rm.role_id").
		Where("rm.menu_id IN ?", menuIDs).
		Order("roles.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.MenuID] = append(out[row.MenuID], rbac.Role{
			ID:    row.RoleID,
			Name:  row.Name,
			Code:  row.Code,
			Icon:  row.Icon,
			Color: row.Color,
		})
	}
	return out, nil
}

func (r *MenuRepository) DeleteMenu(ctx context.Context, id uuid.UUID) error {
	db := database.GetDB(ctx, r.db)
	if err := db.Where("menu_id = ?", id).Delete(&menuDatamodel.RoleMenu{}).Error; err != nil {
		return err
	}
	if err := db.Where("menu_id = ?", id).Delete(&menuDatamodel.SubMenu{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&menuDatamodel.Menu{}).Error
}

func (r *MenuRepository) ListSubMenus(ctx context.Context, filter menu.SubMenuFilter) ([]*menuDatamodel.SubMenu, error) {
	var subs []*menuDatamodel.SubMenu
	q := database.GetDB(ctx, r.db).Order("name ASC")
	if filter.Name != "" {
		q = q.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.MenuID != nil {
		q = q.Where("menu_id = ?", *filter.MenuID)
	}
	err := paginate(q, filter.Limit, filter.Offset).Find(&subs).Error
	return subs, err
}

func (r *MenuRepository) GetSubMenuByID(ctx context.Context, id uuid.UUID) (*menuDatamodel.SubMenu, error) {
	return first[menuDatamodel.SubMenu](database.GetDB(ctx, r.db).Where("id = ?", id))
}

func (r *MenuRepository) CreateSubMenu(ctx context.Context, s *menuDatamodel.SubMenu) error {
	return database.GetDB(ctx, r.db).Create(s).Error
}

func (r *MenuRepository) UpdateSubMenu(ctx context.Context, s *menuDatamodel.SubMenu) error {
	return database.GetDB(ctx, r.db).Save(s).Error
}

func (r *MenuRepository) DeleteSubMenu(ctx context.Context, id uuid.UUID) error {
	return database.GetDB(ctx, r.db).Where("id = ?", id).Delete(&menuDatamodel.SubMenu{}).Error
}
