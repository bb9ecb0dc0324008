package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/rbac-admin/internal/core/database"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/rbac-admin/internal/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) filtered(ctx context.Context, filter user.ListFilter) *gorm.DB {
	q := database.GetDB(ctx, r.db).Model(&userDatamodel.User{})
	if filter.Name != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Name+"%")
	}
	if filter.Email != "" {
		q = q.Where("LOWER(email) LIKE LOWER(?)", "%"+filter.Email+"%")
	}
	if filter.Status != nil {
		q = q.Where("is_active = ?", *filter.Status)
	}
	if filter.RoleCode != "" {
		q = q.Where("role_id IN (?)", database.GetDB(ctx, r.db).Model(&rbac.Role{}).Select("id").Where("code = ?", filter.RoleCode))
	}
	return q
}

func (r *UserRepository) List(ctx context.Context, filter user.ListFilter) ([]user.Record, error) {
	var users []*userDatamodel.User
	q := r.filtered(ctx, filter).Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}

	roles, err := r.rolesFor(ctx, users)
	if err != nil {
		return nil, err
	}

	out := make([]user.Record, 0, len(users))
	for _, u := range users {
		out = append(out, user.Record{User: u, Role: roles[u.RoleID]})
	}
	return out, nil
}

func (r *UserRepository) rolesFor(ctx context.Context, users []*userDatamodel.User) (map[uuid.UUID]*rbac.Role, error) {
	out := make(map[uuid.UUID]*rbac.Role)
	if len(users) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.RoleID)
	}

	var roles []*rbac.Role
	if err := database.GetDB(ctx, r.db).Where("id IN ?", ids).Find(&roles).Error; err != nil {
		return nil, err
	}
	for _, role := range roles {
		out[role.ID] = role
	}
	return out, nil
}

func (r *UserRepository) Count(ctx context.Context, filter user.ListFilter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

func (r *UserRepository) CountByStatus(ctx context.Context) (int64, int64, error) {
	var rows []struct {
		IsActive bool
		Total    int64
	}
	err := database.GetDB(ctx, r.db).
		Model(&userDatamodel.User{}).
		Select("is_active, COUNT(*) AS total").
		Group("is_active").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, err
	}

	var active, inactive int64
	for _, row := range rows {
		if row.IsActive {
			active = row.Total
		} else {
			inactive = row.Total
		}
	}
	return active, inactive, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.Record, error) {
	u, err := first[userDatamodel.User](database.GetDB(ctx, r.db).Where("id = ?", id))
	if err != nil || u == nil {
		return nil, err
	}
	role, err := r.RoleByID(ctx, u.RoleID)
	if err != nil {
		return nil, err
	}
	return &user.Record{User: u, Role: role}, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	return first[userDatamodel.User](database.GetDB(ctx, r.db).Where("email = ?", email))
}

func (r *UserRepository) RoleByID(ctx context.Context, id uuid.UUID) (*rbac.Role, error) {
	return first[rbac.Role](database.GetDB(ctx, r.db).Where("id = ?", id))
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return database.GetDB(ctx, r.db).Create(u).Error
}

// Update writes the profile columns only. The password has its own path.
func (r *UserRepository) Update(ctx context.Context, u *userDatamodel.User) error {
	return database.GetDB(ctx, r.db).
		Model(u).
		Select("name", "role_id", "is_active").
		Updates(u).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return database.GetDB(ctx, r.db).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("password", passwordHash).Error
}

func (r *UserRepository) MetaForRole(ctx context.Context, roleID uuid.UUID) ([]userDatamodel.UserMeta, error) {
	var metas []userDatamodel.UserMeta
	err := database.GetDB(ctx, r.db).
		Where("role_id = ?", roleID).
		Order("meta_name ASC").
		Find(&metas).Error
	return metas, err
}

func (r *UserRepository) MetaDetails(ctx context.Context, userID uuid.UUID) ([]userDatamodel.UserMetaDetail, error) {
	var details []userDatamodel.UserMetaDetail
	err := database.GetDB(ctx, r.db).Where("user_id = ?", userID).Find(&details).Error
	return details, err
}

func (r *UserRepository) SaveMetaDetail(ctx context.Context, d *userDatamodel.UserMetaDetail) error {
	if d.ID == uuid.Nil {
		return database.GetDB(ctx, r.db).Create(d).Error
	}
	return database.GetDB(ctx, r.db).Save(d).Error
}

func first[T any](q *gorm.DB) (*T, error) {
	var out T
	if err := q.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}
