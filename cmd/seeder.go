package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/frahmantamala/rbac-admin/internal/access"
	"github.com/frahmantamala/rbac-admin/internal/core/database"
	categoryDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/category"
	menuDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/menu"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	statusDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/status"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/rbac-admin/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with roles, permissions, menus and users",
	Long:  `Load the seed fixture into the database. Rows that already exist are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(".")
		if err != nil {
			return err
		}

		gormDB, db, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer db.Close()

		fixture, err := readSeedFixture(seedFile)
		if err != nil {
			return err
		}
		return seed(context.Background(), gormDB, fixture, cfg.Security.BCryptCost, logger.LoggerWrapper())
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "db/seeds/rbac.yml", "seed fixture")
}

type seedFixture struct {
	Permissions  []seedPermission  `yaml:"permissions"`
	Actions      []string          `yaml:"actions"`
	Roles        []seedRole        `yaml:"roles"`
	Users        []seedUser        `yaml:"users"`
	SubjectMenus []seedSubjectMenu `yaml:"subject_menus"`
	Menus        []seedMenu        `yaml:"menus"`
	Categories   []seedCategory    `yaml:"categories"`
	Statuses     []seedStatus      `yaml:"statuses"`
}

type seedPermission struct {
	Name        string `yaml:"name"`
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
}

// seedRole.Grants maps a permission code to the granted action codes. The
// admin role is granted everything regardless.
type seedRole struct {
	Name   string              `yaml:"name"`
	Code   string              `yaml:"code"`
	Icon   string              `yaml:"icon"`
	Color  string              `yaml:"color"`
	Grants map[string][]string `yaml:"grants"`
	Meta   []seedMeta          `yaml:"meta"`
}

type seedMeta struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

type seedUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type seedSubjectMenu struct {
	Name     string `yaml:"name"`
	Code     string `yaml:"code"`
	Position int    `yaml:"position"`
	Icon     string `yaml:"icon"`
}

type seedMenu struct {
	Name     string        `yaml:"name"`
	Code     string        `yaml:"code"`
	Subject  string        `yaml:"subject"`
	Position int           `yaml:"position"`
	Icon     string        `yaml:"icon"`
	Roles    []string      `yaml:"roles"`
	SubMenus []seedSubMenu `yaml:"submenus"`
}

type seedSubMenu struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
	Icon string `yaml:"icon"`
}

type seedCategory struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

type seedStatus struct {
	Title string `yaml:"title"`
	Type  string `yaml:"type"`
	Color string `yaml:"color"`
	Code  string `yaml:"code"`
}

func readSeedFixture(path string) (*seedFixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed fixture: %w", err)
	}
	var f seedFixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed fixture %s: %w", path, err)
	}
	return &f, nil
}

type seeder struct {
	tx      *gorm.DB
	cost    int
	logger  *slog.Logger
	perms   map[string]rbac.Permission
	details map[string]map[string]rbac.PermissionDetail
	roles   map[string]rbac.Role
}

// seed loads f in one transaction. Existing rows, matched by code or email,
// are left as they are.
func seed(ctx context.Context, db *gorm.DB, f *seedFixture, cost int, lg *slog.Logger) error {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return database.NewTxManager(db).RunInTx(ctx, func(txCtx context.Context) error {
		s := &seeder{
			tx:      database.GetDB(txCtx, db),
			cost:    cost,
			logger:  lg,
			perms:   make(map[string]rbac.Permission),
			details: make(map[string]map[string]rbac.PermissionDetail),
			roles:   make(map[string]rbac.Role),
		}

		steps := []func(*seedFixture) error{
			s.permissions,
			s.rolesAndGrants,
			s.users,
			s.menus,
			s.lookups,
		}
		for _, step := range steps {
			if err := step(f); err != nil {
				return err
			}
		}

		lg.Info("seed finished",
			"permissions", len(s.perms),
			"roles", len(s.roles),
			"users", len(f.Users),
			"menus", len(f.Menus))
		return nil
	})
}

func (s *seeder) permissions(f *seedFixture) error {
	for _, p := range f.Permissions {
		row := rbac.Permission{}
		err := s.tx.Where(rbac.Permission{Code: p.Code}).
			Attrs(rbac.Permission{Name: p.Name, Description: p.Description}).
			FirstOrCreate(&row).Error
		if err != nil {
			return fmt.Errorf("seed permission %s: %w", p.Code, err)
		}
		s.perms[p.Code] = row
		s.details[p.Code] = make(map[string]rbac.PermissionDetail)

		for _, action := range f.Actions {
			d := rbac.PermissionDetail{}
			err := s.tx.Where(rbac.PermissionDetail{PermissionID: row.ID, Code: action}).
				Attrs(rbac.PermissionDetail{Name: actionName(action)}).
				FirstOrCreate(&d).Error
			if err != nil {
				return fmt.Errorf("seed permission detail %s.%s: %w", p.Code, action, err)
			}
			s.details[p.Code][action] = d
		}
	}
	return nil
}

func (s *seeder) rolesAndGrants(f *seedFixture) error {
	for _, r := range f.Roles {
		row := rbac.Role{}
		err := s.tx.Where(rbac.Role{Code: r.Code}).
			Attrs(rbac.Role{Name: r.Name, Icon: r.Icon, Color: r.Color}).
			FirstOrCreate(&row).Error
		if err != nil {
			return fmt.Errorf("seed role %s: %w", r.Code, err)
		}
		s.roles[r.Code] = row

		grants := r.Grants
		if r.Code == access.RoleAdmin {
			grants = make(map[string][]string, len(s.perms))
			for code := range s.perms {
				grants[code] = f.Actions
			}
		}
		if err := s.grant(row, grants); err != nil {
			return err
		}

		for _, m := range r.Meta {
			meta := userDatamodel.UserMeta{}
			err := s.tx.Where(userDatamodel.UserMeta{RoleID: row.ID, MetaCode: m.Code}).
				Attrs(userDatamodel.UserMeta{MetaName: m.Name}).
				FirstOrCreate(&meta).Error
			if err != nil {
				return fmt.Errorf("seed user meta %s for %s: %w", m.Code, r.Code, err)
			}
		}
	}
	return nil
}

func (s *seeder) grant(role rbac.Role, grants map[string][]string) error {
	for permCode, actions := range grants {
		perm, ok := s.perms[permCode]
		if !ok {
			return fmt.Errorf("role %s grants unknown permission %s", role.Code, permCode)
		}
		err := s.tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&rbac.RolePermission{RoleID: role.ID, PermissionID: perm.ID}).Error
		if err != nil {
			return fmt.Errorf("grant %s to %s: %w", permCode, role.Code, err)
		}

		for _, action := range actions {
			d, ok := s.details[permCode][action]
			if !ok {
				return fmt.Errorf("role %s grants unknown action %s.%s", role.Code, permCode, action)
			}
			row := rbac.RolePermissionDetail{}
			err := s.tx.Where(rbac.RolePermissionDetail{RoleID: role.ID, PermissionDetailID: d.ID}).
				FirstOrCreate(&row).Error
			if err != nil {
				return fmt.Errorf("grant %s.%s to %s: %w", permCode, action, role.Code, err)
			}
		}
	}
	return nil
}

func (s *seeder) users(f *seedFixture) error {
	for _, u := range f.Users {
		role, ok := s.roles[u.Role]
		if !ok {
			return fmt.Errorf("user %s has unknown role %s", u.Email, u.Role)
		}

		email := strings.ToLower(u.Email)
		var n int64
		if err := s.tx.Model(&userDatamodel.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
			return fmt.Errorf("lookup user %s: %w", email, err)
		}
		if n > 0 {
			s.logger.Info("user already exists", "email", email)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.cost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", email, err)
		}
		row := userDatamodel.User{
			Name:         u.Name,
			Email:        email,
			PasswordHash: string(hash),
			IsActive:     true,
			RoleID:       role.ID,
		}
		if err := s.tx.Create(&row).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", email, err)
		}
		s.logger.Info("seeded user", "email", email, "role", u.Role)
	}
	return nil
}

func (s *seeder) menus(f *seedFixture) error {
	subjects := make(map[string]uuid.UUID, len(f.SubjectMenus))
	for _, sm := range f.SubjectMenus {
		row := menuDatamodel.SubjectMenu{}
		err := s.tx.Where(menuDatamodel.SubjectMenu{Code: sm.Code}).
			Attrs(menuDatamodel.SubjectMenu{Name: sm.Name, Position: sm.Position, Icon: sm.Icon}).
			FirstOrCreate(&row).Error
		if err != nil {
			return fmt.Errorf("seed subject menu %s: %w", sm.Code, err)
		}
		subjects[sm.Code] = row.ID
	}

	for _, m := range f.Menus {
		attrs := menuDatamodel.Menu{Name: m.Name, Position: m.Position, Icon: m.Icon}
		if m.Subject != "" {
			id, ok := subjects[m.Subject]
			if !ok {
				return fmt.Errorf("menu %s has unknown subject %s", m.Code, m.Subject)
			}
			attrs.SubjectID = &id
		}

		row := menuDatamodel.Menu{}
		if err := s.tx.Where(menuDatamodel.Menu{Code: m.Code}).Attrs(attrs).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("seed menu %s: %w", m.Code, err)
		}

		for _, roleCode := range m.Roles {
			role, ok := s.roles[roleCode]
			if !ok {
				return fmt.Errorf("menu %s has unknown role %s", m.Code, roleCode)
			}
			err := s.tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&menuDatamodel.RoleMenu{RoleID: role.ID, MenuID: row.ID}).Error
			if err != nil {
				return fmt.Errorf("link menu %s to %s: %w", m.Code, roleCode, err)
			}
		}

		for _, sub := range m.SubMenus {
			subRow := menuDatamodel.SubMenu{}
			err := s.tx.Where(menuDatamodel.SubMenu{MenuID: row.ID, Code: sub.Code}).
				Attrs(menuDatamodel.SubMenu{Name: sub.Name, Icon: sub.Icon}).
				FirstOrCreate(&subRow).Error
			if err != nil {
				return fmt.Errorf("seed submenu %s.%s: %w", m.Code, sub.Code, err)
			}
		}
	}
	return nil
}

func (s *seeder) lookups(f *seedFixture) error {
	for _, c := range f.Categories {
		row := categoryDatamodel.Category{}
		err := s.tx.Where(categoryDatamodel.Category{Code: c.Code}).
			Attrs(categoryDatamodel.Category{Name: c.Name}).
			FirstOrCreate(&row).Error
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.Code, err)
		}
	}
	for _, st := range f.Statuses {
		row := statusDatamodel.Status{}
		err := s.tx.Where(statusDatamodel.Status{Code: st.Code}).
			Attrs(statusDatamodel.Status{Title: st.Title, Type: st.Type, Color: st.Color}).
			FirstOrCreate(&row).Error
		if err != nil {
			return fmt.Errorf("seed status %s: %w", st.Code, err)
		}
	}
	return nil
}

func actionName(code string) string {
	if code == "" {
		return code
	}
	return strings.ToUpper(code[:1]) + code[1:]
}
