package menu_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/rbac-admin/internal/access"
	"github.com/frahmantamala/rbac-admin/internal/core/database"
	menuDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/menu"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	"github.com/frahmantamala/rbac-admin/internal/grants"
	grantsPostgres "github.com/frahmantamala/rbac-admin/internal/grants/postgres"
	"github.com/frahmantamala/rbac-admin/internal/menu"
	menuPostgres "github.com/frahmantamala/rbac-admin/internal/menu/postgres"
	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestMenu(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Menu Suite")
}

var _ = Describe("Menu Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		service *menu.Service
		editor  rbac.Role
		viewer  rbac.Role
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = database.OpenSQLite(":memory:")
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		tx := database.NewTxManager(db)
		service = menu.NewService(
			menuPostgres.NewMenuRepository(db),
			grants.NewService(grantsPostgres.NewGrantRepository(db), tx, logger),
			tx,
			logger,
		)

		editor = rbac.Role{Name: "Editor", Code: "editor"}
		viewer = rbac.Role{Name: "Viewer", Code: "viewer"}
		Expect(db.Create(&editor).Error).To(Succeed())
		Expect(db.Create(&viewer).Error).To(Succeed())
	})

	principal := func(r rbac.Role) *access.Principal {
		return &access.Principal{UserID: uuid.New(), RoleID: r.ID, RoleCode: r.Code}
	}

	countWhere := func(model interface{}, query string, args ...interface{}) int64 {
		var n int64
		Expect(db.Model(model).Where(query, args...).Count(&n).Error).To(Succeed())
		return n
	}

	Describe("Subject menus", func() {
		It("lists by position", func() {
			_, err := service.CreateSubject(ctx, menu.SubjectMenuDTO{Name: "Settings", Code: "settings", Position: 2})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateSubject(ctx, menu.SubjectMenuDTO{Name: "Main", Code: "main", Position: 1})
			Expect(err).NotTo(HaveOccurred())

			subjects, err := service.ListSubjects(ctx, menu.SubjectFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(subjects).To(HaveLen(2))
			Expect(subjects[0].Code).To(Equal("main"))
		})

		It("rejects a duplicate code on create and update", func() {
			_, err := service.CreateSubject(ctx, menu.SubjectMenuDTO{Name: "Main", Code: "main"})
			Expect(err).NotTo(HaveOccurred())
			other, err := service.CreateSubject(ctx, menu.SubjectMenuDTO{Name: "Other", Code: "other"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateSubject(ctx, menu.SubjectMenuDTO{Name: "Main", Code: "main"})
			Expect(err).To(MatchError(menu.ErrSubjectMenuExists))

			_, err = service.UpdateSubject(ctx, other.ID, menu.SubjectMenuDTO{Name: "Other", Code: "main"})
			Expect(err).To(MatchError(menu.ErrSubjectMenuExists))

			_, err = service.UpdateSubject(ctx, other.ID, menu.SubjectMenuDTO{Name: "Renamed", Code: "other"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("refuses to delete a subject a menu points at", func() {
			subject, err := service.CreateSubject(ctx, menu.SubjectMenuDTO{Name: "Main", Code: "main"})
			Expect(err).NotTo(HaveOccurred())
			m, err := service.Create(ctx, menu.MenuDTO{Name: "Home", Code: "home", SubjectID: &subject.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.SubjectMenu).NotTo(BeNil())
			Expect(m.SubjectMenu.Code).To(Equal("main"))

			Expect(service.DeleteSubject(ctx, subject.ID)).To(MatchError(menu.ErrSubjectMenuInUse))

			Expect(service.Delete(ctx, m.ID)).To(Succeed())
			Expect(service.DeleteSubject(ctx, subject.ID)).To(Succeed())
		})
	})

	Describe("Menus", func() {
		It("lowercases the code and links the given roles", func() {
			m, err := service.Create(ctx, menu.MenuDTO{Name: "Home", Code: "HOME", RoleIDs: []uuid.UUID{editor.ID}})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Code).To(Equal("home"))
			Expect(m.Roles).To(HaveLen(1))
			Expect(m.Roles[0].Code).To(Equal("editor"))
		})

		It("rejects a duplicate code", func() {
			_, err := service.Create(ctx, menu.MenuDTO{Name: "Home", Code: "home"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(ctx, menu.MenuDTO{Name: "Home 2", Code: "home"})
			Expect(err).To(MatchError(menu.ErrMenuExists))
		})

		It("creates nothing when a role is unknown", func() {
			_, err := service.Create(ctx, menu.MenuDTO{Name: "Home", Code: "home", RoleIDs: []uuid.UUID{uuid.New()}})
			Expect(err).To(MatchError(grants.ErrInvalidMenuRoles))
			Expect(countWhere(&menuDatamodel.Menu{}, "code = ?", "home")).To(BeZero())
		})

		It("requires an existing subject", func() {
			missing := uuid.New()
			_, err := service.Create(ctx, menu.MenuDTO{Name: "Home", Code: "home", SubjectID: &missing})
			Expect(err).To(MatchError(menu.ErrSubjectMenuNotFound))
		})

		It("replaces the role list on update", func() {
			m, err := service.Create(ctx, menu.MenuDTO{Name: "Home", Code: "home", RoleIDs: []uuid.UUID{editor.ID}})
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.Update(ctx, m.ID, menu.MenuDTO{Name: "Home", Code: "home", RoleIDs: []uuid.UUID{viewer.ID, viewer.ID}})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Roles).To(HaveLen(1))
			Expect(updated.Roles[0].ID).To(Equal(viewer.ID))
			Expect(countWhere(&menuDatamodel.RoleMenu{}, "menu_id = ?", m.ID)).To(Equal(int64(1)))
		})

		It("shows a role only its linked menus ordered by position", func() {
			_, err := service.Create(ctx, menu.MenuDTO{Name: "Reports", Code: "reports", Position: 2, RoleIDs: []uuid.UUID{editor.ID}})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(ctx, menu.MenuDTO{Name: "Home", Code: "home", Position: 1, RoleIDs: []uuid.UUID{editor.ID, viewer.ID}})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(ctx, menu.MenuDTO{Name: "Admin", Code: "admin", Position: 0})
			Expect(err).NotTo(HaveOccurred())

			menus, err := service.List(ctx, principal(editor), menu.MenuFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(menus).To(HaveLen(2))
			Expect(menus[0].Code).To(Equal("home"))
			Expect(menus[1].Code).To(Equal("reports"))

			menus, err = service.Visible(ctx, principal(viewer))
			Expect(err).NotTo(HaveOccurred())
			Expect(menus).To(HaveLen(1))

			menus, err = service.List(ctx, principal(editor), menu.MenuFilter{Name: "Rep"})
			Expect(err).NotTo(HaveOccurred())
			Expect(menus).To(HaveLen(1))
		})

		It("shows operators and admin every menu", func() {
			_, err := service.Create(ctx, menu.MenuDTO{Name: "Home", Code: "home", RoleIDs: []uuid.UUID{editor.ID}})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(ctx, menu.MenuDTO{Name: "Admin", Code: "admin"})
			Expect(err).NotTo(HaveOccurred())

			for _, code := range []string{access.RoleOperators, access.RoleAdmin} {
				menus, err := service.Visible(ctx, &access.Principal{RoleID: uuid.New(), RoleCode: code})
				Expect(err).NotTo(HaveOccurred())
				Expect(menus).To(HaveLen(2), code)
			}
		})

		It("removes role links and submenus with the menu", func() {
			m, err := service.Create(ctx, menu.MenuDTO{Name: "Home", Code: "home", RoleIDs: []uuid.UUID{editor.ID}})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateSubMenu(ctx, menu.SubMenuDTO{MenuID: m.ID, Name: "Dashboard", Code: "dashboard"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, m.ID)).To(Succeed())
			Expect(countWhere(&menuDatamodel.RoleMenu{}, "menu_id = ?", m.ID)).To(BeZero())
			Expect(countWhere(&menuDatamodel.SubMenu{}, "menu_id = ?", m.ID)).To(BeZero())
			_, err = service.Get(ctx, m.ID)
			Expect(err).To(MatchError(menu.ErrMenuNotFound))
		})
	})

	Describe("Submenus", func() {
		var home, reports *menu.MenuResponse

		BeforeEach(func() {
			var err error
			home, err = service.Create(ctx, menu.MenuDTO{Name: "Home", Code: "home"})
			Expect(err).NotTo(HaveOccurred())
			reports, err = service.Create(ctx, menu.MenuDTO{Name: "Reports", Code: "reports"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("requires an existing menu", func() {
			_, err := service.CreateSubMenu(ctx, menu.SubMenuDTO{MenuID: uuid.New(), Name: "Dashboard", Code: "dashboard"})
			Expect(err).To(MatchError(menu.ErrMenuNotFound))
		})

		It("filters by menu and name", func() {
			for _, dto := range []menu.SubMenuDTO{
				{MenuID: home.ID, Name: "Dashboard", Code: "dashboard"},
				{MenuID: home.ID, Name: "Activity", Code: "activity"},
				{MenuID: reports.ID, Name: "Daily", Code: "daily"},
			} {
				_, err := service.CreateSubMenu(ctx, dto)
				Expect(err).NotTo(HaveOccurred())
			}

			subs, err := service.ListSubMenus(ctx, menu.SubMenuFilter{MenuID: &home.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(subs).To(HaveLen(2))

			subs, err = service.ListSubMenus(ctx, menu.SubMenuFilter{Name: "Da"})
			Expect(err).NotTo(HaveOccurred())
			Expect(subs).To(HaveLen(2))

			subs, err = service.ListSubMenus(ctx, menu.SubMenuFilter{Name: "Da", MenuID: &reports.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(subs).To(HaveLen(1))
			Expect(subs[0].Code).To(Equal("daily"))

			got, err := service.Get(ctx, home.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.SubMenus).To(HaveLen(2))
			Expect(got.SubMenus[0].Name).To(Equal("Activity"))
		})

		It("moves a submenu to another menu", func() {
			sub, err := service.CreateSubMenu(ctx, menu.SubMenuDTO{MenuID: home.ID, Name: "Dashboard", Code: "dashboard"})
			Expect(err).NotTo(HaveOccurred())

			moved, err := service.UpdateSubMenu(ctx, sub.ID, menu.SubMenuDTO{MenuID: reports.ID, Name: "Dashboard", Code: "dashboard"})
			Expect(err).NotTo(HaveOccurred())
			Expect(moved.MenuID).To(Equal(reports.ID))

			Expect(service.DeleteSubMenu(ctx, sub.ID)).To(Succeed())
			_, err = service.GetSubMenu(ctx, sub.ID)
			Expect(err).To(MatchError(menu.ErrSubMenuNotFound))
		})
	})

	Describe("Handler", func() {
		var router *chi.Mux

		BeforeEach(func() {
			handler := menu.NewHandler(transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil))), service)
			router = chi.NewRouter()
			router.Get("/menu", handler.GetMenus)
			router.Delete("/subject-menu/{id}", handler.DeleteSubjectMenu)
		})

		It("needs a caller to list menus", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/menu", nil))
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("lists the caller's menus", func() {
			_, err := service.Create(ctx, menu.MenuDTO{Name: "Home", Code: "home", RoleIDs: []uuid.UUID{editor.ID}})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(ctx, menu.MenuDTO{Name: "Admin", Code: "admin"})
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/menu", nil)
			req = req.WithContext(access.WithPrincipal(req.Context(), principal(editor)))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp menu.MenusResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Results).To(Equal(1))
			Expect(resp.Menu[0].Code).To(Equal("home"))
		})

		It("answers a blocked subject delete with 404", func() {
			subject, err := service.CreateSubject(ctx, menu.SubjectMenuDTO{Name: "Main", Code: "main"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(ctx, menu.MenuDTO{Name: "Home", Code: "home", SubjectID: &subject.ID})
			Expect(err).NotTo(HaveOccurred())

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/subject-menu/"+subject.ID.String(), nil))
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(ContainSubstring("associated with one or more menu"))
		})
	})
})
