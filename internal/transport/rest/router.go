package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/rbac-admin/internal/access"
	"github.com/frahmantamala/rbac-admin/internal/auth"
	"github.com/frahmantamala/rbac-admin/internal/category"
	"github.com/frahmantamala/rbac-admin/internal/core/metrics"
	"github.com/frahmantamala/rbac-admin/internal/menu"
	"github.com/frahmantamala/rbac-admin/internal/permission"
	"github.com/frahmantamala/rbac-admin/internal/role"
	"github.com/frahmantamala/rbac-admin/internal/status"
	"github.com/frahmantamala/rbac-admin/internal/transport/middleware"
	"github.com/frahmantamala/rbac-admin/internal/transport/swagger"
	"github.com/frahmantamala/rbac-admin/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Auth       *auth.Handler
	Role       *role.Handler
	Permission *permission.Handler
	Menu       *menu.Handler
	User       *user.Handler
	Category   *category.Handler
	Status     *status.Handler
}

type Options struct {
	AllowedOrigins []string
	// MetricsPath is empty when metrics are disabled.
	MetricsPath    string
	MetricsHandler http.Handler
	// Metrics observes every request. Nil records nothing.
	Metrics     *metrics.Metrics
	OpenAPISpec []byte
}

const openAPIPath = "/openapi.yml"

func RegisterAllRoutes(router *chi.Mux, health *HealthHandler, h Handlers, guard middleware.Checker, opts Options, logger *slog.Logger) {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger, opts.Metrics))
	router.Use(middleware.RecoveryMiddleware(logger))

	if opts.MetricsPath != "" && opts.MetricsHandler != nil {
		router.Handle(opts.MetricsPath, opts.MetricsHandler)
	}

	router.Get(openAPIPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(opts.OpenAPISpec)
	})
	router.Handle("/swagger/*", swagger.Handler(openAPIPath))

	require := func(permission string, details ...string) func(http.Handler) http.Handler {
		return middleware.RequirePermission(guard, logger, permission, details...)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.healthCheckHandler)
		r.Get("/ping", health.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.With(h.Auth.AuthMiddleware).Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.PrincipalContext)

			pr.Route("/users", func(ur chi.Router) {
				// caller views need a valid token only
				ur.Get("/me", h.User.GetMe)
				ur.Get("/permission", h.User.GetPermissions)
				ur.Get("/menu", h.User.GetMenu)
				ur.Get("/profile", h.User.GetProfile)
				ur.Put("/profile", h.User.UpdateProfile)

				ur.With(require(access.ResourceUsers, access.ActionRead)).Get("/", h.User.GetUsers)
				ur.With(require(access.ResourceUsers, access.ActionRead)).Get("/commentators", h.User.GetCommentators)
				ur.With(require(access.ResourceUsers, access.ActionRead)).Get("/customer-service", h.User.GetCustomerService)
				ur.With(require(access.ResourceUsers, access.ActionCreate)).Post("/", h.User.CreateUser)
				ur.With(require(access.ResourceUsers, access.ActionWrite)).Put("/reset-password", h.User.ResetPassword)
				ur.With(require(access.ResourceUsers, access.ActionRead)).Get("/{id}", h.User.GetUser)
				ur.With(require(access.ResourceUsers, access.ActionWrite)).Put("/{id}", h.User.UpdateUser)
			})

			pr.Route("/roles", func(rr chi.Router) {
				rr.With(require(access.ResourceRoles, access.ActionRead)).Get("/", h.Role.GetRoles)
				rr.With(require(access.ResourceRoles, access.ActionCreate)).Post("/", h.Role.CreateRole)
				rr.With(require(access.ResourceRoles, access.ActionRead)).Get("/{id}", h.Role.GetRole)
				rr.With(require(access.ResourceRoles, access.ActionWrite)).Put("/{id}", h.Role.UpdateRole)
				rr.With(require(access.ResourceRoles, access.ActionDelete)).Delete("/{id}", h.Role.DeleteRole)
			})

			pr.Route("/permissions", func(rr chi.Router) {
				rr.With(require(access.ResourcePermissions, access.ActionRead)).Get("/", h.Permission.GetPermissions)
				rr.With(require(access.ResourcePermissions, access.ActionCreate)).Post("/", h.Permission.CreatePermission)
				rr.With(require(access.ResourcePermissions, access.ActionRead)).Get("/{id}", h.Permission.GetPermission)
				rr.With(require(access.ResourcePermissions, access.ActionWrite)).Put("/{id}", h.Permission.UpdatePermission)
				rr.With(require(access.ResourcePermissions, access.ActionDelete)).Delete("/{id}", h.Permission.DeletePermission)
			})

			pr.Route("/permissions-detail", func(rr chi.Router) {
				rr.With(require(access.ResourcePermissionDetail, access.ActionRead)).Get("/", h.Permission.GetPermissionDetails)
				rr.With(require(access.ResourcePermissionDetail, access.ActionCreate)).Post("/", h.Permission.CreatePermissionDetail)
				rr.With(require(access.ResourcePermissionDetail, access.ActionRead)).Get("/{id}", h.Permission.GetPermissionDetail)
				rr.With(require(access.ResourcePermissionDetail, access.ActionWrite)).Put("/{id}", h.Permission.UpdatePermissionDetail)
				rr.With(require(access.ResourcePermissionDetail, access.ActionDelete)).Delete("/{id}", h.Permission.DeletePermissionDetail)
			})

			pr.Route("/subject-menu", func(rr chi.Router) {
				rr.With(require(access.ResourceSubjectMenu, access.ActionRead)).Get("/", h.Menu.GetSubjectMenus)
				rr.With(require(access.ResourceSubjectMenu, access.ActionCreate)).Post("/", h.Menu.CreateSubjectMenu)
				rr.With(require(access.ResourceSubjectMenu, access.ActionRead)).Get("/{id}", h.Menu.GetSubjectMenu)
				rr.With(require(access.ResourceSubjectMenu, access.ActionWrite)).Put("/{id}", h.Menu.UpdateSubjectMenu)
				rr.With(require(access.ResourceSubjectMenu, access.ActionDelete)).Delete("/{id}", h.Menu.DeleteSubjectMenu)
			})

			pr.Route("/menu", func(rr chi.Router) {
				rr.With(require(access.ResourceMenu, access.ActionRead)).Get("/", h.Menu.GetMenus)
				rr.With(require(access.ResourceMenu, access.ActionCreate)).Post("/", h.Menu.CreateMenu)
				rr.With(require(access.ResourceMenu, access.ActionRead)).Get("/{id}", h.Menu.GetMenu)
				rr.With(require(access.ResourceMenu, access.ActionWrite)).Put("/{id}", h.Menu.UpdateMenu)
				rr.With(require(access.ResourceMenu, access.ActionDelete)).Delete("/{id}", h.Menu.DeleteMenu)
			})

			pr.Route("/sub-menu", func(rr chi.Router) {
				rr.With(require(access.ResourceSubMenu, access.ActionRead)).Get("/", h.Menu.GetSubMenus)
				rr.With(require(access.ResourceSubMenu, access.ActionCreate)).Post("/", h.Menu.CreateSubMenu)
				rr.With(require(access.ResourceSubMenu, access.ActionRead)).Get("/{id}", h.Menu.GetSubMenu)
				rr.With(require(access.ResourceSubMenu, access.ActionWrite)).Put("/{id}", h.Menu.UpdateSubMenu)
				rr.With(require(access.ResourceSubMenu, access.ActionDelete)).Delete("/{id}", h.Menu.DeleteSubMenu)
			})

			pr.Route("/categories", func(rr chi.Router) {
				rr.With(require(access.ResourceCategories, access.ActionRead)).Get("/", h.Category.GetCategories)
				rr.With(require(access.ResourceCategories, access.ActionCreate)).Post("/", h.Category.CreateCategory)
				rr.With(require(access.ResourceCategories, access.ActionRead)).Get("/{id}", h.Category.GetCategory)
				rr.With(require(access.ResourceCategories, access.ActionWrite)).Put("/{id}", h.Category.UpdateCategory)
				rr.With(require(access.ResourceCategories, access.ActionDelete)).Delete("/{id}", h.Category.DeleteCategory)
			})

			pr.Route("/status", func(rr chi.Router) {
				rr.With(require(access.ResourceStatuses, access.ActionRead)).Get("/", h.Status.GetStatuses)
				rr.With(require(access.ResourceStatuses, access.ActionCreate)).Post("/", h.Status.CreateStatus)
				rr.With(require(access.ResourceStatuses, access.ActionRead)).Get("/{id}", h.Status.GetStatus)
				rr.With(require(access.ResourceStatuses, access.ActionWrite)).Put("/{id}", h.Status.UpdateStatus)
				rr.With(require(access.ResourceStatuses, access.ActionDelete)).Delete("/{id}", h.Status.DeleteStatus)
			})
		})
	})
}
