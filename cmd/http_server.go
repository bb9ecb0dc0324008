package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/rbac-admin/api"
	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/access"
	accessPostgres "github.com/frahmantamala/rbac-admin/internal/access/postgres"
	"github.com/frahmantamala/rbac-admin/internal/audit"
	auditPostgres "github.com/frahmantamala/rbac-admin/internal/audit/postgres"
	"github.com/frahmantamala/rbac-admin/internal/auth"
	authPostgres "github.com/frahmantamala/rbac-admin/internal/auth/postgres"
	authRedis "github.com/frahmantamala/rbac-admin/internal/auth/redis"
	"github.com/frahmantamala/rbac-admin/internal/category"
	categoryPostgres "github.com/frahmantamala/rbac-admin/internal/category/postgres"
	"github.com/frahmantamala/rbac-admin/internal/core/database"
	"github.com/frahmantamala/rbac-admin/internal/core/events"
	"github.com/frahmantamala/rbac-admin/internal/core/metrics"
	"github.com/frahmantamala/rbac-admin/internal/grants"
	grantsPostgres "github.com/frahmantamala/rbac-admin/internal/grants/postgres"
	"github.com/frahmantamala/rbac-admin/internal/menu"
	menuPostgres "github.com/frahmantamala/rbac-admin/internal/menu/postgres"
	"github.com/frahmantamala/rbac-admin/internal/permission"
	permissionPostgres "github.com/frahmantamala/rbac-admin/internal/permission/postgres"
	"github.com/frahmantamala/rbac-admin/internal/role"
	rolePostgres "github.com/frahmantamala/rbac-admin/internal/role/postgres"
	"github.com/frahmantamala/rbac-admin/internal/status"
	statusPostgres "github.com/frahmantamala/rbac-admin/internal/status/postgres"
	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/frahmantamala/rbac-admin/internal/transport/rest"
	"github.com/frahmantamala/rbac-admin/internal/user"
	userPostgres "github.com/frahmantamala/rbac-admin/internal/user/postgres"
	"github.com/frahmantamala/rbac-admin/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config  *internal.Config
	Gorm    *gorm.DB
	DB      *sqlx.DB
	Redis   *goredis.Client
	Bus     *events.EventBus
	Metrics *metrics.Metrics
	Router  *chi.Mux
	Logger  *slog.Logger
}

func startHTTPServer() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := initializeDependencies(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.close()

	if err := setupRoutes(ctx, deps); err != nil {
		deps.Logger.Error("failed to set up routes", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Logger.Info("Starting HTTP server", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		deps.Logger.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		// history writes still in flight
		if err := deps.Bus.Drain(shutdownCtx); err != nil {
			deps.Logger.Warn("audit writes not drained", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		deps.Logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
	deps.Logger.Info("Server stopped")
}

func setupRoutes(ctx context.Context, deps *Dependencies) error {
	if _, err := api.Load(ctx); err != nil {
		return err
	}

	lg := deps.Logger
	db := deps.Gorm
	tx := database.NewTxManager(db)
	base := transport.NewBaseHandler(lg)

	var store auth.TokenStore
	if deps.Redis != nil {
		store = authRedis.NewTokenStore(deps.Redis)
	}
	tokens := auth.NewJWTTokenGenerator(
		deps.Config.Security.AccessTokenSecret,
		deps.Config.Security.RefreshTokenSecret,
		deps.Config.Security.AccessTokenDuration,
		deps.Config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(db), tokens, store, deps.Config.Security.BCryptCost, lg)

	sink := audit.NewSink(auditPostgres.NewHistoryRepository(db), deps.Bus, deps.Metrics, lg)
	resolver := access.NewResolver(accessPostgres.NewGrantRepository(db))
	guard := access.NewGuard(resolver, sink, deps.Metrics, lg)
	grantService := grants.NewService(grantsPostgres.NewGrantRepository(db), tx, lg)

	menuService := menu.NewService(menuPostgres.NewMenuRepository(db), grantService, tx, lg)
	roleService := role.NewService(rolePostgres.NewRoleRepository(db), grantService, resolver, tx, lg)
	permissionService := permission.NewService(permissionPostgres.NewPermissionRepository(db), tx, lg)
	userService := user.NewService(userPostgres.NewUserRepository(db), authService, resolver, menuService, sink, tx, lg)

	handlers := rest.Handlers{
		Auth:       auth.NewHandler(base, authService),
		Role:       role.NewHandler(base, roleService),
		Permission: permission.NewHandler(base, permissionService),
		Menu:       menu.NewHandler(base, menuService),
		User:       user.NewHandler(base, userService),
		Category:   category.NewHandler(base, category.NewService(categoryPostgres.NewCategoryRepository(db), lg)),
		Status:     status.NewHandler(base, status.NewService(statusPostgres.NewStatusRepository(db), lg)),
	}

	opts := rest.Options{
		AllowedOrigins: deps.Config.Server.Origins(),
		Metrics:        deps.Metrics,
		OpenAPISpec:    api.Spec,
	}
	if deps.Config.Observability.Metrics.Enabled {
		opts.MetricsPath = deps.Config.Observability.Metrics.Path
		opts.MetricsHandler = deps.Metrics.Handler()
	}

	rest.RegisterAllRoutes(deps.Router, rest.NewHealthHandler(deps.DB, deps.Redis), handlers, guard, opts, lg)
	return nil
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	gormDB, db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var rdb *goredis.Client
	if config.Redis.Addr != "" {
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
	} else {
		lg.Warn("redis disabled, logout will not revoke tokens")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Dependencies{
		Config:  config,
		Gorm:    gormDB,
		DB:      db,
		Redis:   rdb,
		Bus:     events.NewEventBus(lg),
		Metrics: metrics.New(registry),
		Router:  chi.NewRouter(),
		Logger:  lg,
	}, nil
}

func (d *Dependencies) close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("Redis close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

// initDB opens the gorm handle and exposes its pool through sqlx for the
// health check.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, *sqlx.DB, error) {
	gormDB, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	driver := "pgx"
	if cfg.Driver == "sqlite" {
		driver = "sqlite3"
	}
	db := sqlx.NewDb(sqlDB, driver)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return gormDB, db, nil
}
