package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/rbac-admin/internal/access"
	accessPostgres "github.com/frahmantamala/rbac-admin/internal/access/postgres"
	"github.com/frahmantamala/rbac-admin/internal/core/metrics"
	"github.com/frahmantamala/rbac-admin/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

const defaultIntegritySchedule = "@hourly"

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background jobs",
	Long:  `Start scheduled background jobs such as the grant integrity scan.`,
}

var integrityWorkerCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Scan for detail grants without their parent permission",
	Long:  `Report role permission detail grants whose parent permission is not granted to the same role.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startIntegrityWorker()
	},
}

var (
	integrityOnce     bool
	integritySchedule string
)

func startIntegrityWorker() error {
	config, err := loadConfig(".")
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	gormDB, db, err := initDB(config.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	scanner := access.NewIntegrityScanner(
		accessPostgres.NewGrantRepository(gormDB),
		metrics.New(prometheus.NewRegistry()),
		lg,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if integrityOnce {
		_, err := scanner.Scan(ctx)
		return err
	}

	schedule := getStringFlag(integritySchedule, config.Audit.IntegritySchedule)
	if schedule == "" {
		schedule = defaultIntegritySchedule
	}

	c, err := scheduleIntegrityScan(ctx, scanner, schedule, lg)
	if err != nil {
		return err
	}
	c.Start()
	lg.Info("integrity worker is running. Press Ctrl+C to stop.", "schedule", schedule)

	<-ctx.Done()
	lg.Info("received signal, shutting down integrity worker")

	stopped := c.Stop()
	select {
	case <-stopped.Done():
		lg.Info("integrity worker shutdown complete")
	case <-time.After(shutdownTimeout):
		lg.Warn("shutdown timeout reached, forcing exit")
	}
	return nil
}

type integrityScanner interface {
	Scan(ctx context.Context) (int, error)
}

func scheduleIntegrityScan(ctx context.Context, scanner integrityScanner, schedule string, lg *slog.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		found, err := scanner.Scan(ctx)
		if err != nil {
			lg.Error("integrity scan failed", "error", err)
			return
		}
		lg.Info("integrity scan finished", "orphan_detail_grants", found)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	return c, nil
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func init() {
	integrityWorkerCmd.Flags().BoolVar(&integrityOnce, "once", false, "Run a single scan and exit")
	integrityWorkerCmd.Flags().StringVar(&integritySchedule, "schedule", "", "Cron schedule (overrides config)")

	workerCmd.AddCommand(integrityWorkerCmd)
}
