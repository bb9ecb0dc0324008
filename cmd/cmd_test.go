package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/frahmantamala/rbac-admin/internal/core/database"
	menuDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/menu"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

const testConfig = `
http_server:
  port: 9090
  read_header_timeout: 2s
  read_timeout: 10s
database:
  driver: sqlite
  source: ":memory:"
  max_open_conns: 1
  max_idle_conns: 1
security:
  access_token_secret: access-secret-access-secret-0123456789
  refresh_token_secret: refresh-secret-refresh-secret-0123456789
  access_token_duration: 15m
  refresh_token_duration: 24h
  bcrypt_cost: 4
audit:
  integrity_schedule: "*/5 * * * *"
`

var _ = Describe("loadConfig", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	write := func(body string) {
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600)).To(Succeed())
	}

	It("reads the file and fills defaults", func() {
		write(testConfig)

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(9090))
		Expect(cfg.Database.Driver).To(Equal("sqlite"))
		Expect(cfg.Security.BCryptCost).To(Equal(4))
		Expect(cfg.Observability.Logging.Level).To(Equal("info"))
		Expect(cfg.Observability.Metrics.Path).To(Equal("/metrics"))
	})

	It("lets ENV_ variables override the file", func() {
		write(testConfig)
		Expect(os.Setenv("ENV_HTTP_SERVER_PORT", "7070")).To(Succeed())
		DeferCleanup(os.Unsetenv, "ENV_HTTP_SERVER_PORT")

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(7070))
	})

	It("rejects an invalid configuration", func() {
		write(`
database:
  driver: mysql
  source: x
security:
  access_token_secret: short
`)
		_, err := loadConfig(dir)
		Expect(err).To(MatchError(ContainSubstring("unsupported driver")))
		Expect(err).To(MatchError(ContainSubstring("access_token_secret")))
	})

	It("fails without a config file", func() {
		_, err := loadConfig(dir)
		Expect(err).To(MatchError(ContainSubstring("error reading config")))
	})
})

const testFixture = `
permissions:
  - { name: Users, code: users }
  - { name: Roles, code: roles }
actions: [read, write]
roles:
  - { name: Admin, code: admin }
  - name: Operators
    code: operators
    grants:
      users: [read]
    meta:
      - { code: phone, name: Phone }
users:
  - { name: Root, email: Root@Mail.com, password: password, role: admin }
subject_menus:
  - { name: Main, code: main, position: 1 }
menus:
  - name: Access
    code: access
    subject: main
    roles: [operators]
    submenus:
      - { name: Users, code: users }
categories:
  - { name: General, code: general }
statuses:
  - { title: Open, code: open }
`

var _ = Describe("seed", func() {
	var lg *slog.Logger

	BeforeEach(func() {
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	load := func(body string) *seedFixture {
		path := filepath.Join(GinkgoT().TempDir(), "seed.yml")
		Expect(os.WriteFile(path, []byte(body), 0o600)).To(Succeed())
		f, err := readSeedFixture(path)
		Expect(err).NotTo(HaveOccurred())
		return f
	}

	It("loads the fixture and can run again without duplicating rows", func() {
		db, err := database.OpenSQLite(":memory:")
		Expect(err).NotTo(HaveOccurred())
		f := load(testFixture)

		Expect(seed(context.Background(), db, f, bcrypt.MinCost, lg)).To(Succeed())
		Expect(seed(context.Background(), db, f, bcrypt.MinCost, lg)).To(Succeed())

		var n int64
		Expect(db.Model(&rbac.PermissionDetail{}).Count(&n).Error).To(Succeed())
		Expect(n).To(BeEquivalentTo(4))

		var admin, operators rbac.Role
		Expect(db.First(&admin, "code = ?", "admin").Error).To(Succeed())
		Expect(db.First(&operators, "code = ?", "operators").Error).To(Succeed())

		Expect(db.Model(&rbac.RolePermissionDetail{}).Where("role_id = ?", admin.ID).Count(&n).Error).To(Succeed())
		Expect(n).To(BeEquivalentTo(4))
		Expect(db.Model(&rbac.RolePermission{}).Where("role_id = ?", operators.ID).Count(&n).Error).To(Succeed())
		Expect(n).To(BeEquivalentTo(1))
		Expect(db.Model(&rbac.RolePermissionDetail{}).Where("role_id = ?", operators.ID).Count(&n).Error).To(Succeed())
		Expect(n).To(BeEquivalentTo(1))
		Expect(db.Model(&userDatamodel.UserMeta{}).Where("role_id = ?", operators.ID).Count(&n).Error).To(Succeed())
		Expect(n).To(BeEquivalentTo(1))

		var root userDatamodel.User
		Expect(db.First(&root, "email = ?", "root@mail.com").Error).To(Succeed())
		Expect(root.RoleID).To(Equal(admin.ID))
		Expect(root.IsActive).To(BeTrue())
		Expect(bcrypt.CompareHashAndPassword([]byte(root.PasswordHash), []byte("password"))).To(Succeed())

		var menu menuDatamodel.Menu
		Expect(db.First(&menu, "code = ?", "access").Error).To(Succeed())
		Expect(menu.SubjectID).NotTo(BeNil())
		Expect(db.Model(&menuDatamodel.RoleMenu{}).Where("menu_id = ?", menu.ID).Count(&n).Error).To(Succeed())
		Expect(n).To(BeEquivalentTo(1))
		Expect(db.Model(&menuDatamodel.SubMenu{}).Where("menu_id = ?", menu.ID).Count(&n).Error).To(Succeed())
		Expect(n).To(BeEquivalentTo(1))
	})

	It("rolls back when a reference is unknown", func() {
		db, err := database.OpenSQLite(":memory:")
		Expect(err).NotTo(HaveOccurred())
		f := load(`
permissions:
  - { name: Users, code: users }
actions: [read]
roles:
  - name: Operators
    code: operators
    grants:
      reports: [read]
`)

		err = seed(context.Background(), db, f, bcrypt.MinCost, lg)
		Expect(err).To(MatchError(ContainSubstring("unknown permission reports")))

		var n int64
		Expect(db.Model(&rbac.Permission{}).Count(&n).Error).To(Succeed())
		Expect(n).To(BeZero())
	})
})

type countingScanner struct {
	calls atomic.Int32
	err   error
}

func (s *countingScanner) Scan(context.Context) (int, error) {
	s.calls.Add(1)
	return 0, s.err
}

var _ = Describe("scheduleIntegrityScan", func() {
	lg := slog.New(slog.NewTextHandler(io.Discard, nil))

	It("rejects an invalid schedule", func() {
		_, err := scheduleIntegrityScan(context.Background(), &countingScanner{}, "every tuesday", lg)
		Expect(err).To(MatchError(ContainSubstring("invalid schedule")))
	})

	It("runs the scan on schedule and survives failures", func() {
		scanner := &countingScanner{err: errors.New("db down")}
		c, err := scheduleIntegrityScan(context.Background(), scanner, "@every 1s", lg)
		Expect(err).NotTo(HaveOccurred())

		c.Start()
		DeferCleanup(func() { <-c.Stop().Done() })

		Eventually(scanner.calls.Load, "3s", "100ms").Should(BeNumerically(">=", 1))
	})
})
