package audit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/frahmantamala/rbac-admin/internal/audit"
	auditPostgres "github.com/frahmantamala/rbac-admin/internal/audit/postgres"
	"github.com/frahmantamala/rbac-admin/internal/core/database"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/rbac-admin/internal/core/events"
	"github.com/frahmantamala/rbac-admin/internal/core/metrics"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"
)

func TestAudit(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Audit Suite")
}

type failingRepo struct{}

func (failingRepo) Create(context.Context, *userDatamodel.UserHistory) error {
	return errors.New("disk full")
}

var _ = Describe("ToDataModel", func() {
	It("cuts long codes to 50 bytes on a rune boundary", func() {
		code := strings.Repeat("a", 49) + "é" + "tail"
		row := audit.ToDataModel(audit.Entry{Permission: code, PermissionDetail: code})

		Expect(utf8.ValidString(row.Permission)).To(BeTrue())
		Expect(row.Permission).To(Equal(strings.Repeat("a", 49)))
		Expect(row.PermissionDetail).To(Equal(row.Permission))
	})

	It("keeps a rune that ends exactly at the limit", func() {
		code := strings.Repeat("a", 48) + "é" + "tail"
		row := audit.ToDataModel(audit.Entry{Permission: code})

		Expect(row.Permission).To(Equal(strings.Repeat("a", 48) + "é"))
		Expect(row.Permission).To(HaveLen(50))
	})
})

var _ = Describe("Sink", func() {
	var (
		db      *gorm.DB
		bus     *events.EventBus
		m       *metrics.Metrics
		slogger *slog.Logger
		userID  uuid.UUID
	)

	BeforeEach(func() {
		var err error
		db, err = database.OpenSQLite(":memory:")
		Expect(err).NotTo(HaveOccurred())

		slogger = slog.New(slog.NewTextHandler(io.Discard, nil))
		bus = events.NewEventBus(slogger)
		m = metrics.New(prometheus.NewRegistry())
		userID = uuid.New()
	})

	countRows := func() int64 {
		var n int64
		Expect(db.Model(&userDatamodel.UserHistory{}).Count(&n).Error).To(Succeed())
		return n
	}

	Describe("Record", func() {
		It("appends one row with the attempted codes", func() {
			sink := audit.NewSink(auditPostgres.NewHistoryRepository(db), bus, m, slogger)

			err := sink.Record(context.Background(), audit.Entry{
				UserID:           &userID,
				Email:            "editor@mail.com",
				Permission:       "permission",
				PermissionDetail: "permission",
				StatusCode:       200,
			})
			Expect(err).NotTo(HaveOccurred())

			var row userDatamodel.UserHistory
			Expect(db.First(&row).Error).To(Succeed())
			Expect(row.ID).NotTo(Equal(uuid.Nil))
			Expect(*row.UserID).To(Equal(userID))
			Expect(row.Email).To(Equal("editor@mail.com"))
			Expect(row.StatusCode).To(Equal(200))
			Expect(row.CreatedAt).NotTo(BeZero())
		})

		It("surfaces a storage failure as cannot create history", func() {
			sink := audit.NewSink(failingRepo{}, bus, m, slogger)

			err := sink.Record(context.Background(), audit.Entry{Email: "x@mail.com"})
			Expect(err).To(MatchError(audit.ErrCannotCreateHistory))
			Expect(testutil.ToFloat64(m.AuditWritesTotal.WithLabelValues("direct", "error"))).To(Equal(1.0))
		})

		It("accepts entries without a user", func() {
			sink := audit.NewSink(auditPostgres.NewHistoryRepository(db), bus, m, slogger)

			Expect(sink.Record(context.Background(), audit.Entry{Email: "ghost@mail.com", StatusCode: 401})).To(Succeed())

			var row userDatamodel.UserHistory
			Expect(db.First(&row).Error).To(Succeed())
			Expect(row.UserID).To(BeNil())
		})
	})

	Describe("RecordAsync", func() {
		It("writes the row in the background", func() {
			sink := audit.NewSink(auditPostgres.NewHistoryRepository(db), bus, m, slogger)

			sink.RecordAsync(context.Background(), audit.Entry{UserID: &userID, Permission: "roles", PermissionDetail: "read", StatusCode: 200})

			Expect(bus.Drain(context.Background())).To(Succeed())
			Expect(countRows()).To(Equal(int64(1)))
			Expect(testutil.ToFloat64(m.AuditWritesTotal.WithLabelValues("async", "ok"))).To(Equal(1.0))
		})

		It("drops failures without surfacing them", func() {
			sink := audit.NewSink(failingRepo{}, bus, m, slogger)

			Expect(func() {
				sink.RecordAsync(context.Background(), audit.Entry{Permission: "roles", StatusCode: 403})
			}).NotTo(Panic())

			Expect(bus.Drain(context.Background())).To(Succeed())
			Expect(testutil.ToFloat64(m.AuditWritesTotal.WithLabelValues("async", "error"))).To(Equal(1.0))
		})

		It("survives cancellation of the request context", func() {
			sink := audit.NewSink(auditPostgres.NewHistoryRepository(db), bus, m, slogger)

			ctx, cancel := context.WithCancel(context.Background())
			sink.RecordAsync(ctx, audit.Entry{Permission: "menu", PermissionDetail: "menu", StatusCode: 200})
			cancel()

			Expect(bus.Drain(context.Background())).To(Succeed())
			Expect(countRows()).To(Equal(int64(1)))
		})
	})
})
