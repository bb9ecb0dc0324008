package access_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/access"
	accessPostgres "github.com/frahmantamala/rbac-admin/internal/access/postgres"
	"github.com/frahmantamala/rbac-admin/internal/audit"
	"github.com/frahmantamala/rbac-admin/internal/core/database"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	"github.com/frahmantamala/rbac-admin/internal/core/metrics"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type recordedEntries struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *recordedEntries) RecordAsync(_ context.Context, entry audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recordedEntries) all() []audit.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]audit.Entry(nil), r.entries...)
}

var _ = Describe("Guard", func() {
	var (
		ctx      context.Context
		fx       grantFixture
		recorder *recordedEntries
		m        *metrics.Metrics
		guard    *access.Guard
		editor   *rbac.Role
		admin    *rbac.Role
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, err := database.OpenSQLite(":memory:")
		Expect(err).NotTo(HaveOccurred())
		fx = grantFixture{db: db}

		recorder = &recordedEntries{}
		m = metrics.New(prometheus.NewRegistry())
		resolver := access.NewResolver(accessPostgres.NewGrantRepository(db))
		guard = access.NewGuard(resolver, recorder, m, slog.New(slog.NewTextHandler(io.Discard, nil)))

		categories := fx.permission("categories")
		fx.detail(categories, "read")
		write := fx.detail(categories, "write")
		editor = fx.role("editor")
		fx.grant(editor, categories)
		fx.grantDetail(editor, write)
		admin = fx.role(access.RoleAdmin)
	})

	principal := func(role *rbac.Role) *access.Principal {
		return &access.Principal{UserID: uuid.New(), Email: role.Code + "@mail.com", RoleID: role.ID, RoleCode: role.Code}
	}

	It("denies a detail the role was not granted even though the parent is", func() {
		err := guard.Check(ctx, principal(editor), access.Require("categories", "read"))
		Expect(err).To(HaveOccurred())

		var denied *access.DeniedError
		Expect(errors.As(err, &denied)).To(BeTrue())
		Expect(denied.Missing()).To(Equal([]string{"read"}))

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusForbidden))
		Expect(appErr.Message).To(Equal("User does not have required permissions"))
	})

	It("allows a granted permission and detail pair", func() {
		Expect(guard.Check(ctx, principal(editor), access.Require("categories", "write"))).To(Succeed())
	})

	It("allows admin without any explicit grants", func() {
		Expect(guard.Check(ctx, principal(admin), access.Require("roles", "delete"))).To(Succeed())
		Expect(guard.Check(ctx, principal(admin), access.Require("nothing-like-this"))).To(Succeed())
	})

	It("records every decision with its status", func() {
		p := principal(editor)
		Expect(guard.Check(ctx, p, access.Require("categories", "write"))).To(Succeed())
		Expect(guard.Check(ctx, p, access.Require("categories", "read"))).NotTo(Succeed())
		Expect(guard.Check(ctx, principal(admin), access.Require("menu", "read"))).To(Succeed())

		entries := recorder.all()
		Expect(entries).To(HaveLen(3))
		Expect(entries[0].StatusCode).To(Equal(http.StatusOK))
		Expect(entries[0].Permission).To(Equal("categories"))
		Expect(entries[0].PermissionDetail).To(Equal("write"))
		Expect(*entries[0].UserID).To(Equal(p.UserID))
		Expect(entries[1].StatusCode).To(Equal(http.StatusForbidden))
		Expect(entries[2].Email).To(Equal("admin@mail.com"))

		Expect(testutil.ToFloat64(m.GuardDecisionsTotal.WithLabelValues("categories", "allow"))).To(Equal(1.0))
		Expect(testutil.ToFloat64(m.GuardDecisionsTotal.WithLabelValues("categories", "deny"))).To(Equal(1.0))
	})

	It("joins multiple details with commas in the audit entry", func() {
		Expect(guard.Check(ctx, principal(admin), access.Require("categories", "read", "write"))).To(Succeed())
		Expect(recorder.all()[0].PermissionDetail).To(Equal("read,write"))
	})
})
