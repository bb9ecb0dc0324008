package access_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal/access"
	accessPostgres "github.com/frahmantamala/rbac-admin/internal/access/postgres"
	"github.com/frahmantamala/rbac-admin/internal/core/database"
	"github.com/frahmantamala/rbac-admin/internal/core/metrics"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var _ = Describe("IntegrityScanner", func() {
	It("counts detail grants without a matching parent grant", func() {
		db, err := database.OpenSQLite(":memory:")
		Expect(err).NotTo(HaveOccurred())
		fx := grantFixture{db: db}

		categories := fx.permission("categories")
		write := fx.detail(categories, "write")
		roles := fx.permission("roles")
		rolesRead := fx.detail(roles, "read")

		editor := fx.role("editor")
		fx.grant(editor, categories)
		fx.grantDetail(editor, write)
		fx.grantDetail(editor, rolesRead)

		m := metrics.New(prometheus.NewRegistry())
		scanner := access.NewIntegrityScanner(accessPostgres.NewGrantRepository(db), m, slog.New(slog.NewTextHandler(io.Discard, nil)))

		n, err := scanner.Scan(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(1))
		Expect(testutil.ToFloat64(m.OrphanDetailGrants)).To(Equal(1.0))
	})
})
