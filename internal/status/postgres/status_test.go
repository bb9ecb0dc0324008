package postgres_test

import (
	"context"
	"testing"

	"github.com/frahmantamala/rbac-admin/internal/core/database"
	statusDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/status"
	"github.com/frahmantamala/rbac-admin/internal/status"
	statusPostgres "github.com/frahmantamala/rbac-admin/internal/status/postgres"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestStatusPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Status Postgres Suite")
}

var _ = Describe("Status Repository", func() {
	var (
		ctx  context.Context
		repo status.RepositoryAPI
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, err := database.OpenSQLite(":memory:")
		Expect(err).NotTo(HaveOccurred())
		repo = statusPostgres.NewStatusRepository(db)
	})

	It("should create and read back a status", func() {
		row := &statusDatamodel.Status{Title: "Open", Type: "ticket", Color: "#00ff00", Code: "open"}
		Expect(repo.Create(ctx, row)).To(Succeed())
		Expect(row.ID).NotTo(Equal(uuid.Nil))

		found, err := repo.GetByID(ctx, row.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(found.Title).To(Equal("Open"))
		Expect(found.Color).To(Equal("#00ff00"))
	})

	It("should return nil for a missing status", func() {
		found, err := repo.GetByID(ctx, uuid.New())
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeNil())
	})

	It("should page through statuses", func() {
		for _, code := range []string{"open", "closed", "pending"} {
			Expect(repo.Create(ctx, &statusDatamodel.Status{Title: code, Code: code})).To(Succeed())
		}

		page, err := repo.List(ctx, 2, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(page).To(HaveLen(2))

		rest, err := repo.List(ctx, 2, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(rest).To(HaveLen(1))
	})

	It("should update and delete", func() {
		row := &statusDatamodel.Status{Title: "Open", Code: "open"}
		Expect(repo.Create(ctx, row)).To(Succeed())

		row.Title = "Reopened"
		Expect(repo.Update(ctx, row)).To(Succeed())
		found, err := repo.GetByID(ctx, row.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(found.Title).To(Equal("Reopened"))

		Expect(repo.Delete(ctx, row.ID)).To(Succeed())
		found, err = repo.GetByID(ctx, row.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeNil())
	})
})
