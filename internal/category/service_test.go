package category_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/category"
	categoryDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/category"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCategoryService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Category Service Suite")
}

// MockRepository implements category.RepositoryAPI for testing
type MockRepository struct {
	categories map[uuid.UUID]*categoryDatamodel.Category
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		categories: make(map[uuid.UUID]*categoryDatamodel.Category),
	}
}

func (m *MockRepository) List(_ context.Context, _ category.ListFilter) ([]*categoryDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*categoryDatamodel.Category
	for _, cat := range m.categories {
		result = append(result, cat)
	}
	return result, nil
}

func (m *MockRepository) GetByID(_ context.Context, id uuid.UUID) (*categoryDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.categories[id], nil
}

func (m *MockRepository) Create(_ context.Context, cat *categoryDatamodel.Category) error {
	if m.shouldFail {
		return m.failError
	}
	if cat.ID == uuid.Nil {
		cat.ID = uuid.New()
	}
	m.categories[cat.ID] = cat
	return nil
}

func (m *MockRepository) Update(_ context.Context, cat *categoryDatamodel.Category) error {
	if m.shouldFail {
		return m.failError
	}
	m.categories[cat.ID] = cat
	return nil
}

func (m *MockRepository) Delete(_ context.Context, id uuid.UUID) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.categories, id)
	return nil
}

var _ = Describe("Category Service", func() {
	var (
		ctx      context.Context
		mockRepo *MockRepository
		service  *category.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = category.NewService(mockRepo, logger)
	})

	Describe("Create", func() {
		It("should create a category", func() {
			resp, err := service.Create(ctx, category.CategoryDTO{Name: "Hardware", Code: "hw"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.ID).NotTo(Equal(uuid.Nil))
			Expect(resp.Name).To(Equal("Hardware"))
			Expect(mockRepo.categories).To(HaveLen(1))
		})

		It("should reject a missing name", func() {
			_, err := service.Create(ctx, category.CategoryDTO{Code: "hw"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.GetDetailedMessage()).To(Equal("name is required"))
		})

		It("should hide storage errors behind a generic message", func() {
			mockRepo.shouldFail = true
			mockRepo.failError = errors.New("connection reset")

			_, err := service.Create(ctx, category.CategoryDTO{Name: "Hardware"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(appErr.GetDetailedMessage()).To(Equal("Cannot create category"))
		})
	})

	Describe("Update", func() {
		It("should replace name and code", func() {
			created, err := service.Create(ctx, category.CategoryDTO{Name: "Hardware", Code: "hw"})
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.Update(ctx, created.ID, category.CategoryDTO{Name: "Software", Code: "sw"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Software"))
			Expect(mockRepo.categories[created.ID].Code).To(Equal("sw"))
		})

		It("should report a missing category", func() {
			_, err := service.Update(ctx, uuid.New(), category.CategoryDTO{Name: "x"})
			Expect(err).To(MatchError(category.ErrCategoryNotFound))
		})
	})

	Describe("Delete", func() {
		It("should delete an existing category", func() {
			created, err := service.Create(ctx, category.CategoryDTO{Name: "Hardware"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, created.ID)).To(Succeed())
			Expect(mockRepo.categories).To(BeEmpty())
		})

		It("should report a missing category", func() {
			Expect(service.Delete(ctx, uuid.New())).To(MatchError(category.ErrCategoryNotFound))
		})
	})
})
