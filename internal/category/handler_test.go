package category_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/rbac-admin/internal/category"
	categoryPostgres "github.com/frahmantamala/rbac-admin/internal/category/postgres"
	"github.com/frahmantamala/rbac-admin/internal/core/database"
	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db      *gorm.DB
		service *category.Service
		router  *chi.Mux
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = database.OpenSQLite(":memory:")
		Expect(err).NotTo(HaveOccurred())

		service = category.NewService(categoryPostgres.NewCategoryRepository(db), slogger)
		handler := category.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Get("/categories", handler.GetCategories)
		router.Post("/categories", handler.CreateCategory)
		router.Get("/categories/{id}", handler.GetCategory)
		router.Put("/categories/{id}", handler.UpdateCategory)
		router.Delete("/categories/{id}", handler.DeleteCategory)

		for _, name := range []string{"Makan", "Perjalanan", "Transport"} {
			_, err := service.Create(context.Background(), category.CategoryDTO{Name: name})
			Expect(err).NotTo(HaveOccurred())
		}
	})

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should list categories with the envelope", func() {
		w := do(http.MethodGet, "/categories", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Status).To(Equal("success"))
		Expect(response.Results).To(Equal(3))
		Expect(response.Categories[0].Name).To(Equal("Makan"))
	})

	It("should filter by name and paginate", func() {
		w := do(http.MethodGet, "/categories?name=an&limit=1&page=2", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Results).To(Equal(1))
		Expect(response.Categories[0].Name).To(Equal("Perjalanan"))
	})

	It("should reject a malformed page", func() {
		w := do(http.MethodGet, "/categories?page=zero", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should create, update and delete a category", func() {
		w := do(http.MethodPost, "/categories", map[string]string{"name": "Hardware", "code": "hw"})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created category.CategoryResponse
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())

		w = do(http.MethodPut, "/categories/"+created.ID.String(), map[string]string{"name": "Software", "code": "sw"})
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodGet, "/categories/"+created.ID.String(), nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var fetched category.CategoryResponse
		Expect(json.NewDecoder(w.Body).Decode(&fetched)).To(Succeed())
		Expect(fetched.Code).To(Equal("sw"))

		w = do(http.MethodDelete, "/categories/"+created.ID.String(), nil)
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = do(http.MethodGet, "/categories/"+created.ID.String(), nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))

		var errBody map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&errBody)).To(Succeed())
		Expect(errBody["message"]).To(Equal("Category not found"))
	})

	It("should reject an invalid id", func() {
		w := do(http.MethodGet, "/categories/not-a-uuid", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
