package category

import (
	"context"
	"net/http"
	"strings"

	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/google/uuid"
)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) ([]CategoryResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*CategoryResponse, error)
	Create(ctx context.Context, dto CategoryDTO) (*CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, dto CategoryDTO) (*CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	page, err := transport.ParsePagination(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	categories, err := h.Service.List(r.Context(), ListFilter{
		Name:   strings.TrimSpace(r.URL.Query().Get("name")),
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		h.Logger.Error("GetCategories: failed to get categories", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoriesResponse{
		Status:     "success",
		Results:    len(categories),
		Categories: categories,
	})
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var dto CategoryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateCategory: failed to create category", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto CategoryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
