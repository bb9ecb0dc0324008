package status

import (
	"context"
	"net/http"

	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/google/uuid"
)

type ServiceAPI interface {
	List(ctx context.Context, limit, offset int) ([]StatusResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*StatusResponse, error)
	Create(ctx context.Context, dto StatusDTO) (*StatusResponse, error)
	Update(ctx context.Context, id uuid.UUID, dto StatusDTO) (*StatusResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

func (h *Handler) GetStatuses(w http.ResponseWriter, r *http.Request) {
	page, err := transport.ParsePagination(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	statuses, err := h.Service.List(r.Context(), page.Limit, page.Offset())
	if err != nil {
		h.Logger.Error("GetStatuses: failed to list statuses", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, StatusesResponse{
		Status:   "success",
		Results:  len(statuses),
		Statuses: statuses,
	})
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) CreateStatus(w http.ResponseWriter, r *http.Request) {
	var dto StatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto StatusDTO
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

func (h *Handler) DeleteStatus(w http.ResponseWriter, r *http.Request) {
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
