package role

import (
	"context"
	"net/http"

	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/google/uuid"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]RoleWithUserCount, error)
	Get(ctx context.Context, id uuid.UUID) (*RoleDetailResponse, error)
	Create(ctx context.Context, dto RoleDTO) (*RoleDetailResponse, error)
	Update(ctx context.Context, id uuid.UUID, dto RoleDTO) (*RoleDetailResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

func (h *Handler) GetRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.List(r.Context())
	if err != nil {
		h.Logger.Error("GetRoles: failed to list roles", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, RolesResponse{
		Status:  "success",
		Results: len(roles),
		Roles:   roles,
	})
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var dto RoleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateRole: failed to create role", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto RoleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.Logger.Error("UpdateRole: failed to update role", "error", err, "id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
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
