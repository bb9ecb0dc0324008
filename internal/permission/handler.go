package permission

import (
	"context"
	"net/http"
	"strings"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/google/uuid"
)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) ([]PermissionWithRoles, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*PermissionDetailedResponse, error)
	Create(ctx context.Context, dto PermissionDTO) (*PermissionResponse, error)
	Update(ctx context.Context, id uuid.UUID, dto PermissionDTO) (*PermissionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListDetails(ctx context.Context, permissionID *uuid.UUID) ([]DetailResponse, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*DetailResponse, error)
	CreateDetail(ctx context.Context, dto DetailDTO) (*DetailResponse, error)
	UpdateDetail(ctx context.Context, id uuid.UUID, dto DetailDTO) (*DetailResponse, error)
	DeleteDetail(ctx context.Context, id uuid.UUID) error
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

func (h *Handler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	page, err := transport.ParsePagination(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	permissions, total, err := h.Service.List(r.Context(), ListFilter{Limit: page.Limit, Offset: page.Offset()})
	if err != nil {
		h.Logger.Error("GetPermissions: failed to get permissions", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, PermissionsResponse{
		Status:      "success",
		CountAll:    total,
		Results:     len(permissions),
		Permissions: permissions,
	})
}

func (h *Handler) GetPermission(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	var dto PermissionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreatePermission: failed to create permission", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto PermissionDTO
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

func (h *Handler) DeletePermission(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) GetPermissionDetails(w http.ResponseWriter, r *http.Request) {
	var permissionID *uuid.UUID
	if raw := strings.TrimSpace(r.URL.Query().Get("permission_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.HandleServiceError(w, internal.ErrInvalidID.WithCause(err))
			return
		}
		permissionID = &id
	}

	details, err := h.Service.ListDetails(r.Context(), permissionID)
	if err != nil {
		h.Logger.Error("GetPermissionDetails: failed to get permission details", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, DetailsResponse{
		Status:            "success",
		Results:           len(details),
		PermissionDetails: details,
	})
}

func (h *Handler) GetPermissionDetail(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.GetDetail(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreatePermissionDetail(w http.ResponseWriter, r *http.Request) {
	var dto DetailDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.CreateDetail(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreatePermissionDetail: failed to create permission detail", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) UpdatePermissionDetail(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto DetailDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.UpdateDetail(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) DeletePermissionDetail(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.DeleteDetail(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
