package menu

import (
	"context"
	"net/http"
	"strings"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/access"
	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/google/uuid"
)

type ServiceAPI interface {
	ListSubjects(ctx context.Context, filter SubjectFilter) ([]SubjectMenuResponse, error)
	GetSubject(ctx context.Context, id uuid.UUID) (*SubjectMenuResponse, error)
	CreateSubject(ctx context.Context, dto SubjectMenuDTO) (*SubjectMenuResponse, error)
	UpdateSubject(ctx context.Context, id uuid.UUID, dto SubjectMenuDTO) (*SubjectMenuResponse, error)
	DeleteSubject(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, p *access.Principal, filter MenuFilter) ([]MenuResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*MenuResponse, error)
	Create(ctx context.Context, dto MenuDTO) (*MenuResponse, error)
	Update(ctx context.Context, id uuid.UUID, dto MenuDTO) (*MenuResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListSubMenus(ctx context.Context, filter SubMenuFilter) ([]SubMenuResponse, error)
	GetSubMenu(ctx context.Context, id uuid.UUID) (*SubMenuResponse, error)
	CreateSubMenu(ctx context.Context, dto SubMenuDTO) (*SubMenuResponse, error)
	UpdateSubMenu(ctx context.Context, id uuid.UUID, dto SubMenuDTO) (*SubMenuResponse, error)
	DeleteSubMenu(ctx context.Context, id uuid.UUID) error
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

func (h *Handler) GetSubjectMenus(w http.ResponseWriter, r *http.Request) {
	page, err := transport.ParsePagination(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	subjects, err := h.Service.ListSubjects(r.Context(), SubjectFilter{Limit: page.Limit, Offset: page.Offset()})
	if err != nil {
		h.Logger.Error("GetSubjectMenus: failed to get subject menus", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, SubjectMenusResponse{
		Status:       "success",
		Results:      len(subjects),
		SubjectMenus: subjects,
	})
}

func (h *Handler) GetSubjectMenu(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.GetSubject(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateSubjectMenu(w http.ResponseWriter, r *http.Request) {
	var dto SubjectMenuDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.CreateSubject(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateSubjectMenu: failed to create subject menu", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) UpdateSubjectMenu(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto SubjectMenuDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.UpdateSubject(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) DeleteSubjectMenu(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.DeleteSubject(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetMenus(w http.ResponseWriter, r *http.Request) {
	p, ok := access.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrNotAuthenticated)
		return
	}

	page, err := transport.ParsePagination(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	menus, err := h.Service.List(r.Context(), p, MenuFilter{
		Name:   strings.TrimSpace(r.URL.Query().Get("name")),
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		h.Logger.Error("GetMenus: failed to get menus", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MenusResponse{
		Status:  "success",
		Results: len(menus),
		Menu:    menus,
	})
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) CreateMenu(w http.ResponseWriter, r *http.Request) {
	var dto MenuDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateMenu: failed to create menu", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto MenuDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.Logger.Error("UpdateMenu: failed to update menu", "error", err, "id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) DeleteMenu(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) GetSubMenus(w http.ResponseWriter, r *http.Request) {
	page, err := transport.ParsePagination(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	filter := SubMenuFilter{
		Name:   strings.TrimSpace(r.URL.Query().Get("name")),
		Limit:  page.Limit,
		Offset: page.Offset(),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("menu_id")); raw != "" {
		menuID, err := uuid.Parse(raw)
		if err != nil {
			h.HandleServiceError(w, internal.ErrInvalidID.WithCause(err))
			return
		}
		filter.MenuID = &menuID
	}

	subs, err := h.Service.ListSubMenus(r.Context(), filter)
	if err != nil {
		h.Logger.Error("GetSubMenus: failed to get submenus", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, SubMenusResponse{
		Status:  "success",
		Results: len(subs),
		SubMenu: subs,
	})
}

func (h *Handler) GetSubMenu(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.GetSubMenu(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateSubMenu(w http.ResponseWriter, r *http.Request) {
	var dto SubMenuDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.CreateSubMenu(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateSubMenu: failed to create submenu", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) UpdateSubMenu(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto SubMenuDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.UpdateSubMenu(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) DeleteSubMenu(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.DeleteSubMenu(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
