package user

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/access"
	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/google/uuid"
)

var errInvalidStatus = internal.NewValidationError("status must be true or false", internal.ErrCodeValidationFailed)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) (*UserPage, error)
	ActiveInRole(ctx context.Context, roleCode string, filter ListFilter) ([]UserResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*UserResponse, error)
	Create(ctx context.Context, dto CreateUserDTO) (*UserResponse, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateUserDTO) (*UserResponse, error)
	ResetPassword(ctx context.Context, dto ResetPasswordDTO) (*MessageResponse, error)

	Me(ctx context.Context, p *access.Principal) (*UserResponse, error)
	Permissions(ctx context.Context, p *access.Principal) (*PermissionsResponse, error)
	Menu(ctx context.Context, p *access.Principal) (*MenuAccessResponse, error)
	Profile(ctx context.Context, p *access.Principal) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, p *access.Principal, dto ProfileDTO) (*ProfileResponse, error)
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

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	page, err := transport.ParsePagination(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	q := r.URL.Query()
	filter := ListFilter{
		Name:   strings.TrimSpace(q.Get("name")),
		Email:  strings.TrimSpace(q.Get("email")),
		Limit:  page.Limit,
		Offset: page.Offset(),
	}
	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status, err := strconv.ParseBool(raw)
		if err != nil {
			h.HandleServiceError(w, errInvalidStatus)
			return
		}
		filter.Status = &status
	}

	result, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("GetUsers: failed to get users", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, UsersResponse{
		Status:        "success",
		UsersActive:   result.Active,
		UsersInactive: result.Inactive,
		CountAll:      result.CountAll,
		Results:       len(result.Users),
		Users:         result.Users,
	})
}

func (h *Handler) GetCommentators(w http.ResponseWriter, r *http.Request) {
	h.writeRoleMembers(w, r, access.RoleCommentators)
}

func (h *Handler) GetCustomerService(w http.ResponseWriter, r *http.Request) {
	h.writeRoleMembers(w, r, access.RoleCustomerService)
}

func (h *Handler) writeRoleMembers(w http.ResponseWriter, r *http.Request, roleCode string) {
	page, err := transport.ParsePagination(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	q := r.URL.Query()
	filter := ListFilter{
		Name:   strings.TrimSpace(q.Get("name")),
		Email:  strings.TrimSpace(q.Get("email")),
		Limit:  page.Limit,
		Offset: page.Offset(),
	}
	users, total, err := h.Service.ActiveInRole(r.Context(), roleCode, filter)
	if err != nil {
		h.Logger.Error("writeRoleMembers: failed to get users", "error", err, "role", roleCode)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, RoleMembersResponse{
		Status:   "success",
		CountAll: total,
		Results:  len(users),
		Users:    users,
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateUser: failed to create user", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseUUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto UpdateUserDTO
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

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var dto ResetPasswordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.ResetPassword(r.Context(), dto)
	if err != nil {
		h.Logger.Error("ResetPassword: failed to reset password", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	resp, err := h.Service.Me(r.Context(), p)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	resp, err := h.Service.Permissions(r.Context(), p)
	if err != nil {
		h.Logger.Error("GetPermissions: failed to get user permissions", "error", err, "user_id", p.UserID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	resp, err := h.Service.Menu(r.Context(), p)
	if err != nil {
		h.Logger.Error("GetMenu: failed to get user menu", "error", err, "user_id", p.UserID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	resp, err := h.Service.Profile(r.Context(), p)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var dto ProfileDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.UpdateProfile(r.Context(), p, dto)
	if err != nil {
		h.Logger.Error("UpdateProfile: failed to update profile", "error", err, "user_id", p.UserID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (*access.Principal, bool) {
	p, ok := access.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrNotAuthenticated)
	}
	return p, ok
}
