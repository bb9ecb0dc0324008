package access

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// Role codes with special treatment.
const (
	RoleAdmin        = "admin"
	RoleOperators    = "operators"
	RoleCommentators = "commentators"
	// RoleCustomerService has no special grants; it only has its own user listing.
	RoleCustomerService = "customer_service"
)

// Resource (permission) codes.
const (
	ResourceUsers            = "users"
	ResourceRoles            = "roles"
	ResourcePermissions      = "permissions"
	ResourcePermissionDetail = "permission_detail"
	ResourceStatuses         = "statuses"
	ResourceCategories       = "categories"
	ResourceMenu             = "menu"
	ResourceSubMenu          = "sub_menu"
	ResourceSubjectMenu      = "subject_menu"
)

// Action (permission detail) codes.
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionWrite  = "write"
	ActionDelete = "delete"
)

var (
	Resources = []string{
		ResourceUsers, ResourceRoles, ResourcePermissions, ResourcePermissionDetail,
		ResourceStatuses, ResourceCategories, ResourceMenu, ResourceSubMenu, ResourceSubjectMenu,
	}
	Actions = []string{ActionRead, ActionCreate, ActionWrite, ActionDelete}
)

// ProtectedRole reports whether a role's code is fixed once created.
func ProtectedRole(code string) bool {
	switch code {
	case RoleAdmin, RoleOperators, RoleCommentators:
		return true
	}
	return false
}

// SeesAllMenus reports whether a role bypasses role-menu visibility.
func SeesAllMenus(code string) bool {
	return code == RoleAdmin || code == RoleOperators
}

// Principal is the authenticated caller.
type Principal struct {
	UserID   uuid.UUID
	Email    string
	Name     string
	RoleID   uuid.UUID
	RoleCode string
}

func (p *Principal) IsAdmin() bool {
	return p.RoleCode == RoleAdmin
}

type ctxKey string

const principalKey ctxKey = "principal"

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}

// Requirement is the declared need of one call site.
type Requirement struct {
	Permissions []string
	Details     []string
}

func Require(permission string, details ...string) Requirement {
	return Requirement{Permissions: []string{permission}, Details: details}
}

func (r Requirement) codes() []string {
	return unionSorted(r.Permissions, r.Details)
}

func unionSorted(lists ...[]string) []string {
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, s := range list {
			seen[s] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
