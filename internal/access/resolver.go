package access

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

type PermissionRef struct {
	ID   uuid.UUID
	Code string
	Name string
}

type DetailRef struct {
	ID           uuid.UUID
	PermissionID uuid.UUID
	Code         string
	Name         string
}

type OrphanGrant struct {
	RoleID             uuid.UUID
	PermissionDetailID uuid.UUID
}

type RepositoryAPI interface {
	// GrantedPermissions follows role_permissions.
	GrantedPermissions(ctx context.Context, roleID uuid.UUID) ([]PermissionRef, error)
	// GrantedDetails follows role_permission_details, keeping only details
	// whose parent permission is granted to the same role.
	GrantedDetails(ctx context.Context, roleID uuid.UUID) ([]DetailRef, error)
	AllPermissions(ctx context.Context) ([]PermissionRef, error)
	AllDetails(ctx context.Context) ([]DetailRef, error)
	OrphanDetailGrants(ctx context.Context) ([]OrphanGrant, error)
}

// GrantSet is a role's effective codes. Bypass is set for admin.
type GrantSet struct {
	Bypass      bool
	Permissions map[string]struct{}
	Details     map[string]struct{}
}

func (g *GrantSet) PermissionCodes() []string { return sortedKeys(g.Permissions) }

func (g *GrantSet) DetailCodes() []string { return sortedKeys(g.Details) }

// Codes is the union the guard compares against.
func (g *GrantSet) Codes() []string {
	return unionSorted(g.PermissionCodes(), g.DetailCodes())
}

func (g *GrantSet) Allows(req Requirement) bool {
	if g.Bypass {
		return true
	}
	for _, code := range req.codes() {
		_, isPermission := g.Permissions[code]
		_, isDetail := g.Details[code]
		if !isPermission && !isDetail {
			return false
		}
	}
	return true
}

type DetailGrant struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
}

// PermissionGrant is one granted permission with the details granted under it.
type PermissionGrant struct {
	PermissionID      uuid.UUID     `json:"permission_id"`
	PermissionName    string        `json:"permission_name"`
	PermissionCode    string        `json:"permission_code"`
	PermissionDetails []DetailGrant `json:"permission_details"`
}

// Resolver computes grants straight from the store on every call.
type Resolver struct {
	repo RepositoryAPI
}

func NewResolver(repo RepositoryAPI) *Resolver {
	return &Resolver{repo: repo}
}

func (r *Resolver) load(ctx context.Context, roleID uuid.UUID, roleCode string) ([]PermissionRef, []DetailRef, error) {
	if roleCode == RoleAdmin {
		perms, err := r.repo.AllPermissions(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("load all permissions: %w", err)
		}
		details, err := r.repo.AllDetails(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("load all permission details: %w", err)
		}
		return perms, details, nil
	}

	perms, err := r.repo.GrantedPermissions(ctx, roleID)
	if err != nil {
		return nil, nil, fmt.Errorf("load granted permissions for role %s: %w", roleID, err)
	}
	details, err := r.repo.GrantedDetails(ctx, roleID)
	if err != nil {
		return nil, nil, fmt.Errorf("load granted details for role %s: %w", roleID, err)
	}
	return perms, details, nil
}

func (r *Resolver) Resolve(ctx context.Context, roleID uuid.UUID, roleCode string) (*GrantSet, error) {
	perms, details, err := r.load(ctx, roleID, roleCode)
	if err != nil {
		return nil, err
	}

	set := &GrantSet{
		Bypass:      roleCode == RoleAdmin,
		Permissions: make(map[string]struct{}, len(perms)),
		Details:     make(map[string]struct{}, len(details)),
	}
	for _, p := range perms {
		set.Permissions[p.Code] = struct{}{}
	}
	for _, d := range details {
		set.Details[d.Code] = struct{}{}
	}
	return set, nil
}

// Tree nests granted details under their permissions, ordered by permission name.
func (r *Resolver) Tree(ctx context.Context, roleID uuid.UUID, roleCode string) ([]PermissionGrant, error) {
	perms, details, err := r.load(ctx, roleID, roleCode)
	if err != nil {
		return nil, err
	}
	return BuildTree(perms, details), nil
}

// GrantedTree is Tree without the admin bypass: only the role's own
// RolePermission and RolePermissionDetail rows.
func (r *Resolver) GrantedTree(ctx context.Context, roleID uuid.UUID) ([]PermissionGrant, error) {
	perms, details, err := r.load(ctx, roleID, "")
	if err != nil {
		return nil, err
	}
	return BuildTree(perms, details), nil
}

func BuildTree(perms []PermissionRef, details []DetailRef) []PermissionGrant {
	byPermission := make(map[uuid.UUID][]DetailGrant)
	for _, d := range details {
		byPermission[d.PermissionID] = append(byPermission[d.PermissionID], DetailGrant{ID: d.ID, Name: d.Name, Code: d.Code})
	}

	tree := make([]PermissionGrant, 0, len(perms))
	for _, p := range perms {
		granted := byPermission[p.ID]
		if granted == nil {
			granted = []DetailGrant{}
		}
		sort.Slice(granted, func(i, j int) bool { return granted[i].Code < granted[j].Code })
		tree = append(tree, PermissionGrant{
			PermissionID:      p.ID,
			PermissionName:    p.Name,
			PermissionCode:    p.Code,
			PermissionDetails: granted,
		})
	}
	sort.SliceStable(tree, func(i, j int) bool { return tree[i].PermissionName < tree[j].PermissionName })
	return tree
}
