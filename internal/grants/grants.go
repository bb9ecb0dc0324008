package grants

import (
	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/google/uuid"
)

var (
	ErrInvalidPermissionSelection = internal.NewBadRequestError("Cannot update role", internal.ErrCodeValidationFailed)
	ErrInvalidMenuRoles           = internal.NewBadRequestError("Cannot update menu", internal.ErrCodeValidationFailed)
)

// Selection is one permission with the details chosen under it.
type Selection struct {
	PermissionID uuid.UUID   `json:"permission_id"`
	DetailIDs    []uuid.UUID `json:"permission_details"`
}

// normalize merges selections of the same permission and drops repeated ids,
// keeping first-seen order.
func normalize(selections []Selection) []Selection {
	index := make(map[uuid.UUID]int)
	seenDetail := make(map[uuid.UUID]struct{})
	var out []Selection

	for _, s := range selections {
		i, ok := index[s.PermissionID]
		if !ok {
			i = len(out)
			index[s.PermissionID] = i
			out = append(out, Selection{PermissionID: s.PermissionID})
		}
		for _, d := range s.DetailIDs {
			if _, dup := seenDetail[d]; dup {
				continue
			}
			seenDetail[d] = struct{}{}
			out[i].DetailIDs = append(out[i].DetailIDs, d)
		}
	}
	return out
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
