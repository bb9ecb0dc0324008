package audit

import (
	"unicode/utf8"

	"github.com/frahmantamala/rbac-admin/internal"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
	"github.com/google/uuid"
)

// EventRecorded is published on the event bus for every asynchronous write.
const EventRecorded = "audit.recorded"

var ErrCannotCreateHistory = internal.NewBadRequestError("Cannot create history", internal.ErrCodeStorageFailure)

// Entry is one access attempt outcome.
type Entry struct {
	UserID           *uuid.UUID
	Email            string
	Permission       string
	PermissionDetail string
	StatusCode       int
}

func ToDataModel(e Entry) *userDatamodel.UserHistory {
	return &userDatamodel.UserHistory{
		UserID:           e.UserID,
		Email:            e.Email,
		StatusCode:       e.StatusCode,
		Permission:       truncate(e.Permission, 50),
		PermissionDetail: truncate(e.PermissionDetail, 50),
	}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
