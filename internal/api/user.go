package api

import (
	"net/http"
	"strings"

	"salonbook/internal/models"
)

// Identity headers forwarded by the auth gateway.
const (
	headerUserID    = "X-User-Id"
	headerUserEmail = "X-User-Email"
	headerUserRole  = "X-User-Role"
	headerStaffID   = "X-Staff-Id"
	headerStaffName = "X-Staff-Name"
	headerUserName  = "X-User-Name"
)

func currentUser(r *http.Request) (models.CurrentUser, bool) {
	u := models.CurrentUser{
		ID:        strings.TrimSpace(r.Header.Get(headerUserID)),
		Email:     strings.TrimSpace(r.Header.Get(headerUserEmail)),
		Role:      strings.ToLower(strings.TrimSpace(r.Header.Get(headerUserRole))),
		StaffID:   strings.TrimSpace(r.Header.Get(headerStaffID)),
		StaffName: strings.TrimSpace(r.Header.Get(headerStaffName)),
		Name:      strings.TrimSpace(r.Header.Get(headerUserName)),
	}
	return u, u.ID != "" || u.Email != ""
}
