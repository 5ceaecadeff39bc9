package models

// StaffDirectoryEntry is a staff member's identity record.
type StaffDirectoryEntry struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	StaffName    string `json:"staff_name"`
	MobileNumber string `json:"mobile_number"`
	Status       string `json:"status"`
}

// CurrentUser is the authenticated principal as forwarded by the auth provider.
type CurrentUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	StaffID   string `json:"staffId,omitempty"`
	StaffName string `json:"staffName,omitempty"`
	Name      string `json:"name,omitempty"`
}

// IsStaff reports whether staff-scoped filtering applies to the user.
func (u CurrentUser) IsStaff() bool {
	return u.Role == RoleStaff
}
