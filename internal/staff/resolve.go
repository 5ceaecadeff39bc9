// Package staff decides which appointments a logged-in staff member should
// see. Identity ambiguity always widens the result instead of hiding data.
package staff

import (
	"sort"
	"strings"

	"salonbook/internal/models"
)

// ResolutionKind tells callers whether staff-scoped filtering applies.
type ResolutionKind int

const (
	// NoRole means the user is not staff; nothing is filtered.
	NoRole ResolutionKind = iota
	// Ambiguous means the user is staff but could not be identified.
	Ambiguous
	// Resolved means tokens are available and filtering applies.
	Resolved
)

func (k ResolutionKind) String() string {
	switch k {
	case NoRole:
		return "no_role"
	case Ambiguous:
		return "ambiguous"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Tokens are the identity values that stand for one staff member.
type Tokens struct {
	IDs     map[string]struct{}
	Names   map[string]struct{}
	Mobiles map[string]struct{}
}

func newTokens() Tokens {
	return Tokens{
		IDs:     make(map[string]struct{}),
		Names:   make(map[string]struct{}),
		Mobiles: make(map[string]struct{}),
	}
}

// Empty reports whether no token of any kind is present.
func (t Tokens) Empty() bool {
	return len(t.IDs) == 0 && len(t.Names) == 0 && len(t.Mobiles) == 0
}

// Matches reports whether any assignment on the appointment carries one of
// the tokens.
func (t Tokens) Matches(a *models.Appointment) bool {
	for _, s := range a.Staff {
		if _, ok := t.IDs[s.ID]; ok {
			return true
		}
		if name := normalizeName(s.Name); name != "" {
			if _, ok := t.Names[name]; ok {
				return true
			}
		}
		if mobile := strings.TrimSpace(s.Number); mobile != "" {
			if _, ok := t.Mobiles[mobile]; ok {
				return true
			}
		}
	}
	return false
}

// Snapshot returns sorted token lists for logging and API responses.
func (t Tokens) Snapshot() map[string][]string {
	return map[string][]string{
		"ids":     sortedKeys(t.IDs),
		"names":   sortedKeys(t.Names),
		"mobiles": sortedKeys(t.Mobiles),
	}
}

// IdentityResolution is the outcome of matching a user to the directory.
type IdentityResolution struct {
	Kind     ResolutionKind
	Tokens   Tokens
	Identity *models.StaffDirectoryEntry
	Reason   string
}

// Resolve matches user against the staff directory. directoryLoading means
// the directory is not yet available and is treated as ambiguity.
func Resolve(user models.CurrentUser, directory []models.StaffDirectoryEntry, directoryLoading bool) IdentityResolution {
	if !user.IsStaff() {
		return IdentityResolution{Kind: NoRole, Reason: "role is not staff"}
	}
	if directoryLoading {
		return IdentityResolution{Kind: Ambiguous, Reason: "staff directory is loading"}
	}

	identity := findIdentity(user, directory)

	tokens := newTokens()
	addID(tokens.IDs, user.StaffID)
	addID(tokens.IDs, user.ID)
	addName(tokens.Names, user.StaffName)
	addName(tokens.Names, user.Name)
	addName(tokens.Names, user.Email)
	if identity != nil {
		addID(tokens.IDs, identity.ID)
		addName(tokens.Names, identity.StaffName)
		if mobile := strings.TrimSpace(identity.MobileNumber); mobile != "" {
			tokens.Mobiles[mobile] = struct{}{}
		}
	}

	if tokens.Empty() {
		return IdentityResolution{Kind: Ambiguous, Identity: identity, Reason: "no identity tokens"}
	}
	return IdentityResolution{Kind: Resolved, Tokens: tokens, Identity: identity}
}

func findIdentity(user models.CurrentUser, directory []models.StaffDirectoryEntry) *models.StaffDirectoryEntry {
	if email := strings.TrimSpace(user.Email); email != "" {
		for i := range directory {
			if strings.EqualFold(strings.TrimSpace(directory[i].Email), email) {
				return &directory[i]
			}
		}
	}
	if user.ID != "" {
		for i := range directory {
			if directory[i].ID != "" && directory[i].ID == user.ID {
				return &directory[i]
			}
		}
	}
	return nil
}

func addID(set map[string]struct{}, id string) {
	if id == "" {
		return
	}
	set[id] = struct{}{}
}

func addName(set map[string]struct{}, name string) {
	if n := normalizeName(name); n != "" {
		set[n] = struct{}{}
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
