package staff

import (
	"salonbook/internal/models"

	"github.com/rs/zerolog"
)

// Matcher filters appointments down to those relevant to a staff member.
type Matcher struct {
	logger  *zerolog.Logger
	observe func(ResolutionKind)
}

// NewMatcher builds a matcher. observe, if set, is called with the kind of
// every resolution that passes through Filter.
func NewMatcher(logger *zerolog.Logger, observe func(ResolutionKind)) *Matcher {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Matcher{logger: logger, observe: observe}
}

// Filter applies res to appts. Only a Resolved identity narrows the list;
// any other kind returns appts unchanged.
func (m *Matcher) Filter(user models.CurrentUser, res IdentityResolution, appts []models.Appointment) []models.Appointment {
	if m.observe != nil {
		m.observe(res.Kind)
	}
	if res.Kind != Resolved {
		return appts
	}

	out := make([]models.Appointment, 0, len(appts))
	for i := range appts {
		if res.Tokens.Matches(&appts[i]) {
			out = append(out, appts[i])
		}
	}

	if len(out) == 0 {
		m.logEmpty(user, res, appts)
	}
	return out
}

// FilterForUser resolves and filters in one step.
func (m *Matcher) FilterForUser(user models.CurrentUser, directory []models.StaffDirectoryEntry, directoryLoading bool, appts []models.Appointment) []models.Appointment {
	return m.Filter(user, Resolve(user, directory, directoryLoading), appts)
}

func (m *Matcher) logEmpty(user models.CurrentUser, res IdentityResolution, appts []models.Appointment) {
	ev := m.logger.Warn().
		Str("user_id", user.ID).
		Str("user_email", user.Email).
		Str("staff_id", user.StaffID).
		Str("staff_name", user.StaffName).
		Interface("tokens", res.Tokens.Snapshot()).
		Int("appointments", len(appts))
	if res.Identity != nil {
		ev = ev.Str("resolved_id", res.Identity.ID)
	}
	if len(appts) > 0 {
		ev = ev.Str("sample_booking_id", appts[0].BookingID).
			Interface("sample_staff", appts[0].Staff)
	}
	ev.Msg("no appointments matched staff identity")
}
