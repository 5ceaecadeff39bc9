// Package search narrows appointment lists by a free-text term.
//
// Two breadths exist on purpose: the daily-entry screen matches a few
// identifying fields, the booking list matches every field.
package search

import (
	"strconv"
	"strings"
	"time"

	"salonbook/internal/models"
)

// View selects the search breadth.
type View string

const (
	ViewDaily View = "daily"
	ViewList  View = "list"
)

// ParseView maps a query value to a View, defaulting to the list view.
func ParseView(s string) View {
	if View(strings.ToLower(strings.TrimSpace(s))) == ViewDaily {
		return ViewDaily
	}
	return ViewList
}

// ByView dispatches to Daily or AllFields.
func ByView(view View, appts []models.Appointment, term string) []models.Appointment {
	if view == ViewDaily {
		return Daily(appts, term)
	}
	return AllFields(appts, term)
}

// Daily matches term against customer name, booking id and service name.
func Daily(appts []models.Appointment, term string) []models.Appointment {
	return filter(appts, term, func(a *models.Appointment) []string {
		return []string{a.CustomerName, a.BookingID, a.ServiceName}
	})
}

// AllFields matches term against the string form of every field.
func AllFields(appts []models.Appointment, term string) []models.Appointment {
	return filter(appts, term, fieldValues)
}

func filter(appts []models.Appointment, term string, fields func(*models.Appointment) []string) []models.Appointment {
	if term == "" {
		return appts
	}
	needle := strings.ToLower(term)

	out := make([]models.Appointment, 0, len(appts))
	for i := range appts {
		for _, v := range fields(&appts[i]) {
			if v != "" && strings.Contains(strings.ToLower(v), needle) {
				out = append(out, appts[i])
				break
			}
		}
	}
	return out
}

func fieldValues(a *models.Appointment) []string {
	values := []string{
		a.BookingID,
		a.CustomerName,
		a.MobileNumber,
		a.SlotDate,
		a.SlotTime,
		a.ServiceName,
		strconv.FormatFloat(a.ServicePrice, 'f', -1, 64),
		strconv.FormatFloat(a.Discount, 'f', -1, 64),
		a.Status,
	}
	if a.ID != 0 {
		values = append(values, strconv.FormatInt(a.ID, 10))
	}
	if !a.CreatedAt.IsZero() {
		values = append(values, a.CreatedAt.Format(time.RFC3339))
	}
	if !a.UpdatedAt.IsZero() {
		values = append(values, a.UpdatedAt.Format(time.RFC3339))
	}
	for _, s := range a.Staff {
		values = append(values, s.ID, s.Name, s.Number, s.Status)
	}
	return values
}
