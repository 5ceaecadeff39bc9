// Package provider converts loosely typed records from the hosted data
// provider into canonical models. It is the only place that knows about
// legacy flat staff fields.
package provider

import (
	"fmt"
	"strings"

	"salonbook/internal/models"

	"github.com/goccy/go-json"
)

// RawStaffAssignment is an element of staff_information.
type RawStaffAssignment struct {
	ID     FlexString `json:"id"`
	Name   string     `json:"staffName"`
	Number FlexString `json:"staffNumber"`
	Status string     `json:"staffStatus"`
}

// RawAppointment mirrors the provider's appointment row.
type RawAppointment struct {
	BookingID    FlexString           `json:"booking_id"`
	CustomerName string               `json:"customer_name"`
	MobileNumber FlexString           `json:"mobile_number"`
	SlotDate     string               `json:"slot_date"`
	SlotTime     string               `json:"slot_time"`
	ServiceName  string               `json:"service_name"`
	ServicePrice FlexNumber           `json:"service_price"`
	Discount     FlexNumber           `json:"discount"`
	Status       string               `json:"booking_status"`
	Staff        []RawStaffAssignment `json:"staff_information"`

	LegacyStaffID     FlexString `json:"staff_id"`
	LegacyStaffName   string     `json:"Staff Name"`
	LegacyStaffNumber FlexString `json:"Staff Number"`
}

// RawStaff mirrors the provider's staff row.
type RawStaff struct {
	ID           FlexString `json:"id"`
	Email        string     `json:"email"`
	StaffName    string     `json:"staff_name"`
	MobileNumber FlexString `json:"mobile_number"`
	Status       string     `json:"status"`
}

// Normalize produces the canonical appointment. A non-empty
// staff_information wins; otherwise legacy flat fields become a single
// assignment.
func (r RawAppointment) Normalize() models.Appointment {
	a := models.Appointment{
		BookingID:    strings.TrimSpace(r.BookingID.String()),
		CustomerName: r.CustomerName,
		MobileNumber: r.MobileNumber.String(),
		SlotDate:     r.SlotDate,
		SlotTime:     r.SlotTime,
		ServiceName:  r.ServiceName,
		ServicePrice: r.ServicePrice.Or(0),
		Discount:     r.Discount.Or(0),
		Status:       strings.ToLower(strings.TrimSpace(r.Status)),
	}
	if a.Status == "" {
		a.Status = models.StatusPending
	}

	if len(r.Staff) > 0 {
		a.Staff = make([]models.StaffAssignment, 0, len(r.Staff))
		for _, s := range r.Staff {
			a.Staff = append(a.Staff, models.StaffAssignment{
				ID:     s.ID.String(),
				Name:   s.Name,
				Number: s.Number.String(),
				Status: s.Status,
			})
		}
		return a
	}

	if r.hasLegacyStaff() {
		a.Staff = []models.StaffAssignment{{
			ID:     r.LegacyStaffID.String(),
			Name:   r.LegacyStaffName,
			Number: r.LegacyStaffNumber.String(),
		}}
	}
	return a
}

func (r RawAppointment) hasLegacyStaff() bool {
	return strings.TrimSpace(r.LegacyStaffID.String()) != "" ||
		strings.TrimSpace(r.LegacyStaffName) != "" ||
		strings.TrimSpace(r.LegacyStaffNumber.String()) != ""
}

// Normalize produces the canonical directory entry.
func (r RawStaff) Normalize() models.StaffDirectoryEntry {
	return models.StaffDirectoryEntry{
		ID:           r.ID.String(),
		Email:        strings.TrimSpace(r.Email),
		StaffName:    r.StaffName,
		MobileNumber: r.MobileNumber.String(),
		Status:       r.Status,
	}
}

// DecodeAppointments parses a JSON array of provider appointment rows.
func DecodeAppointments(data []byte) ([]models.Appointment, error) {
	var raw []RawAppointment
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	out := make([]models.Appointment, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.Normalize())
	}
	return out, nil
}

// DecodeStaff parses a JSON array of provider staff rows.
func DecodeStaff(data []byte) ([]models.StaffDirectoryEntry, error) {
	var raw []RawStaff
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode staff: %w", err)
	}
	out := make([]models.StaffDirectoryEntry, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.Normalize())
	}
	return out, nil
}
