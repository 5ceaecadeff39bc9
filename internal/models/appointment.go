package models

import (
	"time"

	"salonbook/internal/pricing"
)

// Appointment is the canonical booking record. Legacy flat staff fields are
// folded into Staff at the provider boundary, so consumers only read Staff.
type Appointment struct {
	ID           int64             `json:"id,omitempty"`
	BookingID    string            `json:"booking_id"`
	CustomerName string            `json:"customer_name"`
	MobileNumber string            `json:"mobile_number"`
	SlotDate     string            `json:"slot_date"`
	SlotTime     string            `json:"slot_time"`
	ServiceName  string            `json:"service_name"`
	ServicePrice float64           `json:"service_price"`
	Discount     float64           `json:"discount"` // raw: percentage 0-100 or fraction 0-1
	Status       string            `json:"booking_status"`
	Staff        []StaffAssignment `json:"staff_information"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// StaffAssignment links a staff member to an appointment.
type StaffAssignment struct {
	ID     string `json:"id"`
	Name   string `json:"staffName"`
	Number string `json:"staffNumber"`
	Status string `json:"staffStatus"`
}

// DiscountPercent returns the interpreted discount in [0, 100].
func (a *Appointment) DiscountPercent() float64 {
	return pricing.Percentage(a.Discount)
}

// NetPrice returns the service price after discount.
func (a *Appointment) NetPrice() float64 {
	return pricing.Net(a.ServicePrice, a.Discount)
}

// StaffNames returns the names of assigned staff in assignment order.
func (a *Appointment) StaffNames() []string {
	names := make([]string, 0, len(a.Staff))
	for _, s := range a.Staff {
		if s.Name != "" {
			names = append(names, s.Name)
		}
	}
	return names
}

// AppointmentFilter narrows appointment listings. Zero values match everything.
type AppointmentFilter struct {
	SlotDate string
	Status   string
}
