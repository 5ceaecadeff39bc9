package domain

import (
	"context"

	"salonbook/internal/models"
)

type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, appt *models.Appointment) error
	GetAppointment(ctx context.Context, bookingID string) (*models.Appointment, error)
	ListAppointments(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, bookingID, status string) error
}

type StaffRepository interface {
	UpsertStaff(ctx context.Context, entry *models.StaffDirectoryEntry) error
	ListStaff(ctx context.Context) ([]models.StaffDirectoryEntry, error)
	GetStaff(ctx context.Context, id string) (*models.StaffDirectoryEntry, error)
}

// DirectoryCache holds a copy of the staff directory. found is false on a miss.
type DirectoryCache interface {
	GetDirectory(ctx context.Context) (entries []models.StaffDirectoryEntry, found bool, err error)
	SetDirectory(ctx context.Context, entries []models.StaffDirectoryEntry) error
	InvalidateDirectory(ctx context.Context) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// StaffDirectory supplies the current staff directory.
type StaffDirectory interface {
	List(ctx context.Context) ([]models.StaffDirectoryEntry, error)
}
