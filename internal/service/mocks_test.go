package service

import (
	"context"

	"salonbook/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockAppointmentRepo struct {
	mock.Mock
}

func (m *mockAppointmentRepo) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	return m.Called(ctx, appt).Error(0)
}

func (m *mockAppointmentRepo) GetAppointment(ctx context.Context, bookingID string) (*models.Appointment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) ListAppointments(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) UpdateAppointmentStatus(ctx context.Context, bookingID, status string) error {
	return m.Called(ctx, bookingID, status).Error(0)
}

type mockStaffRepo struct {
	mock.Mock
}

func (m *mockStaffRepo) UpsertStaff(ctx context.Context, entry *models.StaffDirectoryEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockStaffRepo) ListStaff(ctx context.Context) ([]models.StaffDirectoryEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StaffDirectoryEntry), args.Error(1)
}

func (m *mockStaffRepo) GetStaff(ctx context.Context, id string) (*models.StaffDirectoryEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaffDirectoryEntry), args.Error(1)
}

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) List(ctx context.Context) ([]models.StaffDirectoryEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StaffDirectoryEntry), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetDirectory(ctx context.Context) ([]models.StaffDirectoryEntry, bool, error) {
	args := m.Called(ctx)
	var entries []models.StaffDirectoryEntry
	if v := args.Get(0); v != nil {
		entries = v.([]models.StaffDirectoryEntry)
	}
	return entries, args.Bool(1), args.Error(2)
}

func (m *mockCache) SetDirectory(ctx context.Context, entries []models.StaffDirectoryEntry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *mockCache) InvalidateDirectory(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}
