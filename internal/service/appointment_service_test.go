package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"salonbook/internal/bookingid"
	"salonbook/internal/database"
	"salonbook/internal/domain"
	"salonbook/internal/events"
	"salonbook/internal/models"
	"salonbook/internal/search"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fixedGenerator() *bookingid.Generator {
	clock := func() time.Time { return time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC) }
	return bookingid.New(bookingid.NewMemorySequence(), bookingid.WithClock(clock), bookingid.WithLocation(time.UTC))
}

func testAppointments() []models.Appointment {
	return []models.Appointment{
		{
			BookingID: "BKG-20250115-01", CustomerName: "Asha", ServiceName: "Haircut",
			ServicePrice: 500, Discount: 10, Status: models.StatusConfirmed,
			Staff: []models.StaffAssignment{{ID: "s1", Name: "Priya"}},
		},
		{
			BookingID: "BKG-20250115-02", CustomerName: "Ravi", ServiceName: "Shave",
			ServicePrice: 200, Discount: 0.5, Status: models.StatusPending,
			Staff: []models.StaffAssignment{{ID: "s2", Name: "Meena"}},
		},
		{
			BookingID: "BKG-20250115-03", CustomerName: "Kiran", ServiceName: "Facial",
			ServicePrice: 1000, Status: models.StatusCancelled,
			Staff: []models.StaffAssignment{{ID: "s1", Name: "Priya"}},
		},
	}
}

func newAppointmentService(repo *mockAppointmentRepo, dir *mockDirectory, pub *mockPublisher) *AppointmentService {
	logger := zerolog.New(io.Discard)
	var d domain.StaffDirectory
	if dir != nil {
		d = dir
	}
	var p domain.EventPublisher
	if pub != nil {
		p = pub
	}
	return NewAppointmentService(repo, d, fixedGenerator(), nil, p, 3, &logger)
}

func TestListForUser(t *testing.T) {
	ctx := context.Background()
	directory := []models.StaffDirectoryEntry{
		{ID: "s1", Email: "priya@salon.test", StaffName: "Priya"},
		{ID: "s2", Email: "meena@salon.test", StaffName: "Meena"},
	}

	t.Run("AdminSeesEverything", func(t *testing.T) {
		repo := new(mockAppointmentRepo)
		dir := new(mockDirectory)
		repo.On("ListAppointments", ctx, models.AppointmentFilter{}).Return(testAppointments(), nil).Once()
		svc := newAppointmentService(repo, dir, nil)

		got, err := svc.ListForUser(ctx, models.CurrentUser{ID: "u1", Role: models.RoleAdmin}, ListQuery{})
		require.NoError(t, err)
		assert.Len(t, got, 3)
		dir.AssertNotCalled(t, "List", mock.Anything)
	})

	t.Run("StaffSeesOwnAppointments", func(t *testing.T) {
		repo := new(mockAppointmentRepo)
		dir := new(mockDirectory)
		repo.On("ListAppointments", ctx, models.AppointmentFilter{SlotDate: "2025-01-15"}).Return(testAppointments(), nil).Once()
		dir.On("List", ctx).Return(directory, nil).Once()
		svc := newAppointmentService(repo, dir, nil)

		user := models.CurrentUser{ID: "auth-1", Email: "PRIYA@salon.test", Role: models.RoleStaff}
		got, err := svc.ListForUser(ctx, user, ListQuery{SlotDate: "2025-01-15"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "BKG-20250115-01", got[0].BookingID)
		assert.Equal(t, "BKG-20250115-03", got[1].BookingID)
	})

	t.Run("DirectoryFailureFailsOpen", func(t *testing.T) {
		repo := new(mockAppointmentRepo)
		dir := new(mockDirectory)
		repo.On("ListAppointments", ctx, models.AppointmentFilter{}).Return(testAppointments(), nil).Once()
		dir.On("List", ctx).Return(nil, errors.New("db down")).Once()
		svc := newAppointmentService(repo, dir, nil)

		got, err := svc.ListForUser(ctx, models.CurrentUser{Email: "priya@salon.test", Role: models.RoleStaff}, ListQuery{})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("DailySearch", func(t *testing.T) {
		repo := new(mockAppointmentRepo)
		repo.On("ListAppointments", ctx, models.AppointmentFilter{}).Return(testAppointments(), nil).Once()
		svc := newAppointmentService(repo, nil, nil)

		got, err := svc.ListForUser(ctx, models.CurrentUser{Role: models.RoleAdmin}, ListQuery{View: search.ViewDaily, Term: "shave"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Ravi", got[0].CustomerName)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		repo := new(mockAppointmentRepo)
		repo.On("ListAppointments", ctx, models.AppointmentFilter{}).Return(nil, errors.New("boom")).Once()
		svc := newAppointmentService(repo, nil, nil)

		_, err := svc.ListForUser(ctx, models.CurrentUser{Role: models.RoleAdmin}, ListQuery{})
		assert.Error(t, err)
	})
}

func TestCreateAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(mockAppointmentRepo)
		pub := new(mockPublisher)
		svc := newAppointmentService(repo, nil, pub)

		repo.On("CreateAppointment", ctx, mock.AnythingOfType("*models.Appointment")).Return(nil).Once()
		pub.On("PublishJSON", events.EventAppointmentCreated, mock.MatchedBy(func(p events.AppointmentEventPayload) bool {
			return p.BookingID == "BKG-20250115-01" && p.NetPrice == 450 && p.Status == models.StatusPending
		})).Return(nil).Once()

		appt := &models.Appointment{CustomerName: "  Asha ", ServiceName: "Haircut", ServicePrice: 500, Discount: 10}
		require.NoError(t, svc.CreateAppointment(ctx, appt))
		assert.Equal(t, "BKG-20250115-01", appt.BookingID)
		assert.Equal(t, "Asha", appt.CustomerName)
		assert.Equal(t, models.StatusPending, appt.Status)
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("RetriesOnDuplicate", func(t *testing.T) {
		repo := new(mockAppointmentRepo)
		svc := newAppointmentService(repo, nil, nil)

		repo.On("CreateAppointment", ctx, mock.Anything).Return(database.ErrDuplicateBookingID).Once()
		repo.On("CreateAppointment", ctx, mock.Anything).Return(nil).Once()

		appt := &models.Appointment{CustomerName: "Asha", ServiceName: "Haircut"}
		require.NoError(t, svc.CreateAppointment(ctx, appt))
		assert.Equal(t, "BKG-20250115-02", appt.BookingID)
		repo.AssertNumberOfCalls(t, "CreateAppointment", 2)
	})

	t.Run("GivesUpAfterMaxAttempts", func(t *testing.T) {
		repo := new(mockAppointmentRepo)
		svc := newAppointmentService(repo, nil, nil)
		repo.On("CreateAppointment", ctx, mock.Anything).Return(database.ErrDuplicateBookingID)

		appt := &models.Appointment{CustomerName: "Asha", ServiceName: "Haircut"}
		err := svc.CreateAppointment(ctx, appt)
		assert.ErrorIs(t, err, ErrBookingIDExhausted)
		assert.Empty(t, appt.BookingID)
		repo.AssertNumberOfCalls(t, "CreateAppointment", 3)
	})

	t.Run("OtherErrorsAreNotRetried", func(t *testing.T) {
		repo := new(mockAppointmentRepo)
		svc := newAppointmentService(repo, nil, nil)
		repo.On("CreateAppointment", ctx, mock.Anything).Return(errors.New("disk full")).Once()

		err := svc.CreateAppointment(ctx, &models.Appointment{CustomerName: "Asha", ServiceName: "Haircut"})
		assert.EqualError(t, err, "disk full")
		repo.AssertNumberOfCalls(t, "CreateAppointment", 1)
	})

	t.Run("Validation", func(t *testing.T) {
		repo := new(mockAppointmentRepo)
		svc := newAppointmentService(repo, nil, nil)

		cases := []*models.Appointment{
			nil,
			{ServiceName: "Haircut"},
			{CustomerName: "Asha"},
			{CustomerName: "Asha", ServiceName: "Haircut", ServicePrice: -1},
			{CustomerName: "Asha", ServiceName: "Haircut", Discount: -5},
		}
		for _, appt := range cases {
			assert.ErrorIs(t, svc.CreateAppointment(ctx, appt), ErrInvalidAppointment)
		}
		err := svc.CreateAppointment(ctx, &models.Appointment{CustomerName: "Asha", ServiceName: "Haircut", Status: "archived"})
		assert.ErrorIs(t, err, database.ErrInvalidStatus)
		repo.AssertNotCalled(t, "CreateAppointment", mock.Anything, mock.Anything)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("PublishesChange", func(t *testing.T) {
		repo := new(mockAppointmentRepo)
		pub := new(mockPublisher)
		svc := newAppointmentService(repo, nil, pub)

		current := testAppointments()[1]
		repo.On("GetAppointment", ctx, current.BookingID).Return(&current, nil).Once()
		repo.On("UpdateAppointmentStatus", ctx, current.BookingID, models.StatusConfirmed).Return(nil).Once()
		pub.On("PublishJSON", events.EventAppointmentStatusChanged, mock.MatchedBy(func(p events.AppointmentEventPayload) bool {
			return p.PreviousStatus == models.StatusPending && p.Status == models.StatusConfirmed
		})).Return(nil).Once()

		got, err := svc.UpdateStatus(ctx, current.BookingID, " Confirmed ")
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, got.Status)
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("SameStatusIsNoop", func(t *testing.T) {
		repo := new(mockAppointmentRepo)
		pub := new(mockPublisher)
		svc := newAppointmentService(repo, nil, pub)

		current := testAppointments()[0]
		repo.On("GetAppointment", ctx, current.BookingID).Return(&current, nil).Once()

		_, err := svc.UpdateStatus(ctx, current.BookingID, models.StatusConfirmed)
		require.NoError(t, err)
		repo.AssertNotCalled(t, "UpdateAppointmentStatus", mock.Anything, mock.Anything, mock.Anything)
		pub.AssertNotCalled(t, "PublishJSON", mock.Anything, mock.Anything)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		svc := newAppointmentService(new(mockAppointmentRepo), nil, nil)
		_, err := svc.UpdateStatus(ctx, "BKG-1", "archived")
		assert.ErrorIs(t, err, database.ErrInvalidStatus)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(mockAppointmentRepo)
		svc := newAppointmentService(repo, nil, nil)
		repo.On("GetAppointment", ctx, "missing").Return(nil, database.ErrAppointmentNotFound).Once()

		_, err := svc.UpdateStatus(ctx, "missing", models.StatusCancelled)
		assert.ErrorIs(t, err, database.ErrAppointmentNotFound)
	})
}

func TestDailySummary(t *testing.T) {
	ctx := context.Background()
	repo := new(mockAppointmentRepo)
	svc := newAppointmentService(repo, nil, nil)
	repo.On("ListAppointments", ctx, models.AppointmentFilter{SlotDate: "2025-01-15"}).Return(testAppointments(), nil).Once()

	summary, err := svc.DailySummary(ctx, models.CurrentUser{Role: models.RoleAdmin}, "2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", summary.Date)
	assert.Len(t, summary.Appointments, 3)
	assert.Equal(t, 2, summary.Totals.Count)
	assert.Equal(t, 700.0, summary.Totals.Gross)
	assert.Equal(t, 150.0, summary.Totals.Discount)
	assert.Equal(t, 550.0, summary.Totals.Net)
}
