package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"salonbook/internal/bookingid"
	"salonbook/internal/database"
	"salonbook/internal/domain"
	"salonbook/internal/events"
	"salonbook/internal/metrics"
	"salonbook/internal/models"
	"salonbook/internal/pricing"
	"salonbook/internal/search"
	"salonbook/internal/staff"

	"github.com/rs/zerolog"
)

// ListQuery selects which appointments a user sees.
type ListQuery struct {
	View     search.View
	Term     string
	SlotDate string
}

// DailySummary is the invoice view of one day.
type DailySummary struct {
	Date         string               `json:"date"`
	Appointments []models.Appointment `json:"appointments"`
	Totals       pricing.Summary      `json:"totals"`
}

type AppointmentService struct {
	repo        domain.AppointmentRepository
	directory   domain.StaffDirectory
	ids         *bookingid.Generator
	matcher     *staff.Matcher
	eventBus    domain.EventPublisher
	maxAttempts int
	logger      *zerolog.Logger
}

func NewAppointmentService(
	repo domain.AppointmentRepository,
	directory domain.StaffDirectory,
	ids *bookingid.Generator,
	matcher *staff.Matcher,
	eventBus domain.EventPublisher,
	maxAttempts int,
	logger *zerolog.Logger,
) *AppointmentService {
	if maxAttempts <= 0 {
		maxAttempts = models.DefaultMaxCreateAttempts
	}
	if ids == nil {
		ids = bookingid.New(nil)
	}
	if matcher == nil {
		matcher = staff.NewMatcher(logger, nil)
	}
	return &AppointmentService{
		repo:        repo,
		directory:   directory,
		ids:         ids,
		matcher:     matcher,
		eventBus:    eventBus,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// ListForUser returns the appointments user may see, narrowed by q.
// Staff users only see appointments that name them once their identity
// resolves; while the directory is unavailable they see everything.
func (s *AppointmentService) ListForUser(ctx context.Context, user models.CurrentUser, q ListQuery) ([]models.Appointment, error) {
	appts, err := s.repo.ListAppointments(ctx, models.AppointmentFilter{SlotDate: q.SlotDate})
	if err != nil {
		return nil, err
	}

	var (
		directory []models.StaffDirectoryEntry
		loading   bool
	)
	if user.IsStaff() && s.directory != nil {
		directory, err = s.directory.List(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("staff directory unavailable, not filtering")
			loading = true
		}
	}

	visible := s.matcher.FilterForUser(user, directory, loading, appts)
	return search.ByView(q.View, visible, q.Term), nil
}

func (s *AppointmentService) GetAppointment(ctx context.Context, bookingID string) (*models.Appointment, error) {
	return s.repo.GetAppointment(ctx, bookingID)
}

// CreateAppointment assigns a booking id and stores appt. A colliding id is
// replaced with a fresh one up to maxAttempts times.
func (s *AppointmentService) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	if err := validateAppointment(appt); err != nil {
		return err
	}
	if appt.Status == "" {
		appt.Status = models.StatusPending
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		appt.BookingID = s.ids.Generate(ctx)

		err := s.repo.CreateAppointment(ctx, appt)
		if err == nil {
			s.logger.Info().
				Str("booking_id", appt.BookingID).
				Str("slot_date", appt.SlotDate).
				Int("attempt", attempt).
				Msg("appointment created")
			s.publishEvent(events.EventAppointmentCreated, appt, "")
			return nil
		}
		if !errors.Is(err, database.ErrDuplicateBookingID) {
			return err
		}

		metrics.IncBookingIDCollision()
		s.logger.Warn().Str("booking_id", appt.BookingID).Int("attempt", attempt).Msg("booking id collision, retrying")
	}

	appt.BookingID = ""
	return fmt.Errorf("%w after %d attempts", ErrBookingIDExhausted, s.maxAttempts)
}

// UpdateStatus moves an appointment to status. Setting the current status
// again is a no-op and publishes nothing.
func (s *AppointmentService) UpdateStatus(ctx context.Context, bookingID, status string) (*models.Appointment, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %s", database.ErrInvalidStatus, status)
	}

	appt, err := s.repo.GetAppointment(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	previous := appt.Status
	if previous == status {
		return appt, nil
	}

	if err := s.repo.UpdateAppointmentStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	appt.Status = status

	s.publishEvent(events.EventAppointmentStatusChanged, appt, previous)
	return appt, nil
}

// DailySummary lists a day's appointments visible to user with invoice
// totals. Cancelled appointments are listed but not totalled.
func (s *AppointmentService) DailySummary(ctx context.Context, user models.CurrentUser, date string) (*DailySummary, error) {
	appts, err := s.ListForUser(ctx, user, ListQuery{View: search.ViewList, SlotDate: date})
	if err != nil {
		return nil, err
	}

	summary := &DailySummary{Date: date, Appointments: appts}
	for i := range appts {
		if appts[i].Status == models.StatusCancelled {
			continue
		}
		summary.Totals.Add(appts[i].ServicePrice, appts[i].Discount)
	}
	return summary, nil
}

func validateAppointment(appt *models.Appointment) error {
	if appt == nil {
		return fmt.Errorf("%w: empty", ErrInvalidAppointment)
	}
	appt.CustomerName = strings.TrimSpace(appt.CustomerName)
	appt.ServiceName = strings.TrimSpace(appt.ServiceName)
	appt.Status = strings.ToLower(strings.TrimSpace(appt.Status))

	switch {
	case appt.CustomerName == "":
		return fmt.Errorf("%w: customer name is required", ErrInvalidAppointment)
	case appt.ServiceName == "":
		return fmt.Errorf("%w: service name is required", ErrInvalidAppointment)
	case math.IsNaN(appt.ServicePrice) || math.IsInf(appt.ServicePrice, 0) || appt.ServicePrice < 0:
		return fmt.Errorf("%w: service price must be a non-negative number", ErrInvalidAppointment)
	case math.IsNaN(appt.Discount) || math.IsInf(appt.Discount, 0) || appt.Discount < 0:
		return fmt.Errorf("%w: discount must be a non-negative number", ErrInvalidAppointment)
	case appt.Status != "" && !models.ValidStatus(appt.Status):
		return fmt.Errorf("%w: %s", database.ErrInvalidStatus, appt.Status)
	}
	return nil
}

func (s *AppointmentService) publishEvent(eventType string, appt *models.Appointment, previous string) {
	if s.eventBus == nil {
		return
	}

	payload := events.AppointmentEventPayload{
		BookingID:      appt.BookingID,
		CustomerName:   appt.CustomerName,
		MobileNumber:   appt.MobileNumber,
		ServiceName:    appt.ServiceName,
		SlotDate:       appt.SlotDate,
		SlotTime:       appt.SlotTime,
		Status:         appt.Status,
		PreviousStatus: previous,
		NetPrice:       appt.NetPrice(),
		Staff:          appt.StaffNames(),
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", appt.BookingID).Msg("publish event error")
	}
}
