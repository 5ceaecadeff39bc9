package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"salonbook/internal/config"
	"salonbook/internal/database"
	"salonbook/internal/export"
	"salonbook/internal/models"
	"salonbook/internal/pricing"
	"salonbook/internal/provider"
	"salonbook/internal/search"
	"salonbook/internal/service"
	"salonbook/internal/staff"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// HTTPServer exposes the booking API.
type HTTPServer struct {
	cfg          config.APIConfig
	appointments *service.AppointmentService
	staff        *service.StaffService
	logger       *zerolog.Logger
	server       *http.Server
}

func NewHTTPServer(
	cfg config.APIConfig,
	appointments *service.AppointmentService,
	staffService *service.StaffService,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:          cfg,
		appointments: appointments,
		staff:        staffService,
		logger:       logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", srv.handleHealth)
	mux.HandleFunc("GET /api/v1/appointments", srv.handleListAppointments)
	mux.HandleFunc("POST /api/v1/appointments", srv.handleCreateAppointment)
	mux.HandleFunc("GET /api/v1/appointments/{id}", srv.handleGetAppointment)
	mux.HandleFunc("PATCH /api/v1/appointments/{id}/status", srv.handleUpdateStatus)
	mux.HandleFunc("GET /api/v1/staff", srv.handleListStaff)
	mux.HandleFunc("PUT /api/v1/staff", srv.handleUpsertStaff)
	mux.HandleFunc("GET /api/v1/staff/me", srv.handleResolveMe)
	mux.HandleFunc("GET /api/v1/pricing/discount", srv.handleDiscount)
	mux.HandleFunc("GET /api/v1/summary/daily", srv.handleDailySummary)
	mux.HandleFunc("GET /api/v1/exports/daily", srv.handleDailyExport)

	handler := requestIDMiddleware(logger)(loggingMiddleware(NewHTTPAuth(cfg).Wrap(mux)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	return srv
}

// Handler returns the fully wrapped handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// appointmentView adds derived pricing to the stored record.
type appointmentView struct {
	models.Appointment
	DiscountPercent float64 `json:"discount_percent"`
	NetPrice        float64 `json:"net_price"`
}

func newAppointmentView(a models.Appointment) appointmentView {
	return appointmentView{Appointment: a, DiscountPercent: a.DiscountPercent(), NetPrice: a.NetPrice()}
}

func newAppointmentViews(appts []models.Appointment) []appointmentView {
	out := make([]appointmentView, 0, len(appts))
	for _, a := range appts {
		out = append(out, newAppointmentView(a))
	}
	return out
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	date, ok := optionalDate(w, q.Get("date"))
	if !ok {
		return
	}

	appts, err := s.appointments.ListForUser(r.Context(), user, service.ListQuery{
		View:     search.ParseView(q.Get("view")),
		Term:     q.Get("q"),
		SlotDate: date,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"appointments": newAppointmentViews(appts),
		"count":        len(appts),
	})
}

func (s *HTTPServer) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var raw provider.RawAppointment
	if !decodeBody(w, r, &raw) {
		return
	}

	appt := raw.Normalize()
	if err := s.appointments.CreateAppointment(r.Context(), &appt); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newAppointmentView(appt))
}

func (s *HTTPServer) handleGetAppointment(w http.ResponseWriter, r *http.Request) {
	appt, err := s.appointments.GetAppointment(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAppointmentView(*appt))
}

func (s *HTTPServer) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	appt, err := s.appointments.UpdateStatus(r.Context(), r.PathValue("id"), body.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAppointmentView(*appt))
}

func (s *HTTPServer) handleListStaff(w http.ResponseWriter, r *http.Request) {
	entries, err := s.staff.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.StaffDirectoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"staff": entries})
}

func (s *HTTPServer) handleUpsertStaff(w http.ResponseWriter, r *http.Request) {
	var raw provider.RawStaff
	if !decodeBody(w, r, &raw) {
		return
	}

	entry := raw.Normalize()
	if err := s.staff.Upsert(r.Context(), &entry); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleResolveMe reports how the current user maps onto the directory.
func (s *HTTPServer) handleResolveMe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	directory, err := s.staff.List(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("staff directory unavailable")
	}
	res := staff.Resolve(user, directory, err != nil)

	writeJSON(w, http.StatusOK, map[string]any{
		"kind":     res.Kind.String(),
		"reason":   res.Reason,
		"identity": res.Identity,
		"tokens":   res.Tokens.Snapshot(),
	})
}

func (s *HTTPServer) handleDiscount(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	price, ok := pricing.ParseAmount(q.Get("price"))
	if !ok {
		writeError(w, http.StatusBadRequest, "price must be a number")
		return
	}
	discount, ok := pricing.ParseAmount(q.Get("discount"))
	if !ok {
		discount = 0
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"price":            price,
		"discount_percent": pricing.Percentage(discount),
		"net_price":        pricing.CalculateDiscount(price, discount),
	})
}

func (s *HTTPServer) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.dailySummary(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":         summary.Date,
		"appointments": newAppointmentViews(summary.Appointments),
		"totals":       summary.Totals,
	})
}

func (s *HTTPServer) handleDailyExport(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.dailySummary(w, r)
	if !ok {
		return
	}

	f, err := export.DailyInvoice(summary.Appointments, summary.Date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.InvoiceFileName(summary.Date)))
	if _, err := f.WriteTo(w); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("date", summary.Date).Msg("write invoice")
	}
}

func (s *HTTPServer) dailySummary(w http.ResponseWriter, r *http.Request) (*service.DailySummary, bool) {
	user, ok := requireUser(w, r)
	if !ok {
		return nil, false
	}
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return nil, false
	}
	date, ok := optionalDate(w, raw)
	if !ok {
		return nil, false
	}

	summary, err := s.appointments.DailySummary(r.Context(), user, date)
	if err != nil {
		writeServiceError(w, r, err)
		return nil, false
	}
	return summary, true
}

func requireUser(w http.ResponseWriter, r *http.Request) (models.CurrentUser, bool) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing current user headers")
	}
	return user, ok
}

func optionalDate(w http.ResponseWriter, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", true
	}
	if _, err := time.Parse(models.SlotDateLayout, raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return "", false
	}
	return raw, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrAppointmentNotFound), errors.Is(err, database.ErrStaffNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidAppointment),
		errors.Is(err, service.ErrInvalidStaff):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrDuplicateBookingID), errors.Is(err, service.ErrBookingIDExhausted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
