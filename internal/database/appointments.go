package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonbook/internal/models"
)

func filterClause(f models.AppointmentFilter) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	if f.SlotDate != "" {
		clauses = append(clauses, "a.slot_date = ?")
		args = append(args, f.SlotDate)
	}
	if f.Status != "" {
		clauses = append(clauses, "a.status = ?")
		args = append(args, f.Status)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

const appointmentColumns = `a.id, a.booking_id, a.customer_name, a.mobile_number, a.slot_date,
	a.slot_time, a.service_name, a.service_price, a.discount, a.status, a.created_at, a.updated_at`

// CreateAppointment inserts the appointment and its staff assignments. A
// booking id that already exists yields ErrDuplicateBookingID.
func (db *DB) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	if appt.Status == "" {
		appt.Status = models.StatusPending
	}
	if !models.ValidStatus(appt.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, appt.Status)
	}

	now := time.Now().UTC()
	err := withTx(ctx, db.DB, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `INSERT INTO appointments (
				booking_id, customer_name, mobile_number, slot_date, slot_time,
				service_name, service_price, discount, status, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			appt.BookingID,
			appt.CustomerName,
			appt.MobileNumber,
			appt.SlotDate,
			appt.SlotTime,
			appt.ServiceName,
			appt.ServicePrice,
			appt.Discount,
			appt.Status,
			now,
			now,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrDuplicateBookingID, appt.BookingID)
			}
			return fmt.Errorf("failed to insert appointment: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}

		if err := insertStaff(ctx, tx, id, appt.Staff); err != nil {
			return err
		}
		appt.ID = id
		return nil
	})
	if err != nil {
		return err
	}

	appt.CreatedAt = now
	appt.UpdatedAt = now
	return nil
}

func insertStaff(ctx context.Context, tx *sql.Tx, appointmentID int64, staff []models.StaffAssignment) error {
	for i, s := range staff {
		_, err := tx.ExecContext(ctx, `INSERT INTO appointment_staff (
				appointment_id, position, staff_id, staff_name, staff_number, staff_status
			) VALUES (?, ?, ?, ?, ?, ?)`,
			appointmentID, i, s.ID, s.Name, s.Number, s.Status)
		if err != nil {
			return fmt.Errorf("failed to insert staff assignment: %w", err)
		}
	}
	return nil
}

// GetAppointment loads one appointment by booking id.
func (db *DB) GetAppointment(ctx context.Context, bookingID string) (*models.Appointment, error) {
	row := db.QueryRowContext(ctx, `SELECT `+appointmentColumns+` FROM appointments a WHERE a.booking_id = ?`, bookingID)
	appt, err := scanAppointment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	staff, err := db.loadStaff(ctx, " WHERE a.id = ?", []interface{}{appt.ID})
	if err != nil {
		return nil, err
	}
	appt.Staff = staff[appt.ID]
	return appt, nil
}

// ListAppointments returns appointments ordered by slot.
func (db *DB) ListAppointments(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	where, args := filterClause(filter)
	rows, err := db.QueryContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments a`+where+` ORDER BY a.slot_date, a.slot_time, a.id`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appts []models.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appts = append(appts, *appt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	staff, err := db.loadStaff(ctx, where, args)
	if err != nil {
		return nil, err
	}
	for i := range appts {
		appts[i].Staff = staff[appts[i].ID]
	}
	return appts, nil
}

// UpdateAppointmentStatus sets the status of an appointment.
func (db *DB) UpdateAppointmentStatus(ctx context.Context, bookingID, status string) error {
	if !models.ValidStatus(status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE appointments SET status = ?, updated_at = ? WHERE booking_id = ?`,
		status, time.Now().UTC(), bookingID)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*models.Appointment, error) {
	var a models.Appointment
	err := row.Scan(
		&a.ID,
		&a.BookingID,
		&a.CustomerName,
		&a.MobileNumber,
		&a.SlotDate,
		&a.SlotTime,
		&a.ServiceName,
		&a.ServicePrice,
		&a.Discount,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *DB) loadStaff(ctx context.Context, where string, args []interface{}) (map[int64][]models.StaffAssignment, error) {
	rows, err := db.QueryContext(ctx, `SELECT s.appointment_id, s.staff_id, s.staff_name, s.staff_number, s.staff_status
		FROM appointment_staff s JOIN appointments a ON a.id = s.appointment_id`+where+`
		ORDER BY s.appointment_id, s.position`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load staff assignments: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]models.StaffAssignment)
	for rows.Next() {
		var (
			id int64
			s  models.StaffAssignment
		)
		if err := rows.Scan(&id, &s.ID, &s.Name, &s.Number, &s.Status); err != nil {
			return nil, fmt.Errorf("failed to scan staff assignment: %w", err)
		}
		out[id] = append(out[id], s)
	}
	return out, rows.Err()
}
