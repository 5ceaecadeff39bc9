package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"salonbook/internal/models"

	"github.com/google/uuid"
)

// UpsertStaff inserts or replaces a directory entry. An entry without an id
// gets a generated one.
func (db *DB) UpsertStaff(ctx context.Context, entry *models.StaffDirectoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Status == "" {
		entry.Status = models.StaffActive
	}

	_, err := db.ExecContext(ctx, `INSERT INTO staff (id, email, staff_name, mobile_number, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			staff_name = excluded.staff_name,
			mobile_number = excluded.mobile_number,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		entry.ID, entry.Email, entry.StaffName, entry.MobileNumber, entry.Status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert staff: %w", err)
	}
	return nil
}

// ListStaff returns the whole directory ordered by name.
func (db *DB) ListStaff(ctx context.Context) ([]models.StaffDirectoryEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, email, staff_name, mobile_number, status FROM staff ORDER BY staff_name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	var out []models.StaffDirectoryEntry
	for rows.Next() {
		var s models.StaffDirectoryEntry
		if err := rows.Scan(&s.ID, &s.Email, &s.StaffName, &s.MobileNumber, &s.Status); err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetStaff loads one directory entry.
func (db *DB) GetStaff(ctx context.Context, id string) (*models.StaffDirectoryEntry, error) {
	var s models.StaffDirectoryEntry
	err := db.QueryRowContext(ctx,
		`SELECT id, email, staff_name, mobile_number, status FROM staff WHERE id = ?`, id).
		Scan(&s.ID, &s.Email, &s.StaffName, &s.MobileNumber, &s.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return &s, nil
}
