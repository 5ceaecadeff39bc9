package models

// Booking statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Staff statuses.
const (
	StaffActive = "active"
	StaffBusy   = "busy"
)

// User roles.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

const (
	// DefaultBookingIDPrefix префикс идентификатора записи
	DefaultBookingIDPrefix = "BKG"

	// DefaultMaxCreateAttempts сколько раз пробуем вставить запись при коллизии идентификатора
	DefaultMaxCreateAttempts = 5

	// DefaultCountryCode код страны для номеров без кода
	DefaultCountryCode = "91"

	// SlotDateLayout формат даты слота
	SlotDateLayout = "2006-01-02"
)

// ValidStatus reports whether status is one of the booking statuses.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}
