package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentPricing(t *testing.T) {
	t.Run("Percentage", func(t *testing.T) {
		a := &Appointment{ServicePrice: 500, Discount: 20}
		assert.Equal(t, 20.0, a.DiscountPercent())
		assert.Equal(t, 400.0, a.NetPrice())
	})

	t.Run("Fraction", func(t *testing.T) {
		a := &Appointment{ServicePrice: 500, Discount: 0.2}
		assert.Equal(t, 20.0, a.DiscountPercent())
		assert.Equal(t, 400.0, a.NetPrice())
	})

	t.Run("NoDiscount", func(t *testing.T) {
		a := &Appointment{ServicePrice: 250}
		assert.Equal(t, 0.0, a.DiscountPercent())
		assert.Equal(t, 250.0, a.NetPrice())
	})
}

func TestAppointmentStaffNames(t *testing.T) {
	a := &Appointment{Staff: []StaffAssignment{
		{ID: "1", Name: "Asha"},
		{ID: "2"},
		{ID: "3", Name: "Ravi"},
	}}
	assert.Equal(t, []string{"Asha", "Ravi"}, a.StaffNames())
	assert.Empty(t, (&Appointment{}).StaffNames())
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("rescheduled"))
	assert.False(t, ValidStatus(""))
}

func TestCurrentUserIsStaff(t *testing.T) {
	assert.True(t, CurrentUser{Role: RoleStaff}.IsStaff())
	assert.False(t, CurrentUser{Role: RoleAdmin}.IsStaff())
	assert.False(t, CurrentUser{}.IsStaff())
}
