package provider

import (
	"testing"

	"salonbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAppointments(t *testing.T) {
	payload := []byte(`[
		{
			"booking_id": "BKG-20250301-01",
			"customer_name": "Meera",
			"mobile_number": 9876543210,
			"slot_date": "2025-03-01",
			"slot_time": "10:30",
			"service_name": "Haircut",
			"service_price": "450.00",
			"discount": 0.1,
			"booking_status": "Confirmed",
			"staff_information": [
				{"id": 7, "staffName": "Asha", "staffNumber": "9000000001", "staffStatus": "busy"}
			],
			"staff_id": "99",
			"Staff Name": "Ignored"
		},
		{
			"booking_id": "BKG-20250301-02",
			"customer_name": "Kiran",
			"service_price": "n/a",
			"discount": "abc",
			"staff_information": [],
			"staff_id": "7",
			"Staff Name": "Asha",
			"Staff Number": 9000000001
		},
		{
			"booking_id": "BKG-20250301-03",
			"customer_name": "Dev",
			"service_price": 300,
			"discount": null
		}
	]`)

	appts, err := DecodeAppointments(payload)
	require.NoError(t, err)
	require.Len(t, appts, 3)

	t.Run("StructuredStaffWins", func(t *testing.T) {
		a := appts[0]
		assert.Equal(t, "9876543210", a.MobileNumber)
		assert.Equal(t, 450.0, a.ServicePrice)
		assert.Equal(t, 0.1, a.Discount)
		assert.Equal(t, models.StatusConfirmed, a.Status)
		require.Len(t, a.Staff, 1)
		assert.Equal(t, models.StaffAssignment{ID: "7", Name: "Asha", Number: "9000000001", Status: "busy"}, a.Staff[0])
	})

	t.Run("LegacyFieldsFolded", func(t *testing.T) {
		a := appts[1]
		assert.Equal(t, 0.0, a.ServicePrice)
		assert.Equal(t, 0.0, a.Discount)
		assert.Equal(t, models.StatusPending, a.Status)
		require.Len(t, a.Staff, 1)
		assert.Equal(t, "7", a.Staff[0].ID)
		assert.Equal(t, "Asha", a.Staff[0].Name)
		assert.Equal(t, "9000000001", a.Staff[0].Number)
	})

	t.Run("NoStaff", func(t *testing.T) {
		a := appts[2]
		assert.Empty(t, a.Staff)
		assert.Equal(t, 300.0, a.ServicePrice)
		assert.Equal(t, 0.0, a.Discount)
	})
}

func TestDecodeAppointmentsInvalidJSON(t *testing.T) {
	_, err := DecodeAppointments([]byte(`{"not": "an array"}`))
	assert.Error(t, err)
}

func TestDecodeStaff(t *testing.T) {
	payload := []byte(`[
		{"id": 7, "email": " a@x.com ", "staff_name": "Asha", "mobile_number": "9000000001", "status": "active"},
		{"id": "s-2", "email": "b@x.com", "staff_name": "Ravi", "mobile_number": null, "status": "busy"}
	]`)

	staff, err := DecodeStaff(payload)
	require.NoError(t, err)
	require.Len(t, staff, 2)
	assert.Equal(t, models.StaffDirectoryEntry{ID: "7", Email: "a@x.com", StaffName: "Asha", MobileNumber: "9000000001", Status: "active"}, staff[0])
	assert.Equal(t, "s-2", staff[1].ID)
	assert.Equal(t, "", staff[1].MobileNumber)
}

func TestFlexNumber(t *testing.T) {
	var n FlexNumber
	require.NoError(t, n.UnmarshalJSON([]byte(`" 12.5 "`)))
	assert.True(t, n.Valid)
	assert.Equal(t, 12.5, n.Value)

	require.NoError(t, n.UnmarshalJSON([]byte(`true`)))
	assert.False(t, n.Valid)
	assert.Equal(t, 3.0, n.Or(3))

	out, err := FlexNumber{Value: 2, Valid: true}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "2", string(out))

	out, err = FlexNumber{}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestFlexString(t *testing.T) {
	var s FlexString
	require.NoError(t, s.UnmarshalJSON([]byte(`42`)))
	assert.Equal(t, "42", s.String())

	require.NoError(t, s.UnmarshalJSON([]byte(`"abc"`)))
	assert.Equal(t, "abc", s.String())

	require.NoError(t, s.UnmarshalJSON([]byte(`null`)))
	assert.Equal(t, "", s.String())
}
