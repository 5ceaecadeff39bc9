package notify

import (
	"testing"

	"salonbook/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMobile(t *testing.T) {
	assert.Equal(t, "919876543210", NormalizeMobile("98765 43210", "91"))
	assert.Equal(t, "919876543210", NormalizeMobile("09876543210", "91"))
	assert.Equal(t, "919876543210", NormalizeMobile("+91-98765-43210", "91"))
	assert.Equal(t, "9876543210", NormalizeMobile("9876543210", ""))
	assert.Equal(t, "", NormalizeMobile("n/a", "91"))
}

func TestWhatsAppLink(t *testing.T) {
	assert.Equal(t, "https://wa.me/919876543210?text=Hi+there%21", WhatsAppLink("9876543210", "91", "Hi there!"))
	assert.Equal(t, "https://wa.me/919876543210", WhatsAppLink("9876543210", "91", ""))
	assert.Equal(t, "", WhatsAppLink("", "91", "Hi"))
}

func TestCompose(t *testing.T) {
	p := events.AppointmentEventPayload{
		BookingID:    "BKG-20250301-01",
		CustomerName: "Meera",
		ServiceName:  "Haircut",
		SlotDate:     "2025-03-01",
		SlotTime:     "10:30",
		Status:       "confirmed",
		NetPrice:     405,
	}
	assert.Equal(t,
		"Hi Meera, your Haircut appointment on 2025-03-01 10:30 is booked. Booking ID: BKG-20250301-01. Amount: 405.00",
		Compose(events.EventAppointmentCreated, p))
	assert.Contains(t, Compose(events.EventAppointmentStatusChanged, p), "is now confirmed")
	assert.Empty(t, Compose("other", p))
}

func TestNotifierSubscribe(t *testing.T) {
	bus := events.NewEventBus(nil)
	var sent []Message
	n := NewNotifier("91", nil, func(m Message) error {
		sent = append(sent, m)
		return nil
	})
	n.Subscribe(bus)

	require.NoError(t, bus.PublishJSON(events.EventAppointmentCreated, events.AppointmentEventPayload{
		BookingID:    "BKG-1",
		CustomerName: "Meera",
		MobileNumber: "9876543210",
	}))
	require.NoError(t, bus.PublishJSON(events.EventAppointmentStatusChanged, events.AppointmentEventPayload{
		BookingID: "BKG-2",
	}))

	require.Len(t, sent, 1)
	assert.Equal(t, "BKG-1", sent[0].BookingID)
	assert.Equal(t, "919876543210", sent[0].To)
	assert.Contains(t, sent[0].Link, "https://wa.me/919876543210?text=")
}

func TestNotifierBadPayload(t *testing.T) {
	n := NewNotifier("91", nil, nil)
	err := n.Handle(&events.Event{Type: events.EventAppointmentCreated, Payload: []byte("{bad")})
	assert.Error(t, err)
}
