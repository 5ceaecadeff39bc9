// Package notify composes WhatsApp click-to-chat messages for appointment
// events. Delivery happens outside this service.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"salonbook/internal/events"

	"github.com/rs/zerolog"
)

const waBaseURL = "https://wa.me/"

// NormalizeMobile strips everything but digits and prefixes countryCode to
// bare 10-digit numbers. A leading trunk 0 on an 11-digit number is dropped.
func NormalizeMobile(mobile, countryCode string) string {
	var b strings.Builder
	for _, r := range mobile {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '0' {
		digits = digits[1:]
	}
	if len(digits) == 10 && countryCode != "" {
		digits = countryCode + digits
	}
	return digits
}

// WhatsAppLink builds a wa.me link with a prefilled message. It returns ""
// when the number has no digits.
func WhatsAppLink(mobile, countryCode, text string) string {
	digits := NormalizeMobile(mobile, countryCode)
	if digits == "" {
		return ""
	}
	link := waBaseURL + digits
	if text != "" {
		link += "?text=" + url.QueryEscape(text)
	}
	return link
}

// Message is a composed notification.
type Message struct {
	BookingID string `json:"booking_id"`
	To        string `json:"to"`
	Text      string `json:"text"`
	Link      string `json:"link"`
}

// Compose renders the customer-facing text for an appointment event.
func Compose(eventType string, p events.AppointmentEventPayload) string {
	when := strings.TrimSpace(p.SlotDate + " " + p.SlotTime)
	switch eventType {
	case events.EventAppointmentCreated:
		return fmt.Sprintf("Hi %s, your %s appointment on %s is booked. Booking ID: %s. Amount: %.2f",
			p.CustomerName, p.ServiceName, when, p.BookingID, p.NetPrice)
	case events.EventAppointmentStatusChanged:
		return fmt.Sprintf("Hi %s, your %s appointment on %s (Booking ID: %s) is now %s.",
			p.CustomerName, p.ServiceName, when, p.BookingID, p.Status)
	default:
		return ""
	}
}

// Notifier turns appointment events into WhatsApp messages and hands them
// to deliver. With no deliver func the message is only logged.
type Notifier struct {
	countryCode string
	logger      *zerolog.Logger
	deliver     func(Message) error
}

func NewNotifier(countryCode string, logger *zerolog.Logger, deliver func(Message) error) *Notifier {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Notifier{countryCode: countryCode, logger: logger, deliver: deliver}
}

// Subscribe attaches the notifier to the appointment events on bus.
func (n *Notifier) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventAppointmentCreated, n.Handle)
	bus.Subscribe(events.EventAppointmentStatusChanged, n.Handle)
}

// Handle is an events.EventHandler.
func (n *Notifier) Handle(ev *events.Event) error {
	var p events.AppointmentEventPayload
	if err := ev.Decode(&p); err != nil {
		return fmt.Errorf("decode %s payload: %w", ev.Type, err)
	}

	text := Compose(ev.Type, p)
	if text == "" {
		return nil
	}
	msg := Message{
		BookingID: p.BookingID,
		To:        NormalizeMobile(p.MobileNumber, n.countryCode),
		Text:      text,
		Link:      WhatsAppLink(p.MobileNumber, n.countryCode, text),
	}
	if msg.To == "" {
		n.logger.Debug().Str("booking_id", p.BookingID).Msg("no customer mobile, skipping whatsapp message")
		return nil
	}

	n.logger.Info().Str("booking_id", msg.BookingID).Str("event", ev.Type).Str("link", msg.Link).Msg("whatsapp message composed")
	if n.deliver == nil {
		return nil
	}
	return n.deliver(msg)
}
