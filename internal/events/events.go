package events

import (
	"sync"
	"time"

	"github.com/goccy/go-json"
)

const (
	EventAppointmentCreated       = "appointment_created"
	EventAppointmentStatusChanged = "appointment_status_changed"
)

// AppointmentEventPayload is the appointment snapshot carried by events.
type AppointmentEventPayload struct {
	BookingID      string   `json:"booking_id"`
	CustomerName   string   `json:"customer_name"`
	MobileNumber   string   `json:"mobile_number"`
	ServiceName    string   `json:"service_name"`
	SlotDate       string   `json:"slot_date"`
	SlotTime       string   `json:"slot_time"`
	Status         string   `json:"status"`
	PreviousStatus string   `json:"previous_status,omitempty"`
	NetPrice       float64  `json:"net_price"`
	Staff          []string `json:"staff,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Decode unmarshals the payload into v.
func (e *Event) Decode(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	onError     func(eventType string, err error)
}

// NewEventBus constructs an empty bus. onError, if set, receives handler
// failures; publishing never stops at a failing handler.
func NewEventBus(onError func(eventType string, err error)) *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler), onError: onError}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type synchronously.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		if err := handler(event); err != nil && b.onError != nil {
			b.onError(event.Type, err)
		}
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
