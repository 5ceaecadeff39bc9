package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "salonbook"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)

	identityResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "staff_identity_resolutions_total",
			Help:      "Staff identity resolutions by outcome.",
		},
		[]string{"kind"},
	)

	bookingIDsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_ids_generated_total",
			Help:      "Booking ids handed out by the generator.",
		},
	)

	bookingIDCollisions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_id_collisions_total",
			Help:      "Inserts rejected because the booking id already existed.",
		},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_messages_total",
			Help:      "WhatsApp outbox messages by result.",
		},
		[]string{"result"},
	)

	sequenceFailovers = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_sequence_failovers_total",
			Help:      "Times the shared booking sequence failed over to memory.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			identityResolutions,
			bookingIDsGenerated,
			bookingIDCollisions,
			sequenceFailovers,
			notifications,
		)
	})
}

func IncHTTP(route, code string) {
	httpRequests.WithLabelValues(route, code).Inc()
}

func IncIdentityResolution(kind string) {
	identityResolutions.WithLabelValues(kind).Inc()
}

func IncBookingID() {
	bookingIDsGenerated.Inc()
}

func IncBookingIDCollision() {
	bookingIDCollisions.Inc()
}

func IncSequenceFailover() {
	sequenceFailovers.Inc()
}

func IncOutboxMessage(result string) {
	notifications.WithLabelValues(result).Inc()
}
