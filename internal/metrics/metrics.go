package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ReservationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Number of reservations created, by tier",
		},
		[]string{"tier"},
	)

	TicketsReserved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_reserved_total",
			Help: "Number of tickets reserved, by tier",
		},
		[]string{"tier"},
	)

	PaymentsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_processed_total",
			Help: "Payment attempts by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	PaymentDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_processing_seconds",
			Help:    "Time spent in the payment gateway",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	NotificationsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_notifications_total",
			Help: "Payment confirmations handed to the notifier, by result",
		},
		[]string{"result"},
	)
)

var once sync.Once

// Register adds every collector to the default registry.  Calling it more
// than once is a no-op.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ReservationsCreated,
			TicketsReserved,
			PaymentsProcessed,
			PaymentDuration,
			NotificationsPublished,
		)
	})
}
