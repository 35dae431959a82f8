// Package queue carries payment confirmations over RabbitMQ.  The HTTP
// path publishes an event once a payment completes; a background consumer
// delivers the confirmation "email" (a line in the notification log).
package queue

import "time"

// PaymentConfirmedEvent is published when a payment reaches COMPLETED.  It
// carries everything the confirmation needs so the consumer never queries
// the database.
type PaymentConfirmedEvent struct {
    MessageID     string    `json:"message_id"`
    ReservationID uint64    `json:"reservation_id"`
    PaymentID     uint64    `json:"payment_id"`
    SpectatorID   uint64    `json:"spectator_id"`
    Email         string    `json:"email"`
    Match         string    `json:"match"`
    Stadium       string    `json:"stadium"`
    MatchDate     time.Time `json:"match_date"`
    Tier          string    `json:"tier"`
    TicketCount   uint32    `json:"ticket_count"`
    Amount        float64   `json:"amount"`
    Method        string    `json:"method"`
    PaidAt        time.Time `json:"paid_at"`
}
