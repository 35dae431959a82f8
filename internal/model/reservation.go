package model

import "time"

// Reservation is a spectator's request for TicketCount tickets of Tier
// against a programme.  Reservations are immutable once created.
type Reservation struct {
    ID          uint64    `json:"id"`
    SpectatorID uint64    `json:"spectator_id"`
    ProgrammeID uint64    `json:"programme_id"`
    TicketCount uint32    `json:"ticket_count"`
    Tier        Tier      `json:"tier"`
    CreatedAt   time.Time `json:"created_at"`
}

// ReservationDetail joins a reservation with its programme, its payment
// (nil when none exists) and, for staff listings, the spectator.
type ReservationDetail struct {
    Reservation
    Programme Programme        `json:"programme"`
    Payment   *Payment         `json:"payment"`
    Spectator *SpectatorSummary `json:"spectator,omitempty"`
}

// SpectatorSummary is the public face of the account that made a reservation.
type SpectatorSummary struct {
    ID    uint64 `json:"id"`
    Name  string `json:"name"`
    Email string `json:"email"`
}
