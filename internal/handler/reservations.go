package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/match-ticket-reservation/internal/model"
    "github.com/iliyamo/match-ticket-reservation/internal/service"
)

// ReservationHandler serves reservation creation and the caller's listing.
type ReservationHandler struct {
    Reservations ReservationAPI
}

func NewReservationHandler(reservations ReservationAPI) *ReservationHandler {
    return &ReservationHandler{Reservations: reservations}
}

type reservationReq struct {
    ProgrammeID uint64 `json:"programme_id" validate:"required"`
    TicketCount uint32 `json:"ticket_count" validate:"required,min=1"`
    Tier        string `json:"tier"`
}

// Create handles POST /api/reservations.  The response carries the
// programme and the PENDING payment created alongside.
func (h *ReservationHandler) Create(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return message(c, http.StatusUnauthorized, msgUnauthorized)
    }
    var req reservationReq
    if !bindValid(c, &req) {
        return message(c, http.StatusBadRequest, msgInvalidBody)
    }
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    d, err := h.Reservations.Create(ctx, p, service.ReservationInput{
        ProgrammeID: req.ProgrammeID,
        TicketCount: req.TicketCount,
        Tier:        req.Tier,
    })
    if err != nil {
        return writeError(c, err, "Erreur lors de la création de la réservation")
    }
    return c.JSON(http.StatusCreated, d)
}

// Mine handles GET /api/reservations/mine, newest first.
func (h *ReservationHandler) Mine(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return message(c, http.StatusUnauthorized, msgUnauthorized)
    }
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    list, err := h.Reservations.ListMine(ctx, p)
    if err != nil {
        return writeError(c, err, "Erreur lors de la récupération des réservations")
    }
    if list == nil {
        list = []model.ReservationDetail{}
    }
    return c.JSON(http.StatusOK, list)
}
