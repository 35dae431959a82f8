package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/match-ticket-reservation/internal/model"
    "github.com/iliyamo/match-ticket-reservation/internal/service"
)

// paymentTimeout covers the gateway delay plus the database writes.
const paymentTimeout = 30 * time.Second

// PaymentHandler serves payment processing and status.
type PaymentHandler struct {
    Payments PaymentAPI
}

func NewPaymentHandler(payments PaymentAPI) *PaymentHandler {
    return &PaymentHandler{Payments: payments}
}

// method_data is validated by the gateway so that malformed details still
// mark the payment FAILED.
type processReq struct {
    ReservationID uint64               `json:"reservation_id" validate:"required"`
    Method        string               `json:"method"`
    MethodData    model.PaymentDetails `json:"method_data"`
}

// reservationView is a reservation with its programme, without the payment
// which is reported beside it.
type reservationView struct {
    model.Reservation
    Programme model.Programme `json:"programme"`
}

type statusResp struct {
    Reservation reservationView `json:"reservation"`
    Payment     *model.Payment  `json:"payment"`
}

// Process handles POST /api/payments/process.  Only the spectator who made
// the reservation may pay for it.
func (h *PaymentHandler) Process(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return message(c, http.StatusUnauthorized, msgUnauthorized)
    }
    var req processReq
    if !bindValid(c, &req) {
        return message(c, http.StatusBadRequest, msgInvalidBody)
    }
    ctx, cancel := withTimeout(c, paymentTimeout)
    defer cancel()

    pay, err := h.Payments.Process(ctx, p, service.ProcessInput{
        ReservationID: req.ReservationID,
        Method:        req.Method,
        Details:       req.MethodData,
    })
    if err != nil {
        return writeError(c, err, "Erreur lors du traitement du paiement")
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Paiement traité avec succès", "payment": pay})
}

// Status handles GET /api/payments/status/:reservationId.  Staff may read
// any reservation; spectators only their own.
func (h *PaymentHandler) Status(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return message(c, http.StatusUnauthorized, msgUnauthorized)
    }
    id, ok := paramID(c, "reservationId")
    if !ok {
        return message(c, http.StatusBadRequest, msgInvalidID)
    }
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    d, err := h.Payments.Status(ctx, p, id)
    if err != nil {
        return writeError(c, err, "Erreur lors de la récupération du statut de paiement")
    }
    return c.JSON(http.StatusOK, statusResp{
        Reservation: reservationView{Reservation: d.Reservation, Programme: d.Programme},
        Payment:     d.Payment,
    })
}
