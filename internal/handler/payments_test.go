package handler

import (
    "context"
    "errors"
    "net/http"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/mock"

    "github.com/iliyamo/match-ticket-reservation/internal/model"
    "github.com/iliyamo/match-ticket-reservation/internal/service"
)

func newPaymentRoutes() (*mockPayments, *mockReservations, *echo.Echo) {
    payments, reservations := &mockPayments{}, &mockReservations{}
    ph := NewPaymentHandler(payments)
    rh := NewReservationHandler(reservations)

    e := newEcho()
    e.POST("/reservations", rh.Create, authed())
    e.GET("/reservations/mine", rh.Mine, authed())
    e.POST("/payments/process", ph.Process, authed())
    e.GET("/payments/status/:reservationId", ph.Status, authed())
    return payments, reservations, e
}

func TestReservation_Create(t *testing.T) {
    _, reservations, e := newPaymentRoutes()
    reservations.On("Create", mock.Anything, spectator, service.ReservationInput{ProgrammeID: 2, TicketCount: 3, Tier: "VIP"}).
        Return(&model.ReservationDetail{
            Reservation: model.Reservation{ID: 11, ProgrammeID: 2, TicketCount: 3, Tier: model.TierVIP},
            Payment:     &model.Payment{ID: 21, Amount: 225, Status: model.PaymentPending, Method: model.MethodMobileMoney},
        }, nil)

    rec := call(t, e, http.MethodPost, "/reservations", `{"programme_id":2,"ticket_count":3,"tier":"VIP"}`, &spectator)
    assert.Equal(t, http.StatusCreated, rec.Code)
    assert.Contains(t, rec.Body.String(), `"amount":225`)
    assert.Contains(t, rec.Body.String(), `"status":"PENDING"`)
}

func TestReservation_CreateRejects(t *testing.T) {
    _, reservations, e := newPaymentRoutes()
    reservations.On("Create", mock.Anything, spectator, mock.Anything).Return(nil, service.ErrProgrammeNotFound)

    assert.Equal(t, http.StatusBadRequest,
        call(t, e, http.MethodPost, "/reservations", `{"programme_id":2,"ticket_count":0}`, &spectator).Code)
    assert.Equal(t, http.StatusUnauthorized,
        call(t, e, http.MethodPost, "/reservations", `{"programme_id":2,"ticket_count":1}`, nil).Code)

    rec := call(t, e, http.MethodPost, "/reservations", `{"programme_id":404,"ticket_count":1}`, &spectator)
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.JSONEq(t, jsonMessage("Programme non trouvé"), rec.Body.String())
}

func TestReservation_Mine(t *testing.T) {
    _, reservations, e := newPaymentRoutes()
    reservations.On("ListMine", mock.Anything, spectator).Return(nil, nil)

    rec := call(t, e, http.MethodGet, "/reservations/mine", "", &spectator)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestPayment_Process(t *testing.T) {
    payments, _, e := newPaymentRoutes()
    paidAt := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
    payments.On("Process", mock.Anything, spectator, service.ProcessInput{
        ReservationID: 11,
        Method:        "MOBILE_MONEY",
        Details:       model.PaymentDetails{PhoneNumber: "+243812345678"},
    }).Return(&model.Payment{ID: 21, Status: model.PaymentCompleted, Method: model.MethodMobileMoney, PaidAt: &paidAt}, nil)

    rec := call(t, e, http.MethodPost, "/payments/process",
        `{"reservation_id":11,"method":"MOBILE_MONEY","method_data":{"phone_number":"+243812345678"}}`, &spectator)

    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), `"message":"Paiement traité avec succès"`)
    assert.Contains(t, rec.Body.String(), `"status":"COMPLETED"`)
}

func TestPayment_ProcessErrors(t *testing.T) {
    cases := []struct {
        err  error
        code int
        msg  string
    }{
        {service.ErrUnauthorized, http.StatusUnauthorized, "Non autorisé"},
        {service.ErrReservationNotFound, http.StatusNotFound, "Réservation non trouvée"},
        {service.ErrNoPayment, http.StatusBadRequest, "Aucun paiement associé à cette réservation"},
        {service.ErrAlreadyPaid, http.StatusBadRequest, "Cette réservation a déjà été payée"},
        {service.ErrPaymentFailed, http.StatusBadRequest, "Le paiement a échoué. Veuillez réessayer."},
        {service.ErrInvalidPaymentDetails, http.StatusBadRequest, "Informations de paiement invalides"},
        {service.ErrPaymentInProgress, http.StatusBadRequest, "Un paiement est déjà en cours pour cette réservation"},
        {context.DeadlineExceeded, http.StatusInternalServerError, "Erreur lors du traitement du paiement"},
    }
    for _, tc := range cases {
        t.Run(tc.err.Error(), func(t *testing.T) {
            payments, _, e := newPaymentRoutes()
            payments.On("Process", mock.Anything, other(), mock.Anything).Return(nil, tc.err)

            p := other()
            rec := call(t, e, http.MethodPost, "/payments/process", `{"reservation_id":11,"method":"CARD"}`, &p)
            assert.Equal(t, tc.code, rec.Code)
            assert.JSONEq(t, jsonMessage(tc.msg), rec.Body.String())
        })
    }
}

func other() model.Principal { return model.Principal{AccountID: 6, Role: model.RoleSpectator} }

func TestPayment_ProcessRequiresReservation(t *testing.T) {
    payments, _, e := newPaymentRoutes()
    rec := call(t, e, http.MethodPost, "/payments/process", `{"method":"CARD"}`, &spectator)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    payments.AssertNotCalled(t, "Process", mock.Anything, mock.Anything, mock.Anything)
}

func TestPayment_Status(t *testing.T) {
    payments, _, e := newPaymentRoutes()
    payments.On("Status", mock.Anything, manager, uint64(11)).Return(&model.ReservationDetail{
        Reservation: model.Reservation{ID: 11, SpectatorID: 5, TicketCount: 2, Tier: model.TierStandard},
        Programme:   model.Programme{ID: 2, HomeTeam: "TP Mazembe"},
        Payment:     &model.Payment{ID: 21, Status: model.PaymentFailed},
    }, nil)
    payments.On("Status", mock.Anything, spectator, uint64(12)).Return(&model.ReservationDetail{
        Reservation: model.Reservation{ID: 12, SpectatorID: 5},
    }, nil)

    rec := call(t, e, http.MethodGet, "/payments/status/11", "", &manager)
    assert.Equal(t, http.StatusOK, rec.Code)
    body := rec.Body.String()
    assert.Contains(t, body, `"reservation":{"id":11`)
    assert.Contains(t, body, `"programme":{"id":2`)
    assert.Contains(t, body, `"payment":{"id":21`)
    assert.Contains(t, body, `"status":"FAILED"`)

    rec = call(t, e, http.MethodGet, "/payments/status/12", "", &spectator)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), `"payment":null`)

    assert.Equal(t, http.StatusBadRequest, call(t, e, http.MethodGet, "/payments/status/x", "", &spectator).Code)
}

func TestReady(t *testing.T) {
    e := newEcho()
    e.GET("/readyz", Ready(map[string]Check{
        "mysql": func(context.Context) error { return nil },
        "redis": func(context.Context) error { return errors.New("connection refused") },
    }))
    e.GET("/healthz", Health)

    rec := call(t, e, http.MethodGet, "/readyz", "", nil)
    assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
    assert.JSONEq(t, `{"mysql":"ok","redis":"connection refused"}`, rec.Body.String())

    rec = call(t, e, http.MethodGet, "/healthz", "", nil)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "ok", rec.Body.String())
}
