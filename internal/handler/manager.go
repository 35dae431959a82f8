package handler // handler package contains manager dashboard handlers

import (
    "net/http" // http provides status code constants

    "github.com/labstack/echo/v4" // echo is the web framework used for handlers

    "github.com/iliyamo/match-ticket-reservation/internal/model" // model holds the domain types returned to clients
)

// ManagerHandler bundles the services behind the /api/manager routes
type ManagerHandler struct {
    Catalog      CatalogAPI     // Catalog manages the caller's programmes
    Stats        StatsAPI       // Stats computes the dashboard aggregates
    Reservations ReservationAPI // Reservations lists every reservation for staff
}

// NewManagerHandler constructs a ManagerHandler and panics if any dependency is nil
func NewManagerHandler(catalog CatalogAPI, stats StatsAPI, reservations ReservationAPI) *ManagerHandler {
    if catalog == nil || stats == nil || reservations == nil { // check for nil dependencies
        panic("nil service passed to NewManagerHandler") // fail fast at wiring time
    }
    return &ManagerHandler{Catalog: catalog, Stats: stats, Reservations: reservations}
}

// programmeReq is the body of programme create and update requests
type programmeReq struct {
    HomeTeam string  `json:"home_team" validate:"required"` // HomeTeam is the host club
    AwayTeam string  `json:"away_team" validate:"required"` // AwayTeam is the visiting club
    Stadium  string  `json:"stadium" validate:"required"`   // Stadium is the venue
    Date     string  `json:"date" validate:"required"`      // Date is parsed by parseDate
    Division string  `json:"division"`                      // Division is free text
    PriceA   float64 `json:"price_a" validate:"gte=0"`      // PriceA is the premium tier price
    PriceB   float64 `json:"price_b" validate:"gte=0"`      // PriceB is the standard tier price
}

// input converts the request into a ProgrammeInput, reporting whether the date parsed
func (r programmeReq) input() (model.ProgrammeInput, bool) {
    date, ok := parseDate(r.Date) // accept RFC 3339 and datetime-local forms
    if !ok { // reject unparseable dates before reaching the service
        return model.ProgrammeInput{}, false
    }
    return model.ProgrammeInput{
        HomeTeam: r.HomeTeam,
        AwayTeam: r.AwayTeam,
        Stadium:  r.Stadium,
        Date:     date,
        Division: r.Division,
        PriceA:   r.PriceA,
        PriceB:   r.PriceB,
    }, true
}

// ListProgrammes handles GET /api/manager/programmes and returns the caller's programmes, latest date first
func (h *ManagerHandler) ListProgrammes(c echo.Context) error {
    p, _ := principal(c) // identity was checked by the route middleware
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    list, err := h.Catalog.ListMine(ctx, p) // load programmes owned by the caller
    if err != nil {
        return writeError(c, err, "Erreur lors de la récupération des programmes")
    }
    if list == nil { // always answer with a JSON array
        list = []model.Programme{}
    }
    return c.JSON(http.StatusOK, list)
}

// CreateProgramme handles POST /api/manager/programmes
func (h *ManagerHandler) CreateProgramme(c echo.Context) error {
    p, _ := principal(c)
    var req programmeReq
    if !bindValid(c, &req) { // bind and validate the JSON body
        return message(c, http.StatusBadRequest, msgInvalidBody)
    }
    in, ok := req.input()
    if !ok {
        return message(c, http.StatusBadRequest, "Date invalide")
    }
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    prog, err := h.Catalog.Create(ctx, p, in) // the caller becomes the owner
    if err != nil {
        return writeError(c, err, "Erreur lors de la création du programme")
    }
    return c.JSON(http.StatusCreated, prog) // 201 with the stored programme
}

// UpdateProgramme handles PUT /api/manager/programmes/:id; managers may only edit their own programmes
func (h *ManagerHandler) UpdateProgramme(c echo.Context) error {
    p, _ := principal(c)
    id, ok := paramID(c, "id") // parse the programme id from the URL
    if !ok {
        return message(c, http.StatusBadRequest, msgInvalidID)
    }
    var req programmeReq
    if !bindValid(c, &req) {
        return message(c, http.StatusBadRequest, msgInvalidBody)
    }
    in, ok := req.input()
    if !ok {
        return message(c, http.StatusBadRequest, "Date invalide")
    }
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    prog, err := h.Catalog.Update(ctx, p, id, in) // not found and not owned look the same
    if err != nil {
        return writeError(c, err, "Erreur lors de la mise à jour du programme")
    }
    return c.JSON(http.StatusOK, prog)
}

// DeleteProgramme handles DELETE /api/manager/programmes/:id; reservations and payments are removed with it
func (h *ManagerHandler) DeleteProgramme(c echo.Context) error {
    p, _ := principal(c)
    id, ok := paramID(c, "id")
    if !ok {
        return message(c, http.StatusBadRequest, msgInvalidID)
    }
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    if err := h.Catalog.Delete(ctx, p, id); err != nil { // cascade runs in one transaction
        return writeError(c, err, "Erreur lors de la suppression du programme")
    }
    return message(c, http.StatusOK, "Programme supprimé avec succès")
}

// GetStats handles GET /api/manager/stats
func (h *ManagerHandler) GetStats(c echo.Context) error {
    p, _ := principal(c)
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    stats, err := h.Stats.Dashboard(ctx, p) // totals plus this month's deltas
    if err != nil {
        return writeError(c, err, "Erreur lors de la récupération des statistiques")
    }
    return c.JSON(http.StatusOK, stats)
}

// ListReservations handles GET /api/manager/reservations and returns every reservation with spectator, programme and payment
func (h *ManagerHandler) ListReservations(c echo.Context) error {
    p, _ := principal(c)
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    list, err := h.Reservations.ListAll(ctx, p)
    if err != nil {
        return writeError(c, err, "Erreur lors de la récupération des réservations")
    }
    if list == nil {
        list = []model.ReservationDetail{}
    }
    return c.JSON(http.StatusOK, list)
}
