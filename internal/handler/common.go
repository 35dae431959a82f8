package handler // handler defines http handlers

import (
    "context"
    "encoding/json"
    "errors"
    "log/slog"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/match-ticket-reservation/internal/middleware"
    "github.com/iliyamo/match-ticket-reservation/internal/model"
    "github.com/iliyamo/match-ticket-reservation/internal/service"
)

const (
    msgUnauthorized = "Non autorisé"
    msgInvalidBody  = "Données invalides"
    msgInvalidID    = "Identifiant invalide"
)

// requestTimeout bounds every handler's call into the service layer.
const requestTimeout = 5 * time.Second

// Validator adapts go-playground/validator to echo.Validator.
type Validator struct {
    v *validator.Validate
}

func NewValidator() *Validator { return &Validator{v: validator.New()} }

func (cv *Validator) Validate(i interface{}) error { return cv.v.Struct(i) }

func message(c echo.Context, status int, msg string) error {
    return c.JSON(status, echo.Map{"message": msg})
}

// principal returns the caller stored by middleware.JWTAuth.
func principal(c echo.Context) (model.Principal, bool) {
    return middleware.PrincipalFrom(c)
}

func withTimeout(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), d)
}

func paramID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil && id > 0
}

// bindValid binds the body and runs the registered validator.
func bindValid(c echo.Context, dst interface{}) bool {
    if err := c.Bind(dst); err != nil {
        return false
    }
    return c.Validate(dst) == nil
}

// bindStrict decodes a JSON body and rejects any field dst does not declare.
func bindStrict(c echo.Context, dst interface{}) bool {
    dec := json.NewDecoder(c.Request().Body)
    dec.DisallowUnknownFields()
    if err := dec.Decode(dst); err != nil {
        return false
    }
    return c.Validate(dst) == nil
}

// writeError maps a service error to the uniform {message} body.  Anything
// unrecognized is logged and answered with fallback as a 500.
func writeError(c echo.Context, err error, fallback string) error {
    switch {
    case errors.Is(err, service.ErrUnauthorized):
        return message(c, http.StatusUnauthorized, msgUnauthorized)
    case errors.Is(err, service.ErrInvalidCredentials):
        return message(c, http.StatusUnauthorized, "Email ou mot de passe incorrect")

    case errors.Is(err, service.ErrProgrammeNotFound):
        return message(c, http.StatusNotFound, "Programme non trouvé")
    case errors.Is(err, service.ErrReservationNotFound):
        return message(c, http.StatusNotFound, "Réservation non trouvée")
    case errors.Is(err, service.ErrAccountNotFound):
        return message(c, http.StatusNotFound, "Utilisateur non trouvé")
    case errors.Is(err, service.ErrNotFound):
        return message(c, http.StatusNotFound, "Ressource non trouvée")

    case errors.Is(err, service.ErrEmailExists):
        return message(c, http.StatusBadRequest, "Un utilisateur avec cette adresse e-mail existe déjà.")
    case errors.Is(err, service.ErrAlreadyPaid):
        return message(c, http.StatusBadRequest, "Cette réservation a déjà été payée")
    case errors.Is(err, service.ErrPaymentInProgress):
        return message(c, http.StatusBadRequest, "Un paiement est déjà en cours pour cette réservation")
    case errors.Is(err, service.ErrNoPayment):
        return message(c, http.StatusBadRequest, "Aucun paiement associé à cette réservation")
    case errors.Is(err, service.ErrPaymentFailed):
        return message(c, http.StatusBadRequest, "Le paiement a échoué. Veuillez réessayer.")
    case errors.Is(err, service.ErrInvalidPaymentDetails):
        return message(c, http.StatusBadRequest, "Informations de paiement invalides")
    case errors.Is(err, service.ErrValidation):
        return message(c, http.StatusBadRequest, msgInvalidBody)
    case errors.Is(err, service.ErrConflict):
        return message(c, http.StatusBadRequest, "Conflit avec l'état actuel de la ressource")
    }

    slog.ErrorContext(c.Request().Context(), "request failed",
        slog.String("method", c.Request().Method),
        slog.String("path", c.Path()),
        slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
        slog.Any("error", err),
    )
    return message(c, http.StatusInternalServerError, fallback)
}

var dateLayouts = []string{
    time.RFC3339,
    "2006-01-02T15:04:05",
    "2006-01-02T15:04",
    "2006-01-02 15:04:05",
    "2006-01-02 15:04",
    "2006-01-02",
}

// parseDate accepts RFC 3339 as well as the zone-less forms sent by HTML
// datetime inputs, which are read in server-local time.
func parseDate(s string) (time.Time, bool) {
    s = strings.TrimSpace(s)
    for _, layout := range dateLayouts {
        if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
            return t, true
        }
    }
    return time.Time{}, false
}
