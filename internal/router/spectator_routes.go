package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/match-ticket-reservation/internal/handler"
	"github.com/iliyamo/match-ticket-reservation/internal/middleware"
	"github.com/iliyamo/match-ticket-reservation/internal/model"
)

// RegisterSpectator registers the reservation and payment endpoints.  Any
// authenticated role may reach them; ownership of the reservation is checked
// by the payment service, and the status route additionally admits staff.
func RegisterSpectator(e *echo.Echo, r *handler.ReservationHandler, p *handler.PaymentHandler, jwtSecret string) {
	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.AnyAuthenticated),
	)
	g.POST("/reservations", r.Create)
	g.GET("/reservations/mine", r.Mine)

	g.POST("/payments/process", p.Process)
	g.GET("/payments/status/:reservationId", p.Status)
}
