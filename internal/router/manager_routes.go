package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/match-ticket-reservation/internal/handler"    // manager handlers
	"github.com/iliyamo/match-ticket-reservation/internal/middleware" // JWT + role middlewares
	"github.com/iliyamo/match-ticket-reservation/internal/model"
)

// RegisterManager registers the /api/manager endpoints.  Each route declares
// its own allowed-role set.  purge drops the public programme cache after a
// successful catalogue change.
func RegisterManager(e *echo.Echo, m *handler.ManagerHandler, jwtSecret string, purge echo.MiddlewareFunc) {
	g := e.Group("/api/manager", middleware.JWTAuth(jwtSecret))

	// ---- Programmes ----
	editors := middleware.RequireRole(model.CatalogEditors)
	g.GET("/programmes", m.ListProgrammes, editors)
	g.POST("/programmes", m.CreateProgramme, editors, purge)
	g.PUT("/programmes/:id", m.UpdateProgramme, editors, purge)
	g.DELETE("/programmes/:id", m.DeleteProgramme, editors, purge)

	// ---- Dashboard ----
	g.GET("/stats", m.GetStats, middleware.RequireRole(model.StatsReaders))
	g.GET("/reservations", m.ListReservations, middleware.RequireRole(model.PaymentAuditors))
}
