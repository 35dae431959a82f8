package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/match-ticket-reservation/internal/handler"
	"github.com/iliyamo/match-ticket-reservation/internal/middleware"
	"github.com/iliyamo/match-ticket-reservation/internal/model"
)

// RegisterAdmin registers account administration under /api/admin.  Every
// route requires the ADMIN role.  purge is applied to deletions because
// removing a manager removes its programmes.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string, purge echo.MiddlewareFunc) {
	g := e.Group(
		"/api/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.Administrators),
	)
	g.GET("/users", a.ListUsers)
	g.POST("/users", a.CreateUser)
	g.GET("/users/:id", a.GetUser)
	g.PUT("/users/:id", a.UpdateUser)
	g.DELETE("/users/:id", a.DeleteUser, purge)
}
