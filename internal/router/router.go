package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"                             // import the Echo web framework to handle routing
	"github.com/prometheus/client_golang/prometheus/promhttp" // Prometheus exposition handler

	"github.com/iliyamo/match-ticket-reservation/internal/handler"    // import the handlers that implement each endpoint
	"github.com/iliyamo/match-ticket-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not belong to the API: the
// liveness and readiness probes and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, checks map[string]handler.Check) {
	// Liveness only proves the process is serving requests.
	e.GET("/healthz", handler.Health)
	// Readiness pings MySQL and Redis.
	e.GET("/readyz", handler.Ready(checks))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers registration and session routes under /api/auth
// plus the protected /api/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Register, login and refresh do not require an existing session.
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a refresh_token body or, when the body is
	// empty, an access token whose account is signed out everywhere.
	g.POST("/logout", a.Logout, middleware.OptionalJWT(jwtSecret))

	e.GET("/api/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers unauthenticated browse endpoints.  cache is the
// Redis response cache; the listing only changes when a manager edits the
// catalogue, which purges it.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	// Upcoming programmes, soonest first
	e.GET("/api/programmes", p.ListProgrammes, cache)
}
