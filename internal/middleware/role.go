package middleware // middleware provides shared request processing for handlers

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/match-ticket-reservation/internal/model"
)

// RequireRole returns a middleware that admits only callers whose role is
// in allowed.  It must run after JWTAuth.  A missing identity and a role
// outside the set are both answered with 401.
func RequireRole(allowed model.RoleSet) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            p, ok := PrincipalFrom(c)
            if !ok || !p.Can(allowed) {
                return c.JSON(http.StatusUnauthorized, unauthorized)
            }
            return next(c)
        }
    }
}
