package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/match-ticket-reservation/internal/utils"
)

// unauthorized is the uniform body for every 401 produced by this package.
var unauthorized = echo.Map{"message": "Non autorisé"}

func bearer(c echo.Context) (string, bool) {
    auth := c.Request().Header.Get("Authorization")
    if !strings.HasPrefix(auth, "Bearer ") {
        return "", false
    }
    raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
    return raw, raw != ""
}

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// stores the caller in the request context.  Handlers read it back with
// PrincipalFrom; the raw values are also available as c.Get("user_id")
// (uint64) and c.Get("role") (model.Role).
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := bearer(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, unauthorized)
            }
            p, err := utils.ParseAccessToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, unauthorized)
            }
            setPrincipal(c, p)
            return next(c)
        }
    }
}

// OptionalJWT behaves like JWTAuth but lets anonymous requests through.  An
// invalid token is ignored rather than rejected.
func OptionalJWT(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if raw, ok := bearer(c); ok {
                if p, err := utils.ParseAccessToken(secret, raw); err == nil {
                    setPrincipal(c, p)
                }
            }
            return next(c)
        }
    }
}
