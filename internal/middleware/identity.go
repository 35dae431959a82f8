package middleware

// identity.go holds the context accessors shared by the auth, rate limit
// and handler code.

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/match-ticket-reservation/internal/model"
)

const principalKey = "principal"

func setPrincipal(c echo.Context, p model.Principal) {
    c.Set(principalKey, p)
    c.Set("user_id", p.AccountID)
    c.Set("role", p.Role)
}

// PrincipalFrom returns the authenticated caller stored by JWTAuth.
func PrincipalFrom(c echo.Context) (model.Principal, bool) {
    p, ok := c.Get(principalKey).(model.Principal)
    return p, ok && p.AccountID != 0
}

// userID returns the caller's id as a string, or "anon".
func userID(c echo.Context) string {
    if p, ok := PrincipalFrom(c); ok {
        return strconv.FormatUint(p.AccountID, 10)
    }
    return "anon"
}
