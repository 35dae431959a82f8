package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/match-ticket-reservation/internal/model"
    "github.com/iliyamo/match-ticket-reservation/internal/service"
)

// AuthHandler serves registration and the token session endpoints.
type AuthHandler struct {
    Auth     AuthAPI
    Accounts AccountAPI
}

func NewAuthHandler(auth AuthAPI, accounts AccountAPI) *AuthHandler {
    return &AuthHandler{Auth: auth, Accounts: accounts}
}

// ----- DTOs -----

type registerReq struct {
    Email     string `json:"email" validate:"required,email"`
    Password  string `json:"password" validate:"required"`
    Name      string `json:"name"`
    LastName  string `json:"last_name"`
    FirstName string `json:"first_name"`
    City      string `json:"city"`
    Phone     string `json:"phone"`
}
type loginReq struct {
    Email    string `json:"email" validate:"required"`
    Password string `json:"password" validate:"required"`
}
type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type authResp struct {
    User    *model.Account `json:"user"`
    Access  tokenPart      `json:"access"`
    Refresh tokenPart      `json:"refresh"`
}

func sessionResp(s *service.Session) authResp {
    return authResp{
        User:    s.Account,
        Access:  tokenPart{Token: s.Access.Token, Expires: s.Access.Exp},
        Refresh: tokenPart{Token: s.Refresh.Raw, Expires: s.Refresh.Exp}, // raw back to client
    }
}

// Register creates a SPECTATOR account.  No tokens are issued; the client
// signs in afterwards.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if !bindValid(c, &req) {
        return message(c, http.StatusBadRequest, msgInvalidBody)
    }
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    a, err := h.Accounts.Register(ctx, model.Registration{
        Email:    req.Email,
        Password: req.Password,
        Name:     req.Name,
        Profile: model.SpectatorProfile{
            LastName:  strings.TrimSpace(req.LastName),
            FirstName: strings.TrimSpace(req.FirstName),
            City:      strings.TrimSpace(req.City),
            Phone:     strings.TrimSpace(req.Phone),
        },
    })
    if err != nil {
        return writeError(c, err, "Erreur interne du serveur")
    }
    return c.JSON(http.StatusCreated, echo.Map{"message": "Utilisateur créé avec succès", "user": a})
}

// Login verifies credentials and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if !bindValid(c, &req) {
        return message(c, http.StatusBadRequest, msgInvalidBody)
    }
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    s, err := h.Auth.Login(ctx, req.Email, req.Password)
    if err != nil {
        return writeError(c, err, "Erreur interne du serveur")
    }
    return c.JSON(http.StatusOK, sessionResp(s))
}

// Refresh rotates the refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return message(c, http.StatusBadRequest, "refresh_token requis")
    }
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    s, err := h.Auth.Refresh(ctx, req.RefreshToken)
    if err != nil {
        return writeError(c, err, "Erreur interne du serveur")
    }
    return c.JSON(http.StatusOK, sessionResp(s))
}

// Logout revokes the refresh token in the body, or every refresh token of
// the caller when the body is empty and a valid access token is presented.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req refreshReq
    _ = c.Bind(&req) // empty body is allowed

    var caller *model.Principal
    if p, ok := principal(c); ok {
        caller = &p
    }
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    if err := h.Auth.Logout(ctx, req.RefreshToken, caller); err != nil {
        return writeError(c, err, "Erreur interne du serveur")
    }
    return message(c, http.StatusOK, "Déconnexion réussie")
}

// Me echoes the authenticated (subject id, role) pair.
func (h *AuthHandler) Me(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return message(c, http.StatusUnauthorized, msgUnauthorized)
    }
    return c.JSON(http.StatusOK, echo.Map{"id": p.AccountID, "role": p.Role})
}
