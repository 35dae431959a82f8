package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/match-ticket-reservation/internal/model"
)

// AdminHandler serves account administration.
type AdminHandler struct {
    Accounts AccountAPI
}

func NewAdminHandler(accounts AccountAPI) *AdminHandler {
    return &AdminHandler{Accounts: accounts}
}

// accountReq is the create/update payload.  Only the profile matching role
// is kept; unknown fields fail decoding.
type accountReq struct {
    Email            string                  `json:"email" validate:"required,email"`
    Password         string                  `json:"password"`
    Name             string                  `json:"name"`
    Role             string                  `json:"role" validate:"required"`
    SpectatorProfile *model.SpectatorProfile `json:"spectator_profile"`
    AgentProfile     *model.AgentProfile     `json:"agent_profile"`
}

func (r accountReq) input() model.AccountInput {
    return model.AccountInput{
        Email:     r.Email,
        Password:  r.Password,
        Name:      r.Name,
        Role:      model.Role(r.Role),
        Spectator: r.SpectatorProfile,
        Agent:     r.AgentProfile,
    }
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(c echo.Context) error {
    p, _ := principal(c)
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    list, err := h.Accounts.List(ctx, p)
    if err != nil {
        return writeError(c, err, "Erreur lors de la récupération des utilisateurs")
    }
    if list == nil {
        list = []model.Account{}
    }
    return c.JSON(http.StatusOK, list)
}

// CreateUser handles POST /api/admin/users
func (h *AdminHandler) CreateUser(c echo.Context) error {
    p, _ := principal(c)
    var req accountReq
    if !bindStrict(c, &req) {
        return message(c, http.StatusBadRequest, msgInvalidBody)
    }
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    a, err := h.Accounts.Create(ctx, p, req.input())
    if err != nil {
        return writeError(c, err, "Erreur lors de la création de l'utilisateur")
    }
    return c.JSON(http.StatusCreated, a)
}

// GetUser handles GET /api/admin/users/:id.
func (h *AdminHandler) GetUser(c echo.Context) error {
    p, _ := principal(c)
    id, ok := paramID(c, "id")
    if !ok {
        return message(c, http.StatusBadRequest, msgInvalidID)
    }
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    a, err := h.Accounts.Get(ctx, p, id)
    if err != nil {
        return writeError(c, err, "Erreur lors de la récupération de l'utilisateur")
    }
    return c.JSON(http.StatusOK, a)
}

// UpdateUser handles PUT /api/admin/users/:id.  An empty password keeps the
// stored one.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
    p, _ := principal(c)
    id, ok := paramID(c, "id")
    if !ok {
        return message(c, http.StatusBadRequest, msgInvalidID)
    }
    var req accountReq
    if !bindStrict(c, &req) {
        return message(c, http.StatusBadRequest, msgInvalidBody)
    }
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    a, err := h.Accounts.Update(ctx, p, id, req.input())
    if err != nil {
        return writeError(c, err, "Erreur lors de la mise à jour de l'utilisateur")
    }
    return c.JSON(http.StatusOK, a)
}

// DeleteUser handles DELETE /api/admin/users/:id.  The account's
// reservations, and for a manager its programmes, go with it.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
    p, _ := principal(c)
    id, ok := paramID(c, "id")
    if !ok {
        return message(c, http.StatusBadRequest, msgInvalidID)
    }
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    if err := h.Accounts.Delete(ctx, p, id); err != nil {
        return writeError(c, err, "Erreur lors de la suppression de l'utilisateur")
    }
    return message(c, http.StatusOK, "Utilisateur supprimé avec succès")
}
