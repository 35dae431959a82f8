package handler

import (
    "net/http"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/mock"

    "github.com/iliyamo/match-ticket-reservation/internal/middleware"
    "github.com/iliyamo/match-ticket-reservation/internal/model"
    "github.com/iliyamo/match-ticket-reservation/internal/service"
)

func newAdminRoutes() (*mockAccounts, *echo.Echo) {
    accounts := &mockAccounts{}
    h := NewAdminHandler(accounts)
    e := newEcho()
    g := e.Group("/admin", authed(), middleware.RequireRole(model.Administrators))
    g.GET("/users", h.ListUsers)
    g.POST("/users", h.CreateUser)
    g.GET("/users/:id", h.GetUser)
    g.PUT("/users/:id", h.UpdateUser)
    g.DELETE("/users/:id", h.DeleteUser)
    return accounts, e
}

func TestAdmin_RoleGate(t *testing.T) {
    accounts, e := newAdminRoutes()
    for _, p := range []*model.Principal{nil, &spectator, &manager} {
        rec := call(t, e, http.MethodGet, "/admin/users", "", p)
        assert.Equal(t, http.StatusUnauthorized, rec.Code)
        assert.JSONEq(t, jsonMessage("Non autorisé"), rec.Body.String())
    }
    accounts.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestAdmin_ListUsersNeverNull(t *testing.T) {
    accounts, e := newAdminRoutes()
    accounts.On("List", mock.Anything, admin).Return(nil, nil)

    rec := call(t, e, http.MethodGet, "/admin/users", "", &admin)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAdmin_CreateUserWithAgentProfile(t *testing.T) {
    accounts, e := newAdminRoutes()
    want := model.AccountInput{
        Email:    "m@isp.com",
        Password: "pw",
        Role:     model.Role("manager"),
        Agent:    &model.AgentProfile{LastName: "FIDELE", FirstName: "Paul", Department: "Billetterie"},
    }
    accounts.On("Create", mock.Anything, admin, want).
        Return(&model.Account{ID: 12, Email: "m@isp.com", Role: model.RoleManager, Agent: want.Agent}, nil)

    rec := call(t, e, http.MethodPost, "/admin/users",
        `{"email":"m@isp.com","password":"pw","role":"manager","agent_profile":{"last_name":"FIDELE","first_name":"Paul","department":"Billetterie"}}`, &admin)

    assert.Equal(t, http.StatusCreated, rec.Code)
    assert.Contains(t, rec.Body.String(), `"agent_profile":{"last_name":"FIDELE"`)
    accounts.AssertExpectations(t)
}

func TestAdmin_CreateUserRejectsUnknownFields(t *testing.T) {
    accounts, e := newAdminRoutes()
    for _, body := range []string{
        `{"email":"m@isp.com","password":"pw","role":"ADMIN","is_superuser":true}`,
        `{"email":"m@isp.com","password":"pw","role":"SPECTATOR","spectator_profile":{"city":"Goma","shoe_size":42}}`,
    } {
        rec := call(t, e, http.MethodPost, "/admin/users", body, &admin)
        assert.Equal(t, http.StatusBadRequest, rec.Code, body)
    }
    accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdmin_CreateUserDuplicate(t *testing.T) {
    accounts, e := newAdminRoutes()
    accounts.On("Create", mock.Anything, admin, mock.Anything).Return(nil, service.ErrEmailExists)

    rec := call(t, e, http.MethodPost, "/admin/users", `{"email":"m@isp.com","password":"pw","role":"ADMIN"}`, &admin)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.JSONEq(t, jsonMessage("Un utilisateur avec cette adresse e-mail existe déjà."), rec.Body.String())
}

func TestAdmin_UpdateUser(t *testing.T) {
    accounts, e := newAdminRoutes()
    accounts.On("Update", mock.Anything, admin, uint64(4), mock.MatchedBy(func(in model.AccountInput) bool {
        return in.Password == "" && in.Spectator != nil && in.Spectator.City == "Lubumbashi"
    })).Return(&model.Account{ID: 4}, nil)
    accounts.On("Update", mock.Anything, admin, uint64(99), mock.Anything).Return(nil, service.ErrAccountNotFound)

    body := `{"email":"s@b.cd","role":"SPECTATOR","spectator_profile":{"city":"Lubumbashi"}}`
    assert.Equal(t, http.StatusOK, call(t, e, http.MethodPut, "/admin/users/4", body, &admin).Code)

    rec := call(t, e, http.MethodPut, "/admin/users/99", body, &admin)
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.JSONEq(t, jsonMessage("Utilisateur non trouvé"), rec.Body.String())

    assert.Equal(t, http.StatusBadRequest, call(t, e, http.MethodPut, "/admin/users/abc", body, &admin).Code)
}

func TestAdmin_DeleteUser(t *testing.T) {
    accounts, e := newAdminRoutes()
    accounts.On("Delete", mock.Anything, admin, uint64(9)).Return(nil)
    accounts.On("Delete", mock.Anything, admin, uint64(10)).Return(assert.AnError)

    rec := call(t, e, http.MethodDelete, "/admin/users/9", "", &admin)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, jsonMessage("Utilisateur supprimé avec succès"), rec.Body.String())

    rec = call(t, e, http.MethodDelete, "/admin/users/10", "", &admin)
    assert.Equal(t, http.StatusInternalServerError, rec.Code)
    assert.JSONEq(t, jsonMessage("Erreur lors de la suppression de l'utilisateur"), rec.Body.String())

    assert.Equal(t, http.StatusBadRequest, call(t, e, http.MethodDelete, "/admin/users/0", "", &admin).Code)
}

func TestAdmin_GetUser(t *testing.T) {
    accounts, e := newAdminRoutes()
    accounts.On("Get", mock.Anything, admin, uint64(9)).
        Return(&model.Account{ID: 9, Email: "m@isp.com", Role: model.RoleManager, PasswordHash: "$2a$hash"}, nil)
    accounts.On("Get", mock.Anything, admin, uint64(10)).Return(nil, service.ErrAccountNotFound)

    rec := call(t, e, http.MethodGet, "/admin/users/9", "", &admin)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), `"email":"m@isp.com"`)
    assert.NotContains(t, rec.Body.String(), "$2a$hash")

    rec = call(t, e, http.MethodGet, "/admin/users/10", "", &admin)
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.JSONEq(t, jsonMessage("Utilisateur non trouvé"), rec.Body.String())

    assert.Equal(t, http.StatusUnauthorized, call(t, e, http.MethodGet, "/admin/users/9", "", &manager).Code)
    accounts.AssertNumberOfCalls(t, "Get", 2)
}
