package handler

import (
    "context"
    "encoding/json"
    "io"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/mock"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/match-ticket-reservation/internal/middleware"
    "github.com/iliyamo/match-ticket-reservation/internal/model"
    "github.com/iliyamo/match-ticket-reservation/internal/service"
    "github.com/iliyamo/match-ticket-reservation/internal/utils"
)

const testSecret = "handler-secret"

var (
    spectator = model.Principal{AccountID: 5, Role: model.RoleSpectator}
    manager   = model.Principal{AccountID: 9, Role: model.RoleManager}
    admin     = model.Principal{AccountID: 1, Role: model.RoleAdmin}
)

func newEcho() *echo.Echo {
    e := echo.New()
    e.Validator = NewValidator()
    return e
}

func authed() echo.MiddlewareFunc { return middleware.JWTAuth(testSecret) }

// call performs a request as p (anonymous when p is nil).
func call(t *testing.T, e *echo.Echo, method, path, body string, p *model.Principal) *httptest.ResponseRecorder {
    t.Helper()
    var r io.Reader
    if body != "" {
        r = strings.NewReader(body)
    }
    req := httptest.NewRequest(method, path, r)
    if body != "" {
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    if p != nil {
        at, err := utils.NewAccessToken(testSecret, p.AccountID, p.Role, 5)
        require.NoError(t, err)
        req.Header.Set("Authorization", "Bearer "+at.Token)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func jsonMessage(msg string) string {
    b, _ := json.Marshal(map[string]string{"message": msg})
    return string(b)
}

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Login(ctx context.Context, email, password string) (*service.Session, error) {
    args := m.Called(ctx, email, password)
    s, _ := args.Get(0).(*service.Session)
    return s, args.Error(1)
}

func (m *mockAuth) Refresh(ctx context.Context, raw string) (*service.Session, error) {
    args := m.Called(ctx, raw)
    s, _ := args.Get(0).(*service.Session)
    return s, args.Error(1)
}

func (m *mockAuth) Logout(ctx context.Context, raw string, caller *model.Principal) error {
    return m.Called(ctx, raw, caller).Error(0)
}

type mockAccounts struct{ mock.Mock }

func (m *mockAccounts) Register(ctx context.Context, in model.Registration) (*model.Account, error) {
    args := m.Called(ctx, in)
    a, _ := args.Get(0).(*model.Account)
    return a, args.Error(1)
}

func (m *mockAccounts) List(ctx context.Context, p model.Principal) ([]model.Account, error) {
    args := m.Called(ctx, p)
    l, _ := args.Get(0).([]model.Account)
    return l, args.Error(1)
}

func (m *mockAccounts) Get(ctx context.Context, p model.Principal, id uint64) (*model.Account, error) {
    args := m.Called(ctx, p, id)
    a, _ := args.Get(0).(*model.Account)
    return a, args.Error(1)
}

func (m *mockAccounts) Create(ctx context.Context, p model.Principal, in model.AccountInput) (*model.Account, error) {
    args := m.Called(ctx, p, in)
    a, _ := args.Get(0).(*model.Account)
    return a, args.Error(1)
}

func (m *mockAccounts) Update(ctx context.Context, p model.Principal, id uint64, in model.AccountInput) (*model.Account, error) {
    args := m.Called(ctx, p, id, in)
    a, _ := args.Get(0).(*model.Account)
    return a, args.Error(1)
}

func (m *mockAccounts) Delete(ctx context.Context, p model.Principal, id uint64) error {
    return m.Called(ctx, p, id).Error(0)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) Create(ctx context.Context, p model.Principal, in model.ProgrammeInput) (*model.Programme, error) {
    args := m.Called(ctx, p, in)
    g, _ := args.Get(0).(*model.Programme)
    return g, args.Error(1)
}

func (m *mockCatalog) ListMine(ctx context.Context, p model.Principal) ([]model.Programme, error) {
    args := m.Called(ctx, p)
    l, _ := args.Get(0).([]model.Programme)
    return l, args.Error(1)
}

func (m *mockCatalog) Update(ctx context.Context, p model.Principal, id uint64, in model.ProgrammeInput) (*model.Programme, error) {
    args := m.Called(ctx, p, id, in)
    g, _ := args.Get(0).(*model.Programme)
    return g, args.Error(1)
}

func (m *mockCatalog) Delete(ctx context.Context, p model.Principal, id uint64) error {
    return m.Called(ctx, p, id).Error(0)
}

func (m *mockCatalog) ListUpcoming(ctx context.Context) ([]model.Programme, error) {
    args := m.Called(ctx)
    l, _ := args.Get(0).([]model.Programme)
    return l, args.Error(1)
}

type mockReservations struct{ mock.Mock }

func (m *mockReservations) Create(ctx context.Context, p model.Principal, in service.ReservationInput) (*model.ReservationDetail, error) {
    args := m.Called(ctx, p, in)
    d, _ := args.Get(0).(*model.ReservationDetail)
    return d, args.Error(1)
}

func (m *mockReservations) ListMine(ctx context.Context, p model.Principal) ([]model.ReservationDetail, error) {
    args := m.Called(ctx, p)
    l, _ := args.Get(0).([]model.ReservationDetail)
    return l, args.Error(1)
}

func (m *mockReservations) ListAll(ctx context.Context, p model.Principal) ([]model.ReservationDetail, error) {
    args := m.Called(ctx, p)
    l, _ := args.Get(0).([]model.ReservationDetail)
    return l, args.Error(1)
}

type mockPayments struct{ mock.Mock }

func (m *mockPayments) Process(ctx context.Context, p model.Principal, in service.ProcessInput) (*model.Payment, error) {
    args := m.Called(ctx, p, in)
    pay, _ := args.Get(0).(*model.Payment)
    return pay, args.Error(1)
}

func (m *mockPayments) Status(ctx context.Context, p model.Principal, reservationID uint64) (*model.ReservationDetail, error) {
    args := m.Called(ctx, p, reservationID)
    d, _ := args.Get(0).(*model.ReservationDetail)
    return d, args.Error(1)
}

type mockStats struct{ mock.Mock }

func (m *mockStats) Dashboard(ctx context.Context, p model.Principal) (model.Stats, error) {
    args := m.Called(ctx, p)
    return args.Get(0).(model.Stats), args.Error(1)
}
