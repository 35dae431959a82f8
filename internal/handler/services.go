package handler

import (
    "context"

    "github.com/iliyamo/match-ticket-reservation/internal/model"
    "github.com/iliyamo/match-ticket-reservation/internal/service"
)

// The handlers depend on these narrow views of the service layer so they can
// be exercised with fakes.  The *service.XxxService types satisfy them.

type AuthAPI interface {
    Login(ctx context.Context, email, password string) (*service.Session, error)
    Refresh(ctx context.Context, raw string) (*service.Session, error)
    Logout(ctx context.Context, raw string, caller *model.Principal) error
}

type AccountAPI interface {
    Register(ctx context.Context, in model.Registration) (*model.Account, error)
    List(ctx context.Context, p model.Principal) ([]model.Account, error)
    Get(ctx context.Context, p model.Principal, id uint64) (*model.Account, error)
    Create(ctx context.Context, p model.Principal, in model.AccountInput) (*model.Account, error)
    Update(ctx context.Context, p model.Principal, id uint64, in model.AccountInput) (*model.Account, error)
    Delete(ctx context.Context, p model.Principal, id uint64) error
}

type CatalogAPI interface {
    Create(ctx context.Context, p model.Principal, in model.ProgrammeInput) (*model.Programme, error)
    ListMine(ctx context.Context, p model.Principal) ([]model.Programme, error)
    Update(ctx context.Context, p model.Principal, id uint64, in model.ProgrammeInput) (*model.Programme, error)
    Delete(ctx context.Context, p model.Principal, id uint64) error
    ListUpcoming(ctx context.Context) ([]model.Programme, error)
}

type ReservationAPI interface {
    Create(ctx context.Context, p model.Principal, in service.ReservationInput) (*model.ReservationDetail, error)
    ListMine(ctx context.Context, p model.Principal) ([]model.ReservationDetail, error)
    ListAll(ctx context.Context, p model.Principal) ([]model.ReservationDetail, error)
}

type PaymentAPI interface {
    Process(ctx context.Context, p model.Principal, in service.ProcessInput) (*model.Payment, error)
    Status(ctx context.Context, p model.Principal, reservationID uint64) (*model.ReservationDetail, error)
}

type StatsAPI interface {
    Dashboard(ctx context.Context, p model.Principal) (model.Stats, error)
}

var (
    _ AuthAPI        = (*service.AuthService)(nil)
    _ AccountAPI     = (*service.AccountService)(nil)
    _ CatalogAPI     = (*service.CatalogService)(nil)
    _ ReservationAPI = (*service.ReservationService)(nil)
    _ PaymentAPI     = (*service.PaymentService)(nil)
    _ StatsAPI       = (*service.StatsService)(nil)
)
