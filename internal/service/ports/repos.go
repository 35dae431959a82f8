package ports

import (
	"context"
	"time"

	"github.com/iliyamo/match-ticket-reservation/internal/model"
)

type AccountRepo interface {
	Create(ctx context.Context, a *model.Account) error
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByID(ctx context.Context, id uint64) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	Update(ctx context.Context, a *model.Account, passwordHash string) (*model.Account, error)
	Delete(ctx context.Context, id uint64) error
}

type TokenRepo interface {
	StoreRefresh(ctx context.Context, accountID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForAccount(ctx context.Context, accountID uint64) error
}

type ProgrammeRepo interface {
	Create(ctx context.Context, ownerID uint64, in model.ProgrammeInput) (*model.Programme, error)
	GetByID(ctx context.Context, id uint64) (*model.Programme, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.Programme, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]model.Programme, error)
	Update(ctx context.Context, id uint64, ownerID *uint64, in model.ProgrammeInput) (*model.Programme, error)
	Delete(ctx context.Context, id uint64, ownerID *uint64) error
}

type ReservationRepo interface {
	CreateWithPayment(ctx context.Context, r *model.Reservation, p *model.Payment) error
	GetDetail(ctx context.Context, id uint64) (*model.ReservationDetail, error)
	ListBySpectator(ctx context.Context, spectatorID uint64) ([]model.ReservationDetail, error)
	ListAll(ctx context.Context) ([]model.ReservationDetail, error)
}

type PaymentRepo interface {
	MarkCompleted(ctx context.Context, id uint64, method model.PaymentMethod, paidAt time.Time) error
	MarkFailed(ctx context.Context, id uint64) error
}

type StatsRepo interface {
	Stats(ctx context.Context, since time.Time) (model.Stats, error)
}
