package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/match-ticket-reservation/internal/model"
	"github.com/iliyamo/match-ticket-reservation/internal/payment"
	"github.com/iliyamo/match-ticket-reservation/internal/queue"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type mockAccounts struct{ mock.Mock }

func (m *mockAccounts) Create(ctx context.Context, a *model.Account) error {
	args := m.Called(ctx, a)
	if args.Error(0) == nil && a.ID == 0 {
		a.ID = 1
	}
	return args.Error(0)
}

func (m *mockAccounts) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	args := m.Called(ctx, email)
	a, _ := args.Get(0).(*model.Account)
	return a, args.Error(1)
}

func (m *mockAccounts) GetByID(ctx context.Context, id uint64) (*model.Account, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.Account)
	return a, args.Error(1)
}

func (m *mockAccounts) List(ctx context.Context) ([]model.Account, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]model.Account)
	return l, args.Error(1)
}

func (m *mockAccounts) Update(ctx context.Context, a *model.Account, passwordHash string) (*model.Account, error) {
	args := m.Called(ctx, a, passwordHash)
	out, _ := args.Get(0).(*model.Account)
	return out, args.Error(1)
}

func (m *mockAccounts) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) StoreRefresh(ctx context.Context, accountID uint64, tokenHash string, exp time.Time) error {
	return m.Called(ctx, accountID, tokenHash, exp).Error(0)
}

func (m *mockTokens) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockTokens) RevokeByHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *mockTokens) RevokeAllForAccount(ctx context.Context, accountID uint64) error {
	return m.Called(ctx, accountID).Error(0)
}

type mockProgrammes struct{ mock.Mock }

func (m *mockProgrammes) Create(ctx context.Context, ownerID uint64, in model.ProgrammeInput) (*model.Programme, error) {
	args := m.Called(ctx, ownerID, in)
	p, _ := args.Get(0).(*model.Programme)
	return p, args.Error(1)
}

func (m *mockProgrammes) GetByID(ctx context.Context, id uint64) (*model.Programme, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Programme)
	return p, args.Error(1)
}

func (m *mockProgrammes) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Programme, error) {
	args := m.Called(ctx, ownerID)
	l, _ := args.Get(0).([]model.Programme)
	return l, args.Error(1)
}

func (m *mockProgrammes) ListUpcoming(ctx context.Context, now time.Time) ([]model.Programme, error) {
	args := m.Called(ctx, now)
	l, _ := args.Get(0).([]model.Programme)
	return l, args.Error(1)
}

func (m *mockProgrammes) Update(ctx context.Context, id uint64, ownerID *uint64, in model.ProgrammeInput) (*model.Programme, error) {
	args := m.Called(ctx, id, ownerID, in)
	p, _ := args.Get(0).(*model.Programme)
	return p, args.Error(1)
}

func (m *mockProgrammes) Delete(ctx context.Context, id uint64, ownerID *uint64) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

type mockReservations struct{ mock.Mock }

func (m *mockReservations) CreateWithPayment(ctx context.Context, r *model.Reservation, p *model.Payment) error {
	args := m.Called(ctx, r, p)
	if args.Error(0) == nil {
		r.ID, p.ID, p.ReservationID = 100, 200, 100
	}
	return args.Error(0)
}

func (m *mockReservations) GetDetail(ctx context.Context, id uint64) (*model.ReservationDetail, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*model.ReservationDetail)
	return d, args.Error(1)
}

func (m *mockReservations) ListBySpectator(ctx context.Context, spectatorID uint64) ([]model.ReservationDetail, error) {
	args := m.Called(ctx, spectatorID)
	l, _ := args.Get(0).([]model.ReservationDetail)
	return l, args.Error(1)
}

func (m *mockReservations) ListAll(ctx context.Context) ([]model.ReservationDetail, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]model.ReservationDetail)
	return l, args.Error(1)
}

type mockPayments struct{ mock.Mock }

func (m *mockPayments) MarkCompleted(ctx context.Context, id uint64, method model.PaymentMethod, paidAt time.Time) error {
	return m.Called(ctx, id, method, paidAt).Error(0)
}

func (m *mockPayments) MarkFailed(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockStats struct{ mock.Mock }

func (m *mockStats) Stats(ctx context.Context, since time.Time) (model.Stats, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(model.Stats), args.Error(1)
}

type mockGateway struct{ mock.Mock }

func (m *mockGateway) Authorize(ctx context.Context, req payment.AuthorizeRequest) (payment.Authorization, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(payment.Authorization), args.Error(1)
}

func (m *mockGateway) Capture(ctx context.Context, auth payment.Authorization) (payment.CaptureResult, error) {
	args := m.Called(ctx, auth)
	return args.Get(0).(payment.CaptureResult), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) PaymentConfirmed(ctx context.Context, ev queue.PaymentConfirmedEvent) error {
	return m.Called(ctx, ev).Error(0)
}
