package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iliyamo/match-ticket-reservation/internal/metrics"
	"github.com/iliyamo/match-ticket-reservation/internal/model"
	"github.com/iliyamo/match-ticket-reservation/internal/repository"
	"github.com/iliyamo/match-ticket-reservation/internal/service/ports"
)

// ReservationService prices and records reservations.  Every reservation is
// created together with a PENDING payment for its full amount.
type ReservationService struct {
	programmes   ports.ProgrammeRepo
	reservations ports.ReservationRepo
	log          *slog.Logger
	now          func() time.Time
}

func NewReservationService(programmes ports.ProgrammeRepo, reservations ports.ReservationRepo, log *slog.Logger) *ReservationService {
	return &ReservationService{programmes: programmes, reservations: reservations, log: log, now: time.Now}
}

// ReservationInput is a reservation request.  Tier is free text; anything
// other than PREMIUM or VIP is treated as STANDARD.
type ReservationInput struct {
	ProgrammeID uint64
	TicketCount uint32
	Tier        string
}

// Create reserves TicketCount tickets of the requested tier.  Any
// authenticated role may reserve, and neither the programme date nor a
// previous reservation by the same spectator is checked.
func (s *ReservationService) Create(ctx context.Context, p model.Principal, in ReservationInput) (*model.ReservationDetail, error) {
	if !p.Can(model.AnyAuthenticated) {
		return nil, ErrUnauthorized
	}
	if in.TicketCount < 1 {
		return nil, invalid("ticket_count must be at least 1")
	}
	prog, err := s.programmes.GetByID(ctx, in.ProgrammeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgrammeNotFound
		}
		return nil, fmt.Errorf("load programme %d: %w", in.ProgrammeID, err)
	}

	tier := model.ParseTier(in.Tier)
	now := s.now().UTC().Truncate(time.Second)
	res := &model.Reservation{
		SpectatorID: p.AccountID,
		ProgrammeID: prog.ID,
		TicketCount: in.TicketCount,
		Tier:        tier,
		CreatedAt:   now,
	}
	pay := &model.Payment{
		Amount:    tier.Total(*prog, in.TicketCount),
		Status:    model.PaymentPending,
		Method:    model.MethodMobileMoney, // placeholder until processed
		CreatedAt: now,
	}
	if err := s.reservations.CreateWithPayment(ctx, res, pay); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	metrics.ReservationsCreated.WithLabelValues(string(tier)).Inc()
	metrics.TicketsReserved.WithLabelValues(string(tier)).Add(float64(in.TicketCount))
	s.log.Info("reservation created",
		slog.Uint64("reservation_id", res.ID),
		slog.Uint64("programme_id", prog.ID),
		slog.Uint64("spectator_id", p.AccountID),
		slog.String("tier", string(tier)),
		slog.Float64("amount", pay.Amount))

	return &model.ReservationDetail{Reservation: *res, Programme: *prog, Payment: pay}, nil
}

// ListMine returns the caller's reservations with programme and payment,
// newest first.
func (s *ReservationService) ListMine(ctx context.Context, p model.Principal) ([]model.ReservationDetail, error) {
	if !p.Can(model.AnyAuthenticated) {
		return nil, ErrUnauthorized
	}
	list, err := s.reservations.ListBySpectator(ctx, p.AccountID)
	if err != nil {
		return nil, err
	}
	// the caller already knows who they are
	for i := range list {
		list[i].Spectator = nil
	}
	return list, nil
}

// ListAll is the staff view of every reservation.
func (s *ReservationService) ListAll(ctx context.Context, p model.Principal) ([]model.ReservationDetail, error) {
	if !p.Can(model.PaymentAuditors) {
		return nil, ErrUnauthorized
	}
	return s.reservations.ListAll(ctx)
}
