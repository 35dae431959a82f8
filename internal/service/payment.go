package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/iliyamo/match-ticket-reservation/internal/lock"
	"github.com/iliyamo/match-ticket-reservation/internal/metrics"
	"github.com/iliyamo/match-ticket-reservation/internal/model"
	"github.com/iliyamo/match-ticket-reservation/internal/payment"
	"github.com/iliyamo/match-ticket-reservation/internal/queue"
	"github.com/iliyamo/match-ticket-reservation/internal/repository"
	"github.com/iliyamo/match-ticket-reservation/internal/service/ports"
)

const notifyTimeout = 10 * time.Second

// PaymentService drives the payment state machine:
//
//	PENDING --success--> COMPLETED
//	PENDING --failure--> FAILED --retry--> COMPLETED | FAILED
//
// COMPLETED is terminal.  Attempts on one reservation are serialized with a
// lease from Locker, and the final write is conditional so a completed
// payment is never overwritten.
type PaymentService struct {
	reservations ports.ReservationRepo
	payments     ports.PaymentRepo
	gateway      payment.Gateway
	locker       lock.Locker
	notifier     ports.PaymentNotifier
	lockTTL      time.Duration
	log          *slog.Logger
	now          func() time.Time

	pending sync.WaitGroup
}

func NewPaymentService(
	reservations ports.ReservationRepo,
	payments ports.PaymentRepo,
	gateway payment.Gateway,
	locker lock.Locker,
	notifier ports.PaymentNotifier,
	lockTTL time.Duration,
	log *slog.Logger,
) *PaymentService {
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &PaymentService{
		reservations: reservations,
		payments:     payments,
		gateway:      gateway,
		locker:       locker,
		notifier:     notifier,
		lockTTL:      lockTTL,
		log:          log,
		now:          time.Now,
	}
}

// ProcessInput is a payment attempt for one reservation.
type ProcessInput struct {
	ReservationID uint64
	Method        string
	Details       model.PaymentDetails
}

func (s *PaymentService) load(ctx context.Context, id uint64) (*model.ReservationDetail, error) {
	d, err := s.reservations.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("load reservation %d: %w", id, err)
	}
	return d, nil
}

// checkPayable applies the preconditions in order: ownership, presence of
// a payment, not already completed.
func checkPayable(p model.Principal, d *model.ReservationDetail) error {
	if d.SpectatorID != p.AccountID {
		return ErrUnauthorized
	}
	if d.Payment == nil {
		return ErrNoPayment
	}
	if d.Payment.Status == model.PaymentCompleted {
		return ErrAlreadyPaid
	}
	return nil
}

// Process runs one payment attempt.  On success the payment is COMPLETED
// with the method used and the payment time, and a confirmation is queued
// for the spectator.  On a declined or invalid attempt the payment is
// FAILED and ErrPaymentFailed or ErrInvalidPaymentDetails is returned.
func (s *PaymentService) Process(ctx context.Context, p model.Principal, in ProcessInput) (*model.Payment, error) {
	if !p.Can(model.AnyAuthenticated) {
		return nil, ErrUnauthorized
	}
	d, err := s.load(ctx, in.ReservationID)
	if err != nil {
		return nil, err
	}
	if err := checkPayable(p, d); err != nil {
		return nil, err
	}

	lease, err := s.locker.Acquire(ctx, "payment:reservation:"+strconv.FormatUint(d.ID, 10), s.lockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrHeld) {
			return nil, ErrPaymentInProgress
		}
		return nil, fmt.Errorf("acquire payment lock: %w", err)
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn("release payment lock", slog.Uint64("reservation_id", d.ID), slog.Any("error", err))
		}
	}()

	// re-read under the lease: a concurrent attempt may have just finished
	if d, err = s.load(ctx, in.ReservationID); err != nil {
		return nil, err
	}
	if err := checkPayable(p, d); err != nil {
		return nil, err
	}
	pay := *d.Payment

	method := model.PaymentMethod(in.Method)
	start := s.now()
	auth, err := s.gateway.Authorize(ctx, payment.AuthorizeRequest{
		ReservationID: d.ID,
		Amount:        pay.Amount,
		Method:        method,
		Details:       in.Details,
	})
	metrics.PaymentDuration.WithLabelValues(string(method)).Observe(s.now().Sub(start).Seconds())
	if err != nil {
		if errors.Is(err, payment.ErrInvalidDetails) || errors.Is(err, payment.ErrUnsupportedMethod) {
			if ferr := s.fail(ctx, &pay, method, "invalid"); ferr != nil {
				return nil, ferr
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidPaymentDetails, err)
		}
		return nil, fmt.Errorf("authorize payment %d: %w", pay.ID, err)
	}
	if !auth.Approved {
		if ferr := s.fail(ctx, &pay, method, "declined"); ferr != nil {
			return nil, ferr
		}
		return nil, ErrPaymentFailed
	}

	capture, err := s.gateway.Capture(ctx, auth)
	if err != nil {
		return nil, fmt.Errorf("capture payment %d: %w", pay.ID, err)
	}
	if !capture.Captured {
		if ferr := s.fail(ctx, &pay, method, "declined"); ferr != nil {
			return nil, ferr
		}
		return nil, ErrPaymentFailed
	}

	paidAt := capture.CapturedAt
	if paidAt.IsZero() {
		paidAt = s.now()
	}
	paidAt = paidAt.UTC().Truncate(time.Second)
	if err := s.payments.MarkCompleted(ctx, pay.ID, method, paidAt); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyPaid
		}
		return nil, fmt.Errorf("complete payment %d: %w", pay.ID, err)
	}
	pay.Status = model.PaymentCompleted
	pay.Method = method
	pay.PaidAt = &paidAt
	pay.UpdatedAt = paidAt

	metrics.PaymentsProcessed.WithLabelValues(string(method), "completed").Inc()
	s.log.Info("payment completed",
		slog.Uint64("payment_id", pay.ID),
		slog.Uint64("reservation_id", d.ID),
		slog.String("method", string(method)),
		slog.String("reference", auth.Reference),
		slog.Float64("amount", pay.Amount))

	s.notify(ctx, d, pay)
	return &pay, nil
}

// fail marks pay FAILED.  The stored method and payment time are left
// untouched; attempted is only reported.
func (s *PaymentService) fail(ctx context.Context, pay *model.Payment, attempted model.PaymentMethod, outcome string) error {
	if err := s.payments.MarkFailed(ctx, pay.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrAlreadyPaid
		}
		return fmt.Errorf("fail payment %d: %w", pay.ID, err)
	}
	pay.Status = model.PaymentFailed
	metrics.PaymentsProcessed.WithLabelValues(string(attempted), outcome).Inc()
	s.log.Info("payment failed",
		slog.Uint64("payment_id", pay.ID),
		slog.Uint64("reservation_id", pay.ReservationID),
		slog.String("method", string(attempted)),
		slog.String("outcome", outcome))
	return nil
}

// notify hands the confirmation to the notifier in the background.  The
// request does not wait for it and failures are only logged.
func (s *PaymentService) notify(ctx context.Context, d *model.ReservationDetail, pay model.Payment) {
	if s.notifier == nil {
		return
	}
	ev := queue.PaymentConfirmedEvent{
		ReservationID: d.ID,
		PaymentID:     pay.ID,
		SpectatorID:   d.SpectatorID,
		Match:         d.Programme.HomeTeam + " vs " + d.Programme.AwayTeam,
		Stadium:       d.Programme.Stadium,
		MatchDate:     d.Programme.Date,
		Tier:          string(d.Tier),
		TicketCount:   d.TicketCount,
		Amount:        pay.Amount,
		Method:        string(pay.Method),
		PaidAt:        *pay.PaidAt,
	}
	if d.Spectator != nil {
		ev.Email = d.Spectator.Email
	}

	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()
		if err := s.notifier.PaymentConfirmed(bg, ev); err != nil {
			metrics.NotificationsPublished.WithLabelValues("error").Inc()
			s.log.Warn("payment confirmation not sent",
				slog.Uint64("reservation_id", ev.ReservationID),
				slog.String("email", ev.Email),
				slog.Any("error", err))
			return
		}
		metrics.NotificationsPublished.WithLabelValues("ok").Inc()
	}()
}

// Wait blocks until every queued confirmation has been handed off.
func (s *PaymentService) Wait() { s.pending.Wait() }

// Status returns the reservation with its payment.  The owner and staff
// (MANAGER, ADMIN) may read it.
func (s *PaymentService) Status(ctx context.Context, p model.Principal, reservationID uint64) (*model.ReservationDetail, error) {
	if !p.Can(model.AnyAuthenticated) {
		return nil, ErrUnauthorized
	}
	d, err := s.load(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if d.SpectatorID != p.AccountID && !p.Can(model.PaymentAuditors) {
		return nil, ErrUnauthorized
	}
	return d, nil
}
