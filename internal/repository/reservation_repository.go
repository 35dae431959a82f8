package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/match-ticket-reservation/internal/model"
)

// ReservationRepo stores reservations and reads them back joined with their
// programme, payment and spectator.  All timestamps are UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const (
	insertReservationQ = `INSERT INTO reservations (spectator_id, programme_id, ticket_count, tier, created_at) VALUES (?, ?, ?, ?, ?)`
	insertPaymentQ     = `INSERT INTO payments (reservation_id, amount, status, method, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`

	reservationDetailSelect = `SELECT r.id, r.spectator_id, r.programme_id, r.ticket_count, r.tier, r.created_at,
	g.id, g.home_team, g.away_team, g.stadium, g.starts_at, g.division, g.price_a, g.price_b, g.owner_id, g.created_at, g.updated_at,
	p.id, p.reservation_id, p.amount, p.status, p.method, p.paid_at, p.created_at, p.updated_at,
	a.id, a.name, a.email
	FROM reservations r
	JOIN programmes g ON g.id = r.programme_id
	JOIN accounts a ON a.id = r.spectator_id
	LEFT JOIN payments p ON p.reservation_id = r.id`

	selectReservationDetailQ = reservationDetailSelect + ` WHERE r.id = ?`
	listSpectatorDetailsQ    = reservationDetailSelect + ` WHERE r.spectator_id = ? ORDER BY r.created_at DESC, r.id DESC`
	listAllDetailsQ          = reservationDetailSelect + ` ORDER BY r.created_at DESC, r.id DESC`
)

// CreateWithPayment inserts the reservation and its pending payment in one
// transaction and assigns both generated IDs.  Callers set CreatedAt on both
// records.
func (r *ReservationRepo) CreateWithPayment(ctx context.Context, res *model.Reservation, pay *model.Payment) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, insertReservationQ,
			res.SpectatorID, res.ProgrammeID, res.TicketCount, string(res.Tier), res.CreatedAt)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		res.ID = uint64(id)
		pay.ReservationID = res.ID

		result, err = tx.ExecContext(ctx, insertPaymentQ,
			pay.ReservationID, pay.Amount, string(pay.Status), string(pay.Method), pay.CreatedAt, pay.CreatedAt)
		if err != nil {
			return err
		}
		if id, err = result.LastInsertId(); err != nil {
			return err
		}
		pay.ID = uint64(id)
		pay.UpdatedAt = pay.CreatedAt
		return nil
	})
}

func scanReservationDetail(s scanner) (model.ReservationDetail, error) {
	var (
		d       model.ReservationDetail
		tier    string
		spec    model.SpectatorSummary
		payID   sql.NullInt64
		payRes  sql.NullInt64
		amount  sql.NullFloat64
		status  sql.NullString
		method  sql.NullString
		paidAt  sql.NullTime
		created sql.NullTime
		updated sql.NullTime
	)
	g := &d.Programme
	err := s.Scan(
		&d.ID, &d.SpectatorID, &d.ProgrammeID, &d.TicketCount, &tier, &d.CreatedAt,
		&g.ID, &g.HomeTeam, &g.AwayTeam, &g.Stadium, &g.Date, &g.Division, &g.PriceA, &g.PriceB, &g.OwnerID, &g.CreatedAt, &g.UpdatedAt,
		&payID, &payRes, &amount, &status, &method, &paidAt, &created, &updated,
		&spec.ID, &spec.Name, &spec.Email,
	)
	if err != nil {
		return d, err
	}
	d.Tier = model.Tier(tier)
	d.Spectator = &spec
	if payID.Valid {
		p := &model.Payment{
			ID:            uint64(payID.Int64),
			ReservationID: uint64(payRes.Int64),
			Amount:        amount.Float64,
			Status:        model.PaymentStatus(status.String),
			Method:        model.PaymentMethod(method.String),
			CreatedAt:     created.Time,
			UpdatedAt:     updated.Time,
		}
		if paidAt.Valid {
			t := paidAt.Time
			p.PaidAt = &t
		}
		d.Payment = p
	}
	return d, nil
}

func (r *ReservationRepo) listDetails(ctx context.Context, q string, args ...any) ([]model.ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ReservationDetail{}
	for rows.Next() {
		d, err := scanReservationDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDetail loads reservation id with its programme, payment and spectator.
func (r *ReservationRepo) GetDetail(ctx context.Context, id uint64) (*model.ReservationDetail, error) {
	d, err := scanReservationDetail(r.db.QueryRowContext(ctx, selectReservationDetailQ, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListBySpectator returns the reservations of one spectator, newest first.
func (r *ReservationRepo) ListBySpectator(ctx context.Context, spectatorID uint64) ([]model.ReservationDetail, error) {
	return r.listDetails(ctx, listSpectatorDetailsQ, spectatorID)
}

// ListAll returns every reservation, newest first.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.ReservationDetail, error) {
	return r.listDetails(ctx, listAllDetailsQ)
}
