package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/match-ticket-reservation/internal/model"
)

// PaymentRepo applies payment status transitions.  Every transition is a
// conditional update that refuses to touch a COMPLETED row, so a payment
// that has been settled can never be reverted or re-settled.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const (
	completePaymentQ = `UPDATE payments SET status = 'COMPLETED', method = ?, paid_at = ? WHERE id = ? AND status <> 'COMPLETED'`
	failPaymentQ     = `UPDATE payments SET status = 'FAILED' WHERE id = ? AND status <> 'COMPLETED'`
	paymentStatusQ   = `SELECT status FROM payments WHERE id = ?`
)

// MarkCompleted settles payment id with the method actually used.  It
// returns ErrConflict when the payment is already COMPLETED.
func (r *PaymentRepo) MarkCompleted(ctx context.Context, id uint64, method model.PaymentMethod, paidAt time.Time) error {
	res, err := r.db.ExecContext(ctx, completePaymentQ, string(method), paidAt.UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// MarkFailed records a declined attempt.  Method and paid_at are left as
// they are.  It returns ErrConflict when the payment was completed in the
// meantime and ErrNotFound when it does not exist.
func (r *PaymentRepo) MarkFailed(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, failPaymentQ, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	// zero changed rows: already FAILED, COMPLETED, or missing
	var status string
	if err := r.db.QueryRowContext(ctx, paymentStatusQ, id).Scan(&status); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	if model.PaymentStatus(status) == model.PaymentCompleted {
		return ErrConflict
	}
	return nil
}
