package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/match-ticket-reservation/internal/model"
)

// StatsRepo computes dashboard aggregates in a single round trip.
type StatsRepo struct {
	db *sql.DB
}

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

const statsQ = `SELECT
	(SELECT COUNT(*) FROM accounts),
	(SELECT COUNT(*) FROM accounts WHERE role = 'SPECTATOR'),
	(SELECT COUNT(*) FROM accounts WHERE role = 'MANAGER'),
	(SELECT COUNT(*) FROM accounts WHERE role = 'ADMIN'),
	(SELECT COUNT(*) FROM programmes),
	(SELECT COUNT(*) FROM reservations),
	(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'COMPLETED'),
	(SELECT COUNT(*) FROM accounts WHERE created_at >= ?),
	(SELECT COUNT(*) FROM reservations WHERE created_at >= ?),
	(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'COMPLETED' AND paid_at >= ?)`

// Stats returns totals plus the deltas recorded at or after since.
func (r *StatsRepo) Stats(ctx context.Context, since time.Time) (model.Stats, error) {
	var s model.Stats
	since = since.UTC()
	err := r.db.QueryRowContext(ctx, statsQ, since, since, since).Scan(
		&s.TotalAccounts, &s.TotalSpectators, &s.TotalManagers, &s.TotalAdmins,
		&s.TotalProgrammes, &s.TotalReservations, &s.TotalRevenue,
		&s.RecentActivity.NewAccountsThisMonth,
		&s.RecentActivity.NewReservationsThisMonth,
		&s.RecentActivity.RevenueThisMonth,
	)
	return s, err
}
