// Package repository contains data access logic for programmes.  A
// Programme is a scheduled match owned by the manager who created it.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/match-ticket-reservation/internal/model"
)

// ProgrammeRepo manages persistence for programmes.
type ProgrammeRepo struct {
	db *sql.DB
}

// NewProgrammeRepo constructs a ProgrammeRepo with the given DB handle.
func NewProgrammeRepo(db *sql.DB) *ProgrammeRepo {
	return &ProgrammeRepo{db: db}
}

const programmeColumns = `id, home_team, away_team, stadium, starts_at, division, price_a, price_b, owner_id, created_at, updated_at`

const (
	insertProgrammeQ             = `INSERT INTO programmes (home_team, away_team, stadium, starts_at, division, price_a, price_b, owner_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	selectProgrammeQ             = `SELECT ` + programmeColumns + ` FROM programmes WHERE id = ?`
	selectOwnedProgrammeQ        = `SELECT ` + programmeColumns + ` FROM programmes WHERE id = ? AND owner_id = ?`
	listOwnedProgrammesQ         = `SELECT ` + programmeColumns + ` FROM programmes WHERE owner_id = ? ORDER BY starts_at DESC, id DESC`
	listUpcomingQ                = `SELECT ` + programmeColumns + ` FROM programmes WHERE starts_at >= ? ORDER BY starts_at ASC, id ASC`
	updateProgrammeQ             = `UPDATE programmes SET home_team = ?, away_team = ?, stadium = ?, starts_at = ?, division = ?, price_a = ?, price_b = ? WHERE id = ?`
	updateOwnedProgrammeQ        = updateProgrammeQ + ` AND owner_id = ?`
	lockProgrammeOwnerQ          = `SELECT owner_id FROM programmes WHERE id = ? FOR UPDATE`
	deleteProgrammePaymentsQ     = `DELETE p FROM payments p JOIN reservations r ON r.id = p.reservation_id WHERE r.programme_id = ?`
	deleteProgrammeReservationsQ = `DELETE FROM reservations WHERE programme_id = ?`
	deleteProgrammeQ             = `DELETE FROM programmes WHERE id = ?`
)

func scanProgramme(s scanner) (model.Programme, error) {
	var p model.Programme
	err := s.Scan(&p.ID, &p.HomeTeam, &p.AwayTeam, &p.Stadium, &p.Date, &p.Division,
		&p.PriceA, &p.PriceB, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *ProgrammeRepo) list(ctx context.Context, q string, args ...any) ([]model.Programme, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.Programme{}
	for rows.Next() {
		p, err := scanProgramme(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a new programme owned by ownerID and returns the stored row
// including DB defaults.
func (r *ProgrammeRepo) Create(ctx context.Context, ownerID uint64, in model.ProgrammeInput) (*model.Programme, error) {
	res, err := r.db.ExecContext(ctx, insertProgrammeQ,
		in.HomeTeam, in.AwayTeam, in.Stadium, in.Date.UTC(), in.Division, in.PriceA, in.PriceB, ownerID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID retrieves a programme by its ID.  It returns ErrNotFound if there
// is no matching row.
func (r *ProgrammeRepo) GetByID(ctx context.Context, id uint64) (*model.Programme, error) {
	p, err := scanProgramme(r.db.QueryRowContext(ctx, selectProgrammeQ, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByOwner returns the programmes created by ownerID, latest date first.
func (r *ProgrammeRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Programme, error) {
	return r.list(ctx, listOwnedProgrammesQ, ownerID)
}

// ListUpcoming returns every programme dated at or after now, soonest first.
func (r *ProgrammeRepo) ListUpcoming(ctx context.Context, now time.Time) ([]model.Programme, error) {
	return r.list(ctx, listUpcomingQ, now.UTC())
}

// Update overwrites the editable fields of programme id.  When ownerID is
// non-nil the row must belong to that owner.  A missing row and a row owned
// by someone else both yield ErrNotFound.
func (r *ProgrammeRepo) Update(ctx context.Context, id uint64, ownerID *uint64, in model.ProgrammeInput) (*model.Programme, error) {
	args := []any{in.HomeTeam, in.AwayTeam, in.Stadium, in.Date.UTC(), in.Division, in.PriceA, in.PriceB, id}
	q, sel := updateProgrammeQ, selectProgrammeQ
	selArgs := []any{id}
	if ownerID != nil {
		q, sel = updateOwnedProgrammeQ, selectOwnedProgrammeQ
		args = append(args, *ownerID)
		selArgs = append(selArgs, *ownerID)
	}
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	// MySQL reports changed rows, not matched rows, so existence is checked
	// with a read rather than RowsAffected.
	p, err := scanProgramme(r.db.QueryRowContext(ctx, sel, selArgs...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Delete removes programme id together with the payments and reservations
// that reference it, in one transaction.  When ownerID is non-nil the
// programme must belong to that owner; otherwise ErrNotFound is returned and
// nothing is deleted.
func (r *ProgrammeRepo) Delete(ctx context.Context, id uint64, ownerID *uint64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var dbOwnerID uint64
		if err := tx.QueryRowContext(ctx, lockProgrammeOwnerQ, id).Scan(&dbOwnerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if ownerID != nil && dbOwnerID != *ownerID {
			return ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, deleteProgrammePaymentsQ, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, deleteProgrammeReservationsQ, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, deleteProgrammeQ, id)
		return err
	})
}
