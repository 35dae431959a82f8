package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/match-ticket-reservation/internal/model"
)

// AccountRepo persists accounts together with their role-specific profile.
// Both profile shapes live in nullable columns of the same table.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

const accountColumns = `id, email, password_hash, name, role,
	spectator_last_name, spectator_first_name, spectator_city, spectator_phone,
	agent_last_name, agent_first_name, agent_department, created_at, updated_at`

const (
	insertAccountQ = `INSERT INTO accounts (email, password_hash, name, role,
	spectator_last_name, spectator_first_name, spectator_city, spectator_phone,
	agent_last_name, agent_first_name, agent_department) VALUES (?,?,?,?,?,?,?,?,?,?,?)`
	insertAccountIfAbsentQ = insertAccountQ + ` ON DUPLICATE KEY UPDATE id = id`
	selectAccountByIDQ     = `SELECT ` + accountColumns + ` FROM accounts WHERE id = ? LIMIT 1`
	selectAccountByEmailQ  = `SELECT ` + accountColumns + ` FROM accounts WHERE email = ? LIMIT 1`
	listAccountsQ          = `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC, id DESC`
	updateAccountQ         = `UPDATE accounts SET email = ?, name = ?, role = ?,
	spectator_last_name = ?, spectator_first_name = ?, spectator_city = ?, spectator_phone = ?,
	agent_last_name = ?, agent_first_name = ?, agent_department = ? WHERE id = ?`
	updateAccountPasswordQ = `UPDATE accounts SET password_hash = ? WHERE id = ?`
	lockAccountQ           = `SELECT id FROM accounts WHERE id = ? FOR UPDATE`

	deleteSpectatorPaymentsQ     = `DELETE p FROM payments p JOIN reservations r ON r.id = p.reservation_id WHERE r.spectator_id = ?`
	deleteSpectatorReservationsQ = `DELETE FROM reservations WHERE spectator_id = ?`
	deleteOwnedPaymentsQ         = `DELETE p FROM payments p JOIN reservations r ON r.id = p.reservation_id JOIN programmes g ON g.id = r.programme_id WHERE g.owner_id = ?`
	deleteOwnedReservationsQ     = `DELETE r FROM reservations r JOIN programmes g ON g.id = r.programme_id WHERE g.owner_id = ?`
	deleteOwnedProgrammesQ       = `DELETE FROM programmes WHERE owner_id = ?`
	deleteAccountTokensQ         = `DELETE FROM refresh_tokens WHERE account_id = ?`
	deleteAccountQ               = `DELETE FROM accounts WHERE id = ?`
)

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func profileArgs(a *model.Account) []any {
	var sp model.SpectatorProfile
	var ag model.AgentProfile
	if a.Spectator != nil {
		sp = *a.Spectator
	}
	if a.Agent != nil {
		ag = *a.Agent
	}
	return []any{
		nullString(sp.LastName), nullString(sp.FirstName), nullString(sp.City), nullString(sp.Phone),
		nullString(ag.LastName), nullString(ag.FirstName), nullString(ag.Department),
	}
}

func scanAccount(s scanner) (model.Account, error) {
	var (
		a                          model.Account
		role                       string
		spLast, spFirst, spCity    sql.NullString
		spPhone                    sql.NullString
		agLast, agFirst, agService sql.NullString
	)
	err := s.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &role,
		&spLast, &spFirst, &spCity, &spPhone,
		&agLast, &agFirst, &agService, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return a, err
	}
	a.Role = model.Role(role)
	if a.Role == model.RoleSpectator {
		a.Spectator = &model.SpectatorProfile{
			LastName: spLast.String, FirstName: spFirst.String, City: spCity.String, Phone: spPhone.String,
		}
	} else if agLast.Valid || agFirst.Valid || agService.Valid {
		a.Agent = &model.AgentProfile{
			LastName: agLast.String, FirstName: agFirst.String, Department: agService.String,
		}
	}
	return a, nil
}

// Create inserts a and assigns the generated ID.  The email must already be
// normalized and PasswordHash already computed.
func (r *AccountRepo) Create(ctx context.Context, a *model.Account) error {
	args := append([]any{a.Email, a.PasswordHash, a.Name, string(a.Role)}, profileArgs(a)...)
	res, err := r.DB.ExecContext(ctx, insertAccountQ, args...)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// CreateIfAbsent inserts a unless an account with the same email exists.
// It reports whether a row was inserted.
func (r *AccountRepo) CreateIfAbsent(ctx context.Context, a *model.Account) (bool, error) {
	args := append([]any{a.Email, a.PasswordHash, a.Name, string(a.Role)}, profileArgs(a)...)
	res, err := r.DB.ExecContext(ctx, insertAccountIfAbsentQ, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// GetByEmail fetches an account by normalized email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	a, err := scanAccount(r.DB.QueryRowContext(ctx, selectAccountByEmailQ, NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (*model.Account, error) {
	a, err := scanAccount(r.DB.QueryRowContext(ctx, selectAccountByIDQ, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns every account, newest first.
func (r *AccountRepo) List(ctx context.Context) ([]model.Account, error) {
	rows, err := r.DB.QueryContext(ctx, listAccountsQ)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update overwrites the identity and profile columns of account a.ID.  The
// password hash is replaced only when passwordHash is non-empty.  Both
// statements run in one transaction.
func (r *AccountRepo) Update(ctx context.Context, a *model.Account, passwordHash string) (*model.Account, error) {
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		var id uint64
		if err := tx.QueryRowContext(ctx, lockAccountQ, a.ID).Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		args := append([]any{a.Email, a.Name, string(a.Role)}, profileArgs(a)...)
		args = append(args, a.ID)
		if _, err := tx.ExecContext(ctx, updateAccountQ, args...); err != nil {
			if isDuplicate(err) {
				return ErrEmailExists
			}
			return err
		}
		if passwordHash != "" {
			if _, err := tx.ExecContext(ctx, updateAccountPasswordQ, passwordHash, a.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, a.ID)
}

// Delete removes the account and everything that depends on it: payments and
// reservations it made, programmes it owns together with their reservations
// and payments, and its refresh tokens.  The cascade runs in a single
// transaction.  ErrNotFound is returned when the account does not exist.
func (r *AccountRepo) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		var locked uint64
		if err := tx.QueryRowContext(ctx, lockAccountQ, id).Scan(&locked); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		for _, q := range []string{
			deleteSpectatorPaymentsQ,
			deleteSpectatorReservationsQ,
			deleteOwnedPaymentsQ,
			deleteOwnedReservationsQ,
			deleteOwnedProgrammesQ,
			deleteAccountTokensQ,
			deleteAccountQ,
		} {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return err
			}
		}
		return nil
	})
}
