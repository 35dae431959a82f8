package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// TokenRepo stores refresh tokens by hash; the plain token never reaches
// the database.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

const (
	insertRefreshQ   = `INSERT INTO refresh_tokens (account_id, token_hash, expires_at) VALUES (?,?,?)`
	selectRefreshQ   = `SELECT account_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = ? LIMIT 1`
	revokeRefreshQ   = `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE token_hash = ? AND revoked_at IS NULL`
	revokeAllTokensQ = `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE account_id = ? AND revoked_at IS NULL`
)

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, accountID uint64, tokenHash string, exp time.Time) error {
	if _, err := r.DB.ExecContext(ctx, insertRefreshQ, accountID, tokenHash, exp); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// ValidateRefresh returns the account id if a non-revoked, non-expired token
// exists.  Any other outcome is ErrNotFound.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		accountID uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, selectRefreshQ, tokenHash).Scan(&accountID, &expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("load refresh token: %w", err)
	}
	if revokedAt.Valid || time.Now().UTC().After(expiresAt) {
		return 0, ErrNotFound
	}
	return accountID, nil
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	if _, err := r.DB.ExecContext(ctx, revokeRefreshQ, tokenHash); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAllForAccount revokes every active token of the account.
func (r *TokenRepo) RevokeAllForAccount(ctx context.Context, accountID uint64) error {
	if _, err := r.DB.ExecContext(ctx, revokeAllTokensQ, accountID); err != nil {
		return fmt.Errorf("revoke tokens of account %d: %w", accountID, err)
	}
	return nil
}
