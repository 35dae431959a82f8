package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/match-ticket-reservation/internal/model"
	"github.com/iliyamo/match-ticket-reservation/internal/repository"
	"github.com/iliyamo/match-ticket-reservation/internal/service/ports"
	"github.com/iliyamo/match-ticket-reservation/internal/utils"
)

// AuthConfig holds the token settings.
type AuthConfig struct {
	Secret         string
	AccessTTLMin   int
	RefreshTTLDays int
}

// Session is an issued token pair.
type Session struct {
	Account *model.Account
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// AuthService signs accounts in and manages refresh tokens.  Only the hash
// of a refresh token is stored.
type AuthService struct {
	cfg      AuthConfig
	accounts ports.AccountRepo
	tokens   ports.TokenRepo
}

func NewAuthService(cfg AuthConfig, accounts ports.AccountRepo, tokens ports.TokenRepo) *AuthService {
	return &AuthService{cfg: cfg, accounts: accounts, tokens: tokens}
}

func (s *AuthService) issue(ctx context.Context, a *model.Account) (*Session, error) {
	access, err := utils.NewAccessToken(s.cfg.Secret, a.ID, a.Role, s.cfg.AccessTTLMin)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.tokens.StoreRefresh(ctx, a.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &Session{Account: a, Access: access, Refresh: refresh}, nil
}

// Login checks the credentials and issues a new token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, invalid("email and password are required")
	}
	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	if !utils.VerifyPassword(a.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, a)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*Session, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, invalid("refresh_token is required")
	}
	hash := utils.HashRefreshRaw(raw)
	accountID, err := s.tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("validate refresh token: %w", err)
	}
	if err := s.tokens.RevokeByHash(ctx, hash); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	a, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	return s.issue(ctx, a)
}

// Logout revokes the given refresh token, or every token of the caller
// when no token is given.
func (s *AuthService) Logout(ctx context.Context, raw string, caller *model.Principal) error {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		hash := utils.HashRefreshRaw(raw)
		if _, err := s.tokens.ValidateRefresh(ctx, hash); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUnauthorized
			}
			return fmt.Errorf("validate refresh token: %w", err)
		}
		return s.tokens.RevokeByHash(ctx, hash)
	}
	if caller == nil || caller.AccountID == 0 {
		return invalid("provide Authorization header or refresh_token")
	}
	return s.tokens.RevokeAllForAccount(ctx, caller.AccountID)
}
