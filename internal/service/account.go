package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iliyamo/match-ticket-reservation/internal/model"
	"github.com/iliyamo/match-ticket-reservation/internal/repository"
	"github.com/iliyamo/match-ticket-reservation/internal/service/ports"
	"github.com/iliyamo/match-ticket-reservation/internal/utils"
)

// AccountService handles public sign-up and the administrators' account
// management.
type AccountService struct {
	accounts   ports.AccountRepo
	bcryptCost int
	log        *slog.Logger
}

func NewAccountService(accounts ports.AccountRepo, bcryptCost int, log *slog.Logger) *AccountService {
	return &AccountService{accounts: accounts, bcryptCost: bcryptCost, log: log}
}

func displayName(name, first, last string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

func mapAccountErr(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		return ErrEmailExists
	case errors.Is(err, repository.ErrNotFound):
		return ErrAccountNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *AccountService) hash(plain string) (string, error) {
	h, err := utils.HashPassword(plain, s.bcryptCost)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return "", invalid("password is too long")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

// Register creates a SPECTATOR account.  When no display name is given it
// defaults to "<first name> <last name>".
func (s *AccountService) Register(ctx context.Context, in model.Registration) (*model.Account, error) {
	email := repository.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, invalid("email and password are required")
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	profile := in.Profile
	a := &model.Account{
		Email:        email,
		PasswordHash: hash,
		Name:         displayName(in.Name, profile.FirstName, profile.LastName),
		Role:         model.RoleSpectator,
		Spectator:    &profile,
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, mapAccountErr(err, "register")
	}
	s.log.Info("account registered", slog.Uint64("account_id", a.ID))
	return a, nil
}

// buildAccount shapes an admin payload into an Account.  The role selects
// which profile is kept; the other one is dropped.
func buildAccount(in model.AccountInput) (*model.Account, error) {
	email := repository.NormalizeEmail(in.Email)
	if email == "" {
		return nil, invalid("email is required")
	}
	role, ok := model.ParseRole(string(in.Role))
	if !ok {
		return nil, invalid("unknown role %q", in.Role)
	}
	a := &model.Account{Email: email, Role: role}
	if role == model.RoleSpectator {
		sp := model.SpectatorProfile{}
		if in.Spectator != nil {
			sp = *in.Spectator
		}
		a.Spectator = &sp
		a.Name = displayName(in.Name, sp.FirstName, sp.LastName)
	} else {
		ag := model.AgentProfile{}
		if in.Agent != nil {
			ag = *in.Agent
		}
		a.Agent = &ag
		a.Name = displayName(in.Name, ag.FirstName, ag.LastName)
	}
	return a, nil
}

// List returns every account, newest first.
func (s *AccountService) List(ctx context.Context, p model.Principal) ([]model.Account, error) {
	if !p.Can(model.Administrators) {
		return nil, ErrUnauthorized
	}
	return s.accounts.List(ctx)
}

// Get returns one account for an administrator.
func (s *AccountService) Get(ctx context.Context, p model.Principal, id uint64) (*model.Account, error) {
	if !p.Can(model.Administrators) {
		return nil, ErrUnauthorized
	}
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, mapAccountErr(err, "get account")
	}
	return a, nil
}

func (s *AccountService) Create(ctx context.Context, p model.Principal, in model.AccountInput) (*model.Account, error) {
	if !p.Can(model.Administrators) {
		return nil, ErrUnauthorized
	}
	a, err := buildAccount(in)
	if err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, invalid("password is required")
	}
	if a.PasswordHash, err = s.hash(in.Password); err != nil {
		return nil, err
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, mapAccountErr(err, "create account")
	}
	s.log.Info("account created", slog.Uint64("account_id", a.ID), slog.String("role", string(a.Role)), slog.Uint64("by", p.AccountID))
	return a, nil
}

// Update overwrites the account.  The password is rehashed only when a new
// one is supplied.
func (s *AccountService) Update(ctx context.Context, p model.Principal, id uint64, in model.AccountInput) (*model.Account, error) {
	if !p.Can(model.Administrators) {
		return nil, ErrUnauthorized
	}
	a, err := buildAccount(in)
	if err != nil {
		return nil, err
	}
	a.ID = id
	var hash string
	if in.Password != "" {
		if hash, err = s.hash(in.Password); err != nil {
			return nil, err
		}
	}
	updated, err := s.accounts.Update(ctx, a, hash)
	if err != nil {
		return nil, mapAccountErr(err, "update account")
	}
	return updated, nil
}

// Delete removes the account with its reservations, the programmes it owns
// and everything hanging off them.
func (s *AccountService) Delete(ctx context.Context, p model.Principal, id uint64) error {
	if !p.Can(model.Administrators) {
		return ErrUnauthorized
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return mapAccountErr(err, "delete account")
	}
	s.log.Info("account deleted", slog.Uint64("account_id", id), slog.Uint64("by", p.AccountID))
	return nil
}
