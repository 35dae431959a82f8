package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iliyamo/match-ticket-reservation/internal/model"
	"github.com/iliyamo/match-ticket-reservation/internal/repository"
	"github.com/iliyamo/match-ticket-reservation/internal/service/ports"
)

// CatalogService manages programmes.  Managers act on the programmes they
// own; administrators may act on any programme.
type CatalogService struct {
	repo ports.ProgrammeRepo
	log  *slog.Logger
	now  func() time.Time
}

func NewCatalogService(repo ports.ProgrammeRepo, log *slog.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log, now: time.Now}
}

func validateProgramme(in *model.ProgrammeInput) error {
	in.HomeTeam = strings.TrimSpace(in.HomeTeam)
	in.AwayTeam = strings.TrimSpace(in.AwayTeam)
	in.Stadium = strings.TrimSpace(in.Stadium)
	in.Division = strings.TrimSpace(in.Division)
	switch {
	case in.HomeTeam == "" || in.AwayTeam == "":
		return invalid("both team names are required")
	case in.Stadium == "":
		return invalid("stadium is required")
	case in.Date.IsZero():
		return invalid("date is required")
	case in.PriceA < 0 || in.PriceB < 0:
		return invalid("prices must not be negative")
	}
	return nil
}

// ownerScope returns the owner filter for p: nil for administrators.
func ownerScope(p model.Principal) *uint64 {
	if p.Role == model.RoleAdmin {
		return nil
	}
	id := p.AccountID
	return &id
}

func (s *CatalogService) Create(ctx context.Context, p model.Principal, in model.ProgrammeInput) (*model.Programme, error) {
	if !p.Can(model.CatalogEditors) {
		return nil, ErrUnauthorized
	}
	if err := validateProgramme(&in); err != nil {
		return nil, err
	}
	prog, err := s.repo.Create(ctx, p.AccountID, in)
	if err != nil {
		return nil, fmt.Errorf("create programme: %w", err)
	}
	s.log.Info("programme created", slog.Uint64("programme_id", prog.ID), slog.Uint64("owner_id", p.AccountID))
	return prog, nil
}

// ListMine returns the caller's programmes, latest date first.
func (s *CatalogService) ListMine(ctx context.Context, p model.Principal) ([]model.Programme, error) {
	if !p.Can(model.CatalogEditors) {
		return nil, ErrUnauthorized
	}
	return s.repo.ListByOwner(ctx, p.AccountID)
}

func (s *CatalogService) Update(ctx context.Context, p model.Principal, id uint64, in model.ProgrammeInput) (*model.Programme, error) {
	if !p.Can(model.CatalogEditors) {
		return nil, ErrUnauthorized
	}
	if err := validateProgramme(&in); err != nil {
		return nil, err
	}
	prog, err := s.repo.Update(ctx, id, ownerScope(p), in)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgrammeNotFound
		}
		return nil, fmt.Errorf("update programme %d: %w", id, err)
	}
	return prog, nil
}

// Delete removes the programme with its reservations and their payments.
func (s *CatalogService) Delete(ctx context.Context, p model.Principal, id uint64) error {
	if !p.Can(model.CatalogEditors) {
		return ErrUnauthorized
	}
	if err := s.repo.Delete(ctx, id, ownerScope(p)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgrammeNotFound
		}
		return fmt.Errorf("delete programme %d: %w", id, err)
	}
	s.log.Info("programme deleted", slog.Uint64("programme_id", id), slog.Uint64("by", p.AccountID))
	return nil
}

// ListUpcoming is the public listing: programmes dated now or later,
// soonest first.
func (s *CatalogService) ListUpcoming(ctx context.Context) ([]model.Programme, error) {
	return s.repo.ListUpcoming(ctx, s.now())
}
