package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/match-ticket-reservation/internal/model"
	"github.com/iliyamo/match-ticket-reservation/internal/service/ports"
)

type StatsService struct {
	repo ports.StatsRepo
	now  func() time.Time
}

func NewStatsService(repo ports.StatsRepo) *StatsService {
	return &StatsService{repo: repo, now: time.Now}
}

// monthStart is the first instant of t's calendar month in t's location.
func monthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// Dashboard returns the totals and the deltas since the start of the
// current month, server-local time.
func (s *StatsService) Dashboard(ctx context.Context, p model.Principal) (model.Stats, error) {
	if !p.Can(model.StatsReaders) {
		return model.Stats{}, ErrUnauthorized
	}
	st, err := s.repo.Stats(ctx, monthStart(s.now()))
	if err != nil {
		return model.Stats{}, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}
