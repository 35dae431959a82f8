package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/match-ticket-reservation/internal/model"
)

func TestMonthStart(t *testing.T) {
	kin := time.FixedZone("WAT", 3600)
	got := monthStart(time.Date(2026, 3, 17, 22, 45, 3, 9, kin))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, kin), got)
	assert.Equal(t, kin, got.Location())
}

func TestStatsService_Dashboard(t *testing.T) {
	repo := &mockStats{}
	svc := NewStatsService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 17, 10, 0, 0, 0, time.UTC) }

	want := model.Stats{TotalAccounts: 3, TotalRevenue: 1500}
	repo.On("Stats", mock.Anything, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)).Return(want, nil)

	got, err := svc.Dashboard(context.Background(), manager)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// the dashboard belongs to managers only
	_, err = svc.Dashboard(context.Background(), admin)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
