package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/match-ticket-reservation/internal/config"
	"github.com/iliyamo/match-ticket-reservation/internal/handler"
	"github.com/iliyamo/match-ticket-reservation/internal/middleware"
	"github.com/iliyamo/match-ticket-reservation/internal/model"
)

// clockCatalog lists the programmes starting at or after now.
type clockCatalog struct {
	handler.CatalogAPI
	now        time.Time
	programmes []model.Programme
}

func (c *clockCatalog) ListUpcoming(context.Context) ([]model.Programme, error) {
	var out []model.Programme
	for _, p := range c.programmes {
		if !p.Date.Before(c.now) {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestPublicListingDropsStartedProgrammeFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	now := time.Now()
	catalog := &clockCatalog{
		now:        now,
		programmes: []model.Programme{{ID: 1, HomeTeam: "TP Mazembe", AwayTeam: "AS Vita", Date: now.Add(10 * time.Second)}},
	}
	cfg := config.CacheConfig{Enabled: true, Methods: "GET", TTL: 30 * time.Second, Prefix: "cache", MaxBodyBytes: 1 << 20}

	e := echo.New()
	RegisterPublic(e, handler.NewPublicHandler(catalog), middleware.NewRedisCache(cfg, rdb))

	list := func() ([]model.Programme, string) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/programmes", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var got []model.Programme
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		return got, rec.Header().Get("X-Cache")
	}

	got, state := list()
	assert.Len(t, got, 1)
	assert.Equal(t, "MISS", state)
	got, state = list()
	assert.Len(t, got, 1)
	assert.Equal(t, "HIT", state)

	// kickoff passes well within the configured cache TTL
	catalog.now = now.Add(20 * time.Second)
	mr.FastForward(20 * time.Second)

	got, state = list()
	assert.Empty(t, got)
	assert.Equal(t, "MISS", state)
}
