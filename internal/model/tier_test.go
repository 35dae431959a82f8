package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTier_UnitPrice(t *testing.T) {
	p := Programme{PriceA: 10000, PriceB: 6000}

	assert.Equal(t, 6000.0, TierStandard.UnitPrice(p))
	assert.Equal(t, 10000.0, TierPremium.UnitPrice(p))
	assert.Equal(t, 15000.0, TierVIP.UnitPrice(p))
}

func TestTier_Total(t *testing.T) {
	p := Programme{PriceA: 10000, PriceB: 6000}

	for _, count := range []uint32{1, 2, 7, 10, 250} {
		assert.Equal(t, p.PriceB*float64(count), TierStandard.Total(p, count))
		assert.Equal(t, p.PriceA*float64(count), TierPremium.Total(p, count))
		assert.Equal(t, p.PriceA*1.5*float64(count), TierVIP.Total(p, count))
	}
}

func TestTier_VIPTwoTickets(t *testing.T) {
	p := Programme{PriceA: 10000, PriceB: 6000}
	assert.Equal(t, 30000.0, TierVIP.Total(p, 2))
}

func TestTier_VIPNotRoundedBeforeMultiplying(t *testing.T) {
	p := Programme{PriceA: 3, PriceB: 1}
	assert.Equal(t, 4.5, TierVIP.UnitPrice(p))
	assert.Equal(t, 13.5, TierVIP.Total(p, 3))
}

func TestParseTier(t *testing.T) {
	assert.Equal(t, TierVIP, ParseTier("vip"))
	assert.Equal(t, TierPremium, ParseTier(" PREMIUM "))
	assert.Equal(t, TierStandard, ParseTier("STANDARD"))
	assert.Equal(t, TierStandard, ParseTier(""))
	assert.Equal(t, TierStandard, ParseTier("GOLD"))
}
