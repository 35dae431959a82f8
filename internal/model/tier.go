package model

import "strings"

// Tier is the ticket category chosen at reservation time.  It selects which
// programme price applies and whether the VIP multiplier is used.
type Tier string

const (
    TierStandard Tier = "STANDARD"
    TierPremium  Tier = "PREMIUM"
    TierVIP      Tier = "VIP"
)

// VIPMultiplier is applied to the premium price for VIP tickets.
const VIPMultiplier = 1.5

// ParseTier normalizes s.  Anything that is not PREMIUM or VIP falls back to
// STANDARD, matching the pricing path unknown tiers have always taken.
func ParseTier(s string) Tier {
    switch t := Tier(strings.ToUpper(strings.TrimSpace(s))); t {
    case TierPremium, TierVIP:
        return t
    }
    return TierStandard
}

// UnitPrice returns the price of a single ticket of tier t for programme p.
// No rounding is applied.
func (t Tier) UnitPrice(p Programme) float64 {
    switch t {
    case TierPremium:
        return p.PriceA
    case TierVIP:
        return p.PriceA * VIPMultiplier
    default:
        return p.PriceB
    }
}

// Total returns the amount due for count tickets of tier t.
func (t Tier) Total(p Programme, count uint32) float64 {
    return t.UnitPrice(p) * float64(count)
}
