package payment

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/match-ticket-reservation/internal/config"
	"github.com/iliyamo/match-ticket-reservation/internal/model"
)

// congoleseMobile matches a DRC mobile number in international format.
var congoleseMobile = regexp.MustCompile(`^\+243\d{9}$`)

// SimulatedGateway stands in for a mobile money / card provider.  Each
// authorization waits Delay, validates the method data, then approves with
// probability 1 - failure rate of the method.
type SimulatedGateway struct {
	Delay               time.Duration
	MobileMoneyFailRate float64
	CardFailRate        float64

	// Rand returns a float in [0, 1).  Defaults to math/rand/v2.
	Rand func() float64
	Now  func() time.Time
}

// NewSimulatedGateway builds a gateway from the payment settings.
func NewSimulatedGateway(cfg config.PaymentConfig) *SimulatedGateway {
	return &SimulatedGateway{
		Delay:               cfg.GatewayDelay,
		MobileMoneyFailRate: cfg.MobileMoneyFailRate,
		CardFailRate:        cfg.CardFailRate,
		Rand:                rand.Float64,
		Now:                 time.Now,
	}
}

// ValidateDetails checks the method-specific data without contacting the
// provider.
func ValidateDetails(method model.PaymentMethod, d model.PaymentDetails) error {
	switch method {
	case model.MethodMobileMoney:
		if !congoleseMobile.MatchString(d.PhoneNumber) {
			return fmt.Errorf("%w: phone number must be +243 followed by 9 digits", ErrInvalidDetails)
		}
	case model.MethodCard:
		if blank(d.CardNumber) || blank(d.ExpiryDate) || blank(d.CVV) || blank(d.CardName) {
			return fmt.Errorf("%w: card number, expiry, cvv and cardholder name are required", ErrInvalidDetails)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func (g *SimulatedGateway) wait(ctx context.Context) error {
	if g.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(g.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (g *SimulatedGateway) roll() float64 {
	if g.Rand == nil {
		return rand.Float64()
	}
	return g.Rand()
}

func (g *SimulatedGateway) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

// Authorize waits for the simulated round trip, validates the details and
// rolls for approval.
func (g *SimulatedGateway) Authorize(ctx context.Context, req AuthorizeRequest) (Authorization, error) {
	if err := g.wait(ctx); err != nil {
		return Authorization{}, err
	}
	if err := ValidateDetails(req.Method, req.Details); err != nil {
		return Authorization{}, err
	}
	failRate := g.MobileMoneyFailRate
	if req.Method == model.MethodCard {
		failRate = g.CardFailRate
	}
	auth := Authorization{
		Reference: uuid.NewString(),
		Method:    req.Method,
		Amount:    req.Amount,
		Approved:  g.roll() >= failRate,
	}
	if !auth.Approved {
		auth.Reason = "declined by provider"
	}
	return auth, nil
}

// Capture settles an approved authorization.  The simulation never fails a
// capture; declined authorizations are refused.
func (g *SimulatedGateway) Capture(ctx context.Context, auth Authorization) (CaptureResult, error) {
	if err := ctx.Err(); err != nil {
		return CaptureResult{}, err
	}
	if !auth.Approved {
		return CaptureResult{Reference: auth.Reference}, nil
	}
	return CaptureResult{Reference: auth.Reference, Captured: true, CapturedAt: g.now().UTC()}, nil
}
