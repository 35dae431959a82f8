// Package payment defines the client side of a payment provider.  The
// lifecycle in the service layer only talks to Gateway, so the simulated
// provider below can be swapped for a real integration.
package payment

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/match-ticket-reservation/internal/model"
)

// ErrInvalidDetails is returned by Authorize when the method data fails
// validation.  No amount is held in that case.
var ErrInvalidDetails = errors.New("invalid payment details")

// ErrUnsupportedMethod is returned for a method the provider does not offer.
var ErrUnsupportedMethod = errors.New("unsupported payment method")

// AuthorizeRequest asks the provider to hold Amount on the payer's account.
type AuthorizeRequest struct {
	ReservationID uint64
	Amount        float64
	Method        model.PaymentMethod
	Details       model.PaymentDetails
}

// Authorization is the provider's answer to an AuthorizeRequest.  A
// declined authorization is not an error: Approved is false and Reason
// says why.
type Authorization struct {
	Reference string
	Method    model.PaymentMethod
	Amount    float64
	Approved  bool
	Reason    string
}

// CaptureResult reports the settlement of an approved authorization.
type CaptureResult struct {
	Reference  string
	Captured   bool
	CapturedAt time.Time
}

// Gateway is a two-step payment provider.
type Gateway interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (Authorization, error)
	Capture(ctx context.Context, auth Authorization) (CaptureResult, error)
}
