package ports

import (
	"context"

	"github.com/iliyamo/match-ticket-reservation/internal/queue"
)

// PaymentNotifier delivers payment confirmations.  Delivery is best effort.
type PaymentNotifier interface {
	PaymentConfirmed(ctx context.Context, ev queue.PaymentConfirmedEvent) error
}
