package model

import "time"

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
    PaymentPending   PaymentStatus = "PENDING"
    PaymentCompleted PaymentStatus = "COMPLETED"
    PaymentFailed    PaymentStatus = "FAILED"
)

// PaymentMethod is the settlement channel.
type PaymentMethod string

const (
    MethodMobileMoney PaymentMethod = "MOBILE_MONEY"
    MethodCard        PaymentMethod = "CARD"
)

// ParsePaymentMethod reports whether s names a supported method.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
    switch m := PaymentMethod(s); m {
    case MethodMobileMoney, MethodCard:
        return m, true
    }
    return "", false
}

// Payment is the one-to-one settlement record of a reservation.  Amount is
// fixed at reservation time.  PaidAt is only set on completion.
type Payment struct {
    ID            uint64        `json:"id"`
    ReservationID uint64        `json:"reservation_id"`
    Amount        float64       `json:"amount"`
    Status        PaymentStatus `json:"status"`
    Method        PaymentMethod `json:"method"`
    PaidAt        *time.Time    `json:"paid_at"`
    CreatedAt     time.Time     `json:"created_at"`
    UpdatedAt     time.Time     `json:"updated_at"`
}

// PaymentDetails is the method-specific data supplied by the payer.
type PaymentDetails struct {
    PhoneNumber string `json:"phone_number"`
    CardNumber  string `json:"card_number"`
    ExpiryDate  string `json:"expiry_date"`
    CVV         string `json:"cvv"`
    CardName    string `json:"card_name"`
}
