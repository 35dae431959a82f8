package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound covers both missing rows and rows the caller does not own.
	ErrNotFound            = errors.New("not found")
	ErrProgrammeNotFound   = fmt.Errorf("programme %w", ErrNotFound)
	ErrReservationNotFound = fmt.Errorf("reservation %w", ErrNotFound)
	ErrAccountNotFound     = fmt.Errorf("account %w", ErrNotFound)

	ErrValidation            = errors.New("validation failed")
	ErrInvalidPaymentDetails = fmt.Errorf("payment details: %w", ErrValidation)

	ErrConflict          = errors.New("conflict")
	ErrEmailExists       = fmt.Errorf("email already exists: %w", ErrConflict)
	ErrAlreadyPaid       = fmt.Errorf("reservation already paid: %w", ErrConflict)
	ErrPaymentInProgress = fmt.Errorf("payment in progress: %w", ErrConflict)

	ErrNoPayment     = errors.New("no payment for reservation")
	ErrPaymentFailed = errors.New("payment failed")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
