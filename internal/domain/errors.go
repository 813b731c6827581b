package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientInventory means the requested quantity is not free
	// on every day of the requested range. Recoverable by the caller.
	ErrInsufficientInventory = errors.New("insufficient inventory for the requested dates")

	// ErrPaymentFailed is the capture result propagated from the payment
	// collaborator. The booking stays pending and keeps its hold until
	// the expiry sweep reclaims it.
	ErrPaymentFailed = errors.New("payment capture failed")

	// ErrInsufficientCredit means the wallet balance no longer covers
	// the credit a confirm wants to spend, e.g. a concurrent booking
	// got there first.
	ErrInsufficientCredit = errors.New("insufficient wallet credit")

	ErrNotFound        = errors.New("record not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrItemInactive    = errors.New("item is not open for booking")
	ErrUnauthorized    = errors.New("not allowed to act on this record")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// DateRangeError covers malformed or out-of-order date input.
type DateRangeError struct {
	Start  string
	End    string
	Reason string
}

func (e *DateRangeError) Error() string {
	return fmt.Sprintf("invalid date range %s..%s: %s", e.Start, e.End, e.Reason)
}

type PromoReason string

const (
	PromoReasonNotFound         PromoReason = "not_found"
	PromoReasonInactive         PromoReason = "inactive"
	PromoReasonNotStarted       PromoReason = "not_started"
	PromoReasonExpired          PromoReason = "expired"
	PromoReasonBelowMinimum     PromoReason = "below_minimum"
	PromoReasonUsageExhausted   PromoReason = "usage_exhausted"
	PromoReasonPerUserExhausted PromoReason = "per_user_exhausted"
)

// PromoError is always surfaced to the caller; an invalid code is never
// silently treated as "no discount".
type PromoError struct {
	Code   string
	Reason PromoReason
}

func (e *PromoError) Error() string {
	return fmt.Sprintf("promo code %q rejected: %s", e.Code, e.Reason)
}

// TransitionError indicates a caller/ordering bug, not a user mistake.
type TransitionError struct {
	From  BookingStatus
	Event BookingEvent
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %q is not legal from status %s", e.Event, e.From)
}
