package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "PENDING"
	PaymentStatusPaid          PaymentStatus = "PAID"
	PaymentStatusRefunded      PaymentStatus = "REFUNDED"
	PaymentStatusPartialRefund PaymentStatus = "PARTIAL_REFUND"
)

// PaymentMethod is recorded explicitly at settlement time. A zero-total
// booking settled by a credit promo must stay distinguishable from a
// pending booking that simply has not been charged yet.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodWallet PaymentMethod = "WALLET"
	PaymentMethodPromo  PaymentMethod = "PROMO"
	PaymentMethodNone   PaymentMethod = "NONE"
)

type BookingEvent string

const (
	EventPaymentCaptured BookingEvent = "payment_captured"
	EventPickup          BookingEvent = "pickup"
	EventReturn          BookingEvent = "return"
	EventCancel          BookingEvent = "cancel"
)

// bookingTransitions is the single source of truth for legal lifecycle
// moves. A (status, event) pair absent from the table is illegal.
var bookingTransitions = map[BookingStatus]map[BookingEvent]BookingStatus{
	BookingStatusPending: {
		EventPaymentCaptured: BookingStatusConfirmed,
		EventCancel:          BookingStatusCancelled,
	},
	BookingStatusConfirmed: {
		EventPickup: BookingStatusActive,
		EventCancel: BookingStatusCancelled,
	},
	BookingStatusActive: {
		EventReturn: BookingStatusCompleted,
	},
}

// NextStatus resolves the status a booking moves to when event fires.
// Illegal pairs return a *TransitionError and leave nothing mutated.
func NextStatus(from BookingStatus, event BookingEvent) (BookingStatus, error) {
	if to, ok := bookingTransitions[from][event]; ok {
		return to, nil
	}
	return "", &TransitionError{From: from, Event: event}
}

// HoldsInventory reports whether a booking in this status still blocks
// stock. Cancelled and completed bookings release their units simply by
// falling out of this set.
func (s BookingStatus) HoldsInventory() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusActive:
		return true
	}
	return false
}

// Booking carries an immutable pricing snapshot captured at confirmation
// time. All settlement math uses the snapshot, not live item rates; only
// an explicit extend replaces it.
type Booking struct {
	ID        int32         `json:"id"`
	Reference string        `json:"reference"`
	ItemID    int32         `json:"item_id"`
	RenterID  int32         `json:"renter_id"`
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
	Quantity  int32         `json:"quantity"`
	Status    BookingStatus `json:"status"`

	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentMethod PaymentMethod `json:"payment_method"`

	DailyRateUsed       decimal.Decimal `json:"daily_rate_used"`
	BillingUnit         string          `json:"billing_unit"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	DiscountAmount      decimal.Decimal `json:"discount_amount"`
	Tax                 decimal.Decimal `json:"tax"`
	DamageDeposit       decimal.Decimal `json:"damage_deposit"`
	WalletCreditApplied decimal.Decimal `json:"wallet_credit_applied"`
	TotalAmount         decimal.Decimal `json:"total_amount"`

	PromoCodeID *int32 `json:"promo_code_id,omitempty"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy *int32     `json:"cancelled_by,omitempty"`
	ExtendedAt  *time.Time `json:"extended_at,omitempty"`
	ExtendedBy  *int32     `json:"extended_by,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}
