package service

import (
	"context"

	"github.com/shopspring/decimal"

	"gearbook-backend/internal/domain"
	"gearbook-backend/internal/pricing"
)

// Actor identifies who is asking. Operators may act on any booking;
// renters only on their own.
type Actor struct {
	UserID   int32
	Operator bool
}

// QuoteRequest carries everything needed to price a prospective booking.
type QuoteRequest struct {
	ItemID       int32
	RenterID     int32
	StartDate    string
	EndDate      string
	Quantity     int32
	PromoCode    string
	WalletCredit decimal.Decimal
}

// ConfirmRequest commits a quote. RenterEmail, when present, receives a
// receipt after settlement.
type ConfirmRequest struct {
	QuoteRequest
	RenterEmail string
}

// ValidationResult is the caller-facing outcome of a promo check. An
// ineligible code is a Valid=false result with a reason, not an error.
type ValidationResult struct {
	Valid          bool               `json:"valid"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	WalletGrant    decimal.Decimal    `json:"wallet_grant"`
	Reason         domain.PromoReason `json:"reason,omitempty"`
}

type ReservationService interface {
	// Quote is read-only, side-effect-free and repeatable.
	Quote(ctx context.Context, req QuoteRequest) (*pricing.Breakdown, error)
	// ConfirmBooking re-validates availability inside the same atomic
	// unit that inserts the booking, then settles payment.
	ConfirmBooking(ctx context.Context, req ConfirmRequest) (*domain.Booking, error)
	GetBooking(ctx context.Context, actor Actor, bookingID int32) (*domain.Booking, error)
	ListBookings(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type LifecycleService interface {
	Transition(ctx context.Context, actor Actor, bookingID int32, event domain.BookingEvent) (*domain.Booking, error)
	ExtendBooking(ctx context.Context, actor Actor, bookingID int32, newEndDate string) (*domain.Booking, error)
}

type PromoService interface {
	ValidatePromo(ctx context.Context, code string, userID int32, orderSubtotal decimal.Decimal) (*ValidationResult, error)
	CreatePromo(ctx context.Context, pc *domain.PromoCode) error
	DeactivatePromo(ctx context.Context, id int32) error
}

type CatalogService interface {
	CreateItem(ctx context.Context, item *domain.InventoryItem) error
	UpdateItem(ctx context.Context, item *domain.InventoryItem) error
	GetItem(ctx context.Context, id int32) (*domain.InventoryItem, error)
	ListItems(ctx context.Context, activeOnly bool, page, pageSize int32) ([]domain.InventoryItem, int32, error)
	DeactivateItem(ctx context.Context, id int32) error
}

type WalletService interface {
	GetBalance(ctx context.Context, userID int32) (decimal.Decimal, error)
	ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error)
}

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, toEmail string, b *domain.Booking) error
	SendBookingCancellation(ctx context.Context, toEmail string, b *domain.Booking, refund decimal.Decimal) error
}

// Policy bundles the configured money and cancellation knobs the
// services share.
type Policy struct {
	TaxRate              decimal.Decimal
	TurnoverBufferDays   int
	FullRefundHours      int
	PartialRefundPercent int
}
