package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type WalletTransactionType string

const (
	WalletTxPromoCredit  WalletTransactionType = "PROMO_CREDIT"
	WalletTxBookingDebit WalletTransactionType = "BOOKING_DEBIT"
	WalletTxRefundCredit WalletTransactionType = "REFUND_CREDIT"
	WalletTxAdjustment   WalletTransactionType = "ADJUSTMENT"
)

// WalletTransaction is one row in the renter's credit ledger. Balance is
// always SUM(amount); positive rows are credits, negative are debits.
type WalletTransaction struct {
	ID               int32                 `json:"id"`
	UserID           int32                 `json:"user_id"`
	Amount           decimal.Decimal       `json:"amount"`
	Type             WalletTransactionType `json:"type"`
	RelatedBookingID *int32                `json:"related_booking_id,omitempty"`
	Description      string                `json:"description"`
	CreatedOn        time.Time             `json:"created_on"`
}
