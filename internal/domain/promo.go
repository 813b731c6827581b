package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "PERCENTAGE"
	DiscountTypeFixedAmount DiscountType = "FIXED_AMOUNT"
	DiscountTypeCredit      DiscountType = "CREDIT"
)

// PromoCode is matched case-insensitively on Code. CurrentUses only ever
// moves through the guarded increment in the promo repository so the
// MaxUses cap holds across service instances.
type PromoCode struct {
	ID             int32            `json:"id"`
	Code           string           `json:"code"`
	DiscountType   DiscountType     `json:"discount_type"`
	DiscountValue  decimal.Decimal  `json:"discount_value"`
	MinOrderAmount decimal.Decimal  `json:"min_order_amount"`
	MaxDiscount    *decimal.Decimal `json:"max_discount,omitempty"`
	MaxUses        *int32           `json:"max_uses,omitempty"`
	CurrentUses    int32            `json:"current_uses"`
	MaxUsesPerUser int32            `json:"max_uses_per_user"`
	StartsAt       time.Time        `json:"starts_at"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	IsActive       bool             `json:"is_active"`
	CreatedOn      time.Time        `json:"created_on"`
	UpdatedOn      time.Time        `json:"updated_on"`
}

// PromoRedemption rows are append-only. Per-user usage counts are
// recomputed from these rows, independent of PromoCode.CurrentUses.
type PromoRedemption struct {
	ID          int32     `json:"id"`
	PromoCodeID int32     `json:"promo_code_id"`
	UserID      int32     `json:"user_id"`
	BookingID   int32     `json:"booking_id"`
	RedeemedOn  time.Time `json:"redeemed_on"`
}
