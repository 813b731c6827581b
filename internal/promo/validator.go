// Package promo validates discount codes against their eligibility and
// usage-limit rules. Validation is pure: it works on an already-loaded
// code row plus the caller's redemption count, so a quote can run it any
// number of times without side effects. Consuming a use is the
// repository's job and happens only at booking confirmation.
package promo

import (
	"time"

	"github.com/shopspring/decimal"

	"gearbook-backend/internal/domain"
	"gearbook-backend/internal/pricing"
)

var hundred = decimal.NewFromInt(100)

// Result carries the outcome of a successful validation. Exactly one of
// DiscountAmount / WalletGrant is non-zero for a given discount type:
// credit-type codes reward the wallet and never touch the order total.
type Result struct {
	Promo          *domain.PromoCode
	DiscountAmount decimal.Decimal
	WalletGrant    decimal.Decimal
}

// Validate runs the eligibility checks in order, short-circuiting on the
// first failure with a *domain.PromoError naming the reason. userUses is
// the count of this user's redemption rows for the code.
func Validate(pc *domain.PromoCode, userUses int32, now time.Time, orderSubtotal decimal.Decimal) (Result, error) {
	if pc == nil {
		return Result{}, &domain.PromoError{Reason: domain.PromoReasonNotFound}
	}
	if !pc.IsActive {
		return Result{}, &domain.PromoError{Code: pc.Code, Reason: domain.PromoReasonInactive}
	}
	if now.Before(pc.StartsAt) {
		return Result{}, &domain.PromoError{Code: pc.Code, Reason: domain.PromoReasonNotStarted}
	}
	if pc.ExpiresAt != nil && now.After(*pc.ExpiresAt) {
		return Result{}, &domain.PromoError{Code: pc.Code, Reason: domain.PromoReasonExpired}
	}
	if orderSubtotal.LessThan(pc.MinOrderAmount) {
		return Result{}, &domain.PromoError{Code: pc.Code, Reason: domain.PromoReasonBelowMinimum}
	}
	if pc.MaxUses != nil && pc.CurrentUses >= *pc.MaxUses {
		return Result{}, &domain.PromoError{Code: pc.Code, Reason: domain.PromoReasonUsageExhausted}
	}
	if userUses >= pc.MaxUsesPerUser {
		return Result{}, &domain.PromoError{Code: pc.Code, Reason: domain.PromoReasonPerUserExhausted}
	}

	res := Result{Promo: pc}
	switch pc.DiscountType {
	case domain.DiscountTypeFixedAmount:
		res.DiscountAmount = pc.DiscountValue
		if res.DiscountAmount.GreaterThan(orderSubtotal) {
			res.DiscountAmount = orderSubtotal
		}
	case domain.DiscountTypePercentage:
		res.DiscountAmount = orderSubtotal.Mul(pc.DiscountValue).Div(hundred)
		if pc.MaxDiscount != nil && res.DiscountAmount.GreaterThan(*pc.MaxDiscount) {
			res.DiscountAmount = *pc.MaxDiscount
		}
	case domain.DiscountTypeCredit:
		res.WalletGrant = pc.DiscountValue
	}
	res.DiscountAmount = pricing.RoundMoney(res.DiscountAmount)
	res.WalletGrant = pricing.RoundMoney(res.WalletGrant)
	return res, nil
}
