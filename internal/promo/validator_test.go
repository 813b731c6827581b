package promo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearbook-backend/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func i32(v int32) *int32 { return &v }

func activeCode(mutate func(*domain.PromoCode)) *domain.PromoCode {
	pc := &domain.PromoCode{
		ID:             7,
		Code:           "SUMMER10",
		DiscountType:   domain.DiscountTypePercentage,
		DiscountValue:  dec("10"),
		MinOrderAmount: decimal.Zero,
		MaxUsesPerUser: 1,
		StartsAt:       time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
	}
	if mutate != nil {
		mutate(pc)
	}
	return pc
}

var now = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

func reasonOf(t *testing.T, err error) domain.PromoReason {
	t.Helper()
	var pe *domain.PromoError
	require.ErrorAs(t, err, &pe)
	return pe.Reason
}

func TestValidate_Rejections(t *testing.T) {
	subtotal := dec("100.00")

	t.Run("Nil", func(t *testing.T) {
		_, err := Validate(nil, 0, now, subtotal)
		assert.Equal(t, domain.PromoReasonNotFound, reasonOf(t, err))
	})

	t.Run("Inactive", func(t *testing.T) {
		pc := activeCode(func(pc *domain.PromoCode) { pc.IsActive = false })
		_, err := Validate(pc, 0, now, subtotal)
		assert.Equal(t, domain.PromoReasonInactive, reasonOf(t, err))
	})

	t.Run("NotStarted", func(t *testing.T) {
		pc := activeCode(func(pc *domain.PromoCode) { pc.StartsAt = now.Add(time.Hour) })
		_, err := Validate(pc, 0, now, subtotal)
		assert.Equal(t, domain.PromoReasonNotStarted, reasonOf(t, err))
	})

	t.Run("Expired", func(t *testing.T) {
		expired := now.Add(-time.Hour)
		pc := activeCode(func(pc *domain.PromoCode) { pc.ExpiresAt = &expired })
		_, err := Validate(pc, 0, now, subtotal)
		assert.Equal(t, domain.PromoReasonExpired, reasonOf(t, err))
	})

	t.Run("BelowMinimum", func(t *testing.T) {
		pc := activeCode(func(pc *domain.PromoCode) { pc.MinOrderAmount = dec("150.00") })
		_, err := Validate(pc, 0, now, subtotal)
		assert.Equal(t, domain.PromoReasonBelowMinimum, reasonOf(t, err))
	})

	t.Run("MinimumMetExactly", func(t *testing.T) {
		pc := activeCode(func(pc *domain.PromoCode) { pc.MinOrderAmount = dec("100.00") })
		_, err := Validate(pc, 0, now, subtotal)
		assert.NoError(t, err)
	})

	t.Run("UsageExhausted", func(t *testing.T) {
		pc := activeCode(func(pc *domain.PromoCode) {
			pc.MaxUses = i32(50)
			pc.CurrentUses = 50
		})
		_, err := Validate(pc, 0, now, subtotal)
		assert.Equal(t, domain.PromoReasonUsageExhausted, reasonOf(t, err))
	})

	t.Run("PerUserExhausted", func(t *testing.T) {
		pc := activeCode(nil)
		_, err := Validate(pc, 1, now, subtotal)
		assert.Equal(t, domain.PromoReasonPerUserExhausted, reasonOf(t, err))
	})

	t.Run("InactiveWinsOverExpiry", func(t *testing.T) {
		// Checks short-circuit in order; the first failing rule names
		// the reason.
		expired := now.Add(-time.Hour)
		pc := activeCode(func(pc *domain.PromoCode) {
			pc.IsActive = false
			pc.ExpiresAt = &expired
		})
		_, err := Validate(pc, 0, now, subtotal)
		assert.Equal(t, domain.PromoReasonInactive, reasonOf(t, err))
	})
}

func TestValidate_DiscountMath(t *testing.T) {
	t.Run("Percentage", func(t *testing.T) {
		pc := activeCode(nil) // 10%
		res, err := Validate(pc, 0, now, dec("428.57"))
		require.NoError(t, err)
		assert.True(t, res.DiscountAmount.Equal(dec("42.86")), "got %s", res.DiscountAmount)
		assert.True(t, res.WalletGrant.IsZero())
	})

	t.Run("PercentageCappedByMaxDiscount", func(t *testing.T) {
		pc := activeCode(func(pc *domain.PromoCode) {
			pc.DiscountValue = dec("20")
			cap := dec("15.00")
			pc.MaxDiscount = &cap
		})
		res, err := Validate(pc, 0, now, dec("100.00"))
		require.NoError(t, err)
		assert.True(t, res.DiscountAmount.Equal(dec("15.00")), "got %s", res.DiscountAmount)
	})

	t.Run("FixedAmount", func(t *testing.T) {
		pc := activeCode(func(pc *domain.PromoCode) {
			pc.DiscountType = domain.DiscountTypeFixedAmount
			pc.DiscountValue = dec("25.00")
		})
		res, err := Validate(pc, 0, now, dec("100.00"))
		require.NoError(t, err)
		assert.True(t, res.DiscountAmount.Equal(dec("25.00")))
	})

	t.Run("FixedAmountClampedToSubtotal", func(t *testing.T) {
		pc := activeCode(func(pc *domain.PromoCode) {
			pc.DiscountType = domain.DiscountTypeFixedAmount
			pc.DiscountValue = dec("25.00")
		})
		res, err := Validate(pc, 0, now, dec("18.00"))
		require.NoError(t, err)
		assert.True(t, res.DiscountAmount.Equal(dec("18.00")))
	})

	t.Run("CreditGrantsWalletOnly", func(t *testing.T) {
		pc := activeCode(func(pc *domain.PromoCode) {
			pc.DiscountType = domain.DiscountTypeCredit
			pc.DiscountValue = dec("30.00")
		})
		res, err := Validate(pc, 0, now, dec("100.00"))
		require.NoError(t, err)
		assert.True(t, res.DiscountAmount.IsZero())
		assert.True(t, res.WalletGrant.Equal(dec("30.00")))
	})
}
