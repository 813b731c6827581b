package pricing

import (
	"testing"

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

func testItem() *domain.InventoryItem {
	weekly := dec("300.00")
	return &domain.InventoryItem{
		ID:            1,
		Name:          "Cinema camera kit",
		DailyRate:     dec("50.00"),
		WeeklyRate:    &weekly,
		DamageDeposit: dec("200.00"),
		QuantityTotal: 3,
		IsActive:      true,
	}
}

func TestResolveRate(t *testing.T) {
	item := testItem()

	t.Run("ShortRentalUsesDailyRate", func(t *testing.T) {
		rq := ResolveRate(item, 6)
		assert.Equal(t, BillingUnitDaily, rq.BillingUnit)
		assert.True(t, rq.UnitRate.Equal(dec("50.00")))
	})

	t.Run("WeekOrLongerProrates", func(t *testing.T) {
		rq := ResolveRate(item, 7)
		assert.Equal(t, BillingUnitWeeklyProrated, rq.BillingUnit)
		// 300/7 stays unrounded inside the quote; a full week multiplies
		// back out to the weekly rate once rounded at the money boundary.
		assert.Equal(t, "42.86", RoundMoney(rq.UnitRate).StringFixed(2))
		assert.Equal(t, "300.00", RoundMoney(rq.UnitRate.Mul(decimal.NewFromInt(7))).StringFixed(2))
	})

	t.Run("NoWeeklyRateConfigured", func(t *testing.T) {
		bare := &domain.InventoryItem{DailyRate: dec("50.00")}
		rq := ResolveRate(bare, 14)
		assert.Equal(t, BillingUnitDaily, rq.BillingUnit)
	})

	t.Run("WeeklyRateThatIsNoBargain", func(t *testing.T) {
		pricey := dec("420.00") // 60/day prorated, worse than 50/day
		it := &domain.InventoryItem{DailyRate: dec("50.00"), WeeklyRate: &pricey}
		rq := ResolveRate(it, 10)
		assert.Equal(t, BillingUnitDaily, rq.BillingUnit)
		assert.True(t, rq.UnitRate.Equal(dec("50.00")))
	})
}

func TestComputeSubtotal(t *testing.T) {
	item := testItem()

	t.Run("TenDaysAtWeekly300", func(t *testing.T) {
		// 300/7 * 10 = 428.5714..., rounded once at the subtotal.
		_, subtotal := ComputeSubtotal(item, 10, 1)
		assert.True(t, subtotal.Equal(dec("428.57")), "got %s", subtotal)
	})

	t.Run("QuantityMultiplies", func(t *testing.T) {
		_, subtotal := ComputeSubtotal(item, 3, 2)
		assert.True(t, subtotal.Equal(dec("300.00")), "got %s", subtotal)
	})
}

func TestBuildBreakdown(t *testing.T) {
	item := testItem()
	taxRate := dec("0.08")

	t.Run("PlainDailyRental", func(t *testing.T) {
		rq, subtotal := ComputeSubtotal(item, 3, 1)
		bd := BuildBreakdown(item, 3, 1, rq, subtotal, decimal.Zero, decimal.Zero, decimal.Zero, taxRate)
		assert.True(t, bd.Subtotal.Equal(dec("150.00")))
		assert.True(t, bd.Tax.Equal(dec("12.00")))
		assert.True(t, bd.DamageDeposit.Equal(dec("200.00")))
		// Deposit is itemized, never part of the total.
		assert.True(t, bd.TotalAmount.Equal(dec("162.00")), "got %s", bd.TotalAmount)
	})

	t.Run("DiscountShrinksTaxBase", func(t *testing.T) {
		rq, subtotal := ComputeSubtotal(item, 3, 1)
		bd := BuildBreakdown(item, 3, 1, rq, subtotal, dec("50.00"), decimal.Zero, decimal.Zero, taxRate)
		assert.True(t, bd.TaxableBase.Equal(dec("100.00")))
		assert.True(t, bd.Tax.Equal(dec("8.00")))
		assert.True(t, bd.TotalAmount.Equal(dec("108.00")))
	})

	t.Run("DiscountLargerThanSubtotal", func(t *testing.T) {
		rq, subtotal := ComputeSubtotal(item, 1, 1)
		bd := BuildBreakdown(item, 1, 1, rq, subtotal, dec("75.00"), decimal.Zero, decimal.Zero, taxRate)
		assert.True(t, bd.TaxableBase.IsZero())
		assert.True(t, bd.Tax.IsZero())
		assert.True(t, bd.TotalAmount.IsZero())
	})

	t.Run("WalletCreditClampedToOwed", func(t *testing.T) {
		rq, subtotal := ComputeSubtotal(item, 3, 1)
		bd := BuildBreakdown(item, 3, 1, rq, subtotal, decimal.Zero, decimal.Zero, dec("500.00"), taxRate)
		require.True(t, bd.WalletCreditApplied.Equal(dec("162.00")), "got %s", bd.WalletCreditApplied)
		assert.True(t, bd.TotalAmount.IsZero())
	})

	t.Run("DepositScalesWithQuantity", func(t *testing.T) {
		rq, subtotal := ComputeSubtotal(item, 2, 3)
		bd := BuildBreakdown(item, 2, 3, rq, subtotal, decimal.Zero, decimal.Zero, decimal.Zero, taxRate)
		assert.True(t, bd.DamageDeposit.Equal(dec("600.00")))
	})

	t.Run("WalletGrantDoesNotReduceTotal", func(t *testing.T) {
		rq, subtotal := ComputeSubtotal(item, 3, 1)
		bd := BuildBreakdown(item, 3, 1, rq, subtotal, decimal.Zero, dec("25.00"), decimal.Zero, taxRate)
		assert.True(t, bd.WalletGrant.Equal(dec("25.00")))
		assert.True(t, bd.TotalAmount.Equal(dec("162.00")))
	})
}

func TestRoundMoney(t *testing.T) {
	assert.True(t, RoundMoney(dec("1.005")).Equal(dec("1.01")))
	assert.True(t, RoundMoney(dec("1.004")).Equal(dec("1.00")))
	assert.True(t, RoundMoney(dec("428.5714285714")).Equal(dec("428.57")))
}
