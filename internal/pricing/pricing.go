package pricing

import (
	"github.com/shopspring/decimal"

	"gearbook-backend/internal/domain"
)

// Breakdown is the itemized money view of a prospective or confirmed
// booking. Every field that gets persisted or displayed is already
// rounded half-up to two places. DamageDeposit is itemized for
// transparency but never folded into TotalAmount; whether it is
// pre-authorized is the caller's product decision.
type Breakdown struct {
	Days     int   `json:"days"`
	Quantity int32 `json:"quantity"`

	DailyRateUsed decimal.Decimal `json:"daily_rate_used"`
	BillingUnit   string          `json:"billing_unit"`

	Subtotal            decimal.Decimal `json:"subtotal"`
	DiscountAmount      decimal.Decimal `json:"discount_amount"`
	TaxableBase         decimal.Decimal `json:"taxable_base"`
	Tax                 decimal.Decimal `json:"tax"`
	DamageDeposit       decimal.Decimal `json:"damage_deposit"`
	WalletCreditApplied decimal.Decimal `json:"wallet_credit_applied"`
	TotalAmount         decimal.Decimal `json:"total_amount"`

	// WalletGrant is the reward attached to a credit-type promo. It is
	// not a discount: it never reduces TotalAmount and is paid out to
	// the renter's wallet only after the booking settles.
	WalletGrant decimal.Decimal `json:"wallet_grant"`
}

// RoundMoney rounds half-up to two decimal places. decimal.Round is
// half-away-from-zero, which coincides with half-up for the non-negative
// amounts money fields carry here.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ComputeSubtotal resolves the rate and forms the rounded subtotal for
// days * quantity units.
func ComputeSubtotal(item *domain.InventoryItem, days int, quantity int32) (RateQuote, decimal.Decimal) {
	rq := ResolveRate(item, days)
	subtotal := RoundMoney(rq.UnitRate.
		Mul(decimal.NewFromInt(int64(days))).
		Mul(decimal.NewFromInt(int64(quantity))))
	return rq, subtotal
}

// BuildBreakdown assembles the full money view from a computed subtotal
// and a validated discount. Tax applies to the post-discount base, never
// the raw subtotal. walletCredit is clamped to [0, amount still owed].
func BuildBreakdown(item *domain.InventoryItem, days int, quantity int32,
	rq RateQuote, subtotal, discount, walletGrant, walletCredit, taxRate decimal.Decimal) Breakdown {

	discount = RoundMoney(discount)
	taxableBase := subtotal.Sub(discount)
	if taxableBase.IsNegative() {
		taxableBase = decimal.Zero
	}
	tax := RoundMoney(taxableBase.Mul(taxRate))
	deposit := RoundMoney(item.DamageDeposit.Mul(decimal.NewFromInt(int64(quantity))))

	owed := taxableBase.Add(tax)
	applied := RoundMoney(walletCredit)
	if applied.IsNegative() {
		applied = decimal.Zero
	}
	if applied.GreaterThan(owed) {
		applied = owed
	}

	total := owed.Sub(applied)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Breakdown{
		Days:                days,
		Quantity:            quantity,
		DailyRateUsed:       RoundMoney(rq.UnitRate),
		BillingUnit:         rq.BillingUnit,
		Subtotal:            subtotal,
		DiscountAmount:      discount,
		TaxableBase:         taxableBase,
		Tax:                 tax,
		DamageDeposit:       deposit,
		WalletCreditApplied: applied,
		TotalAmount:         total,
		WalletGrant:         RoundMoney(walletGrant),
	}
}
