package pricing

import (
	"github.com/shopspring/decimal"

	"gearbook-backend/internal/domain"
)

const (
	BillingUnitDaily          = "daily"
	BillingUnitWeeklyProrated = "weekly_prorated"
)

var seven = decimal.NewFromInt(7)

// RateQuote is the resolved per-day rate for a rental of a given length.
// UnitRate is deliberately left unrounded; rounding happens once the
// subtotal is formed, so a 10-day rental at weekly 300 comes out 428.57
// and not 428.60.
type RateQuote struct {
	UnitRate    decimal.Decimal
	BillingUnit string
}

// ResolveRate picks the effective daily rate for a rental of days days.
// The weekly rate only prorates the daily price when the rental spans at
// least a week and the prorated figure is actually cheaper; billing is
// always per day times total days, never rounded to week boundaries.
func ResolveRate(item *domain.InventoryItem, days int) RateQuote {
	rq := RateQuote{UnitRate: item.DailyRate, BillingUnit: BillingUnitDaily}
	if days < 7 || item.WeeklyRate == nil || !item.WeeklyRate.IsPositive() {
		return rq
	}
	prorated := item.WeeklyRate.Div(seven)
	if prorated.LessThan(item.DailyRate) {
		rq.UnitRate = prorated
		rq.BillingUnit = BillingUnitWeeklyProrated
	}
	return rq
}
