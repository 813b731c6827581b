package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemCondition string

const (
	ItemConditionExcellent   ItemCondition = "EXCELLENT"
	ItemConditionGood        ItemCondition = "GOOD"
	ItemConditionFair        ItemCondition = "FAIR"
	ItemConditionMaintenance ItemCondition = "MAINTENANCE"
)

// InventoryItem is a quantity-tracked catalog entry (camera body, lens,
// audio kit). QuantityTotal is the number of physical units the shop
// owns; free quantity over a date range is always computed live from
// bookings, never stored.
type InventoryItem struct {
	ID               int32            `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Category         string           `json:"category"`
	DailyRate        decimal.Decimal  `json:"daily_rate"`
	WeeklyRate       *decimal.Decimal `json:"weekly_rate,omitempty"`
	DamageDeposit    decimal.Decimal  `json:"damage_deposit"`
	ReplacementValue decimal.Decimal  `json:"replacement_value"`
	QuantityTotal    int32            `json:"quantity_total"`
	Condition        ItemCondition    `json:"condition"`
	IsActive         bool             `json:"is_active"`
	CreatedOn        time.Time        `json:"created_on"`
	UpdatedOn        time.Time        `json:"updated_on"`
}
