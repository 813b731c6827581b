// Package availability answers whether a quantity-limited item has
// enough free units over an inclusive date range. Free quantity is
// computed live from bookings still holding inventory, so cancelling or
// completing a booking frees its units with no explicit mutation.
package availability

import (
	"gearbook-backend/internal/domain"
	"gearbook-backend/internal/pricing"
)

// Result reports the worst day so callers can surface "only N left".
type Result struct {
	Available           bool
	RemainingOnWorstDay int32
}

// Check scans every calendar day in [start, end] and sums the quantity
// held by overlapping bookings in inventory-holding statuses. Days are
// consumed whole on both ends: a return on day X and a pickup on day X
// collide unless bufferDays widens existing holds to model a turnover
// window. Bookings listed with an ID in skipBookingIDs are ignored,
// which lets an extend re-check a range without counting itself.
func Check(item *domain.InventoryItem, holds []domain.Booking, start, end pricing.Date,
	requestedQty int32, bufferDays int, skipBookingIDs ...int32) (Result, error) {

	type span struct {
		start, end pricing.Date
		qty        int32
	}
	spans := make([]span, 0, len(holds))
	for _, h := range holds {
		if !h.Status.HoldsInventory() || skipped(h.ID, skipBookingIDs) {
			continue
		}
		hs, err := pricing.ParseDate(h.StartDate)
		if err != nil {
			return Result{}, err
		}
		he, err := pricing.ParseDate(h.EndDate)
		if err != nil {
			return Result{}, err
		}
		if bufferDays > 0 {
			hs = hs.AddDays(-bufferDays)
			he = he.AddDays(bufferDays)
		}
		spans = append(spans, span{start: hs, end: he, qty: h.Quantity})
	}

	worst := item.QuantityTotal
	for d := start; !d.After(end); d = d.AddDays(1) {
		var reserved int32
		for _, s := range spans {
			if !d.Before(s.start) && !d.After(s.end) {
				reserved += s.qty
			}
		}
		if remaining := item.QuantityTotal - reserved; remaining < worst {
			worst = remaining
		}
	}

	return Result{Available: worst >= requestedQty, RemainingOnWorstDay: worst}, nil
}

func skipped(id int32, skip []int32) bool {
	for _, s := range skip {
		if s == id {
			return true
		}
	}
	return false
}
