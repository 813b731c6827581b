package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearbook-backend/internal/domain"
	"gearbook-backend/internal/pricing"
)

func date(t *testing.T, s string) pricing.Date {
	t.Helper()
	d, err := pricing.ParseDate(s)
	require.NoError(t, err)
	return d
}

func hold(id int32, start, end string, qty int32, status domain.BookingStatus) domain.Booking {
	return domain.Booking{ID: id, StartDate: start, EndDate: end, Quantity: qty, Status: status}
}

func TestCheck(t *testing.T) {
	item := &domain.InventoryItem{ID: 1, QuantityTotal: 3}

	t.Run("EmptyCalendar", func(t *testing.T) {
		res, err := Check(item, nil, date(t, "2026-06-10"), date(t, "2026-06-12"), 3, 0)
		require.NoError(t, err)
		assert.True(t, res.Available)
		assert.Equal(t, int32(3), res.RemainingOnWorstDay)
	})

	t.Run("OverlapReducesRemaining", func(t *testing.T) {
		holds := []domain.Booking{
			hold(1, "2026-06-11", "2026-06-14", 2, domain.BookingStatusConfirmed),
		}
		res, err := Check(item, holds, date(t, "2026-06-10"), date(t, "2026-06-12"), 2, 0)
		require.NoError(t, err)
		assert.False(t, res.Available)
		assert.Equal(t, int32(1), res.RemainingOnWorstDay)
	})

	t.Run("EndDateIsConsumed", func(t *testing.T) {
		// Existing hold ends June 10; a pickup on June 10 collides.
		holds := []domain.Booking{
			hold(1, "2026-06-05", "2026-06-10", 3, domain.BookingStatusActive),
		}
		res, err := Check(item, holds, date(t, "2026-06-10"), date(t, "2026-06-12"), 1, 0)
		require.NoError(t, err)
		assert.False(t, res.Available)

		// The next day is free.
		res, err = Check(item, holds, date(t, "2026-06-11"), date(t, "2026-06-12"), 3, 0)
		require.NoError(t, err)
		assert.True(t, res.Available)
	})

	t.Run("CancelledBookingFreesUnits", func(t *testing.T) {
		holds := []domain.Booking{
			hold(1, "2026-06-10", "2026-06-12", 3, domain.BookingStatusCancelled),
			hold(2, "2026-06-10", "2026-06-12", 3, domain.BookingStatusCompleted),
		}
		res, err := Check(item, holds, date(t, "2026-06-10"), date(t, "2026-06-12"), 3, 0)
		require.NoError(t, err)
		assert.True(t, res.Available)
	})

	t.Run("WorstDayGoverns", func(t *testing.T) {
		// Two single-unit holds overlap only on June 11.
		holds := []domain.Booking{
			hold(1, "2026-06-09", "2026-06-11", 2, domain.BookingStatusConfirmed),
			hold(2, "2026-06-11", "2026-06-13", 1, domain.BookingStatusPending),
		}
		res, err := Check(item, holds, date(t, "2026-06-10"), date(t, "2026-06-12"), 1, 0)
		require.NoError(t, err)
		assert.False(t, res.Available)
		assert.Equal(t, int32(0), res.RemainingOnWorstDay)
	})

	t.Run("TurnoverBufferWidensHolds", func(t *testing.T) {
		holds := []domain.Booking{
			hold(1, "2026-06-05", "2026-06-10", 3, domain.BookingStatusActive),
		}
		// Without a buffer June 11 is free; a 1-day turnover blocks it.
		res, err := Check(item, holds, date(t, "2026-06-11"), date(t, "2026-06-11"), 1, 1)
		require.NoError(t, err)
		assert.False(t, res.Available)

		res, err = Check(item, holds, date(t, "2026-06-12"), date(t, "2026-06-12"), 1, 1)
		require.NoError(t, err)
		assert.True(t, res.Available)
	})

	t.Run("SkipOwnBookingForExtend", func(t *testing.T) {
		holds := []domain.Booking{
			hold(42, "2026-06-10", "2026-06-12", 3, domain.BookingStatusActive),
		}
		res, err := Check(item, holds, date(t, "2026-06-10"), date(t, "2026-06-14"), 3, 0, 42)
		require.NoError(t, err)
		assert.True(t, res.Available)
	})

	t.Run("MalformedHoldDate", func(t *testing.T) {
		holds := []domain.Booking{
			hold(1, "garbage", "2026-06-12", 1, domain.BookingStatusActive),
		}
		_, err := Check(item, holds, date(t, "2026-06-10"), date(t, "2026-06-12"), 1, 0)
		assert.Error(t, err)
	})
}
