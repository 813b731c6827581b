package jobs

import (
	"context"
	"time"

	"gearbook-backend/internal/logger"
)

// ExpirePendingBookings cancels pending bookings whose payment never
// settled within the hold window, releasing their inventory hold.
// Promo uses consumed at confirmation stay consumed.
func (jr *JobRunner) ExpirePendingBookings() {
	jr.runWithRecovery("ExpirePendingBookings", func() {
		ctx := context.Background()

		cutoff := time.Now().UTC().Add(-time.Duration(jr.config.Booking.HoldWindowMinutes) * time.Minute)

		query := `
			UPDATE bookings
			SET status = 'CANCELLED',
			    cancelled_at = NOW(),
			    updated_on = NOW()
			WHERE status = 'PENDING'
			  AND payment_status = 'PENDING'
			  AND created_on < $1
			RETURNING id, reference, item_id, renter_id
		`

		rows, err := jr.db.QueryContext(ctx, query, cutoff)
		if err != nil {
			logger.Error("Failed to expire pending bookings", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var booking struct {
				ID        int
				Reference string
				ItemID    int
				RenterID  int
			}
			if err := rows.Scan(&booking.ID, &booking.Reference, &booking.ItemID, &booking.RenterID); err != nil {
				logger.Error("Failed to scan expired booking", "error", err)
				continue
			}
			count++
			logger.Debug("Expired pending booking",
				"booking_id", booking.ID,
				"booking_ref", booking.Reference,
				"item_id", booking.ItemID,
				"renter_id", booking.RenterID)
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating expired bookings", "error", err)
			return
		}

		logger.Info("Expired pending bookings", "count", count, "cutoff", cutoff.Format(time.RFC3339))
	})
}

// ActivateDueBookings moves confirmed bookings to ACTIVE once their
// start date arrives, so same-day pickups do not depend on an operator
// clicking through each one.
func (jr *JobRunner) ActivateDueBookings() {
	jr.runWithRecovery("ActivateDueBookings", func() {
		ctx := context.Background()

		query := `
			UPDATE bookings
			SET status = 'ACTIVE',
			    updated_on = NOW()
			WHERE status = 'CONFIRMED'
			  AND start_date <= $1
			RETURNING id, reference, start_date
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().UTC().Format("2006-01-02"))
		if err != nil {
			logger.Error("Failed to activate due bookings", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var booking struct {
				ID        int
				Reference string
				StartDate time.Time
			}
			if err := rows.Scan(&booking.ID, &booking.Reference, &booking.StartDate); err != nil {
				logger.Error("Failed to scan activated booking", "error", err)
				continue
			}
			count++
			logger.Debug("Activated booking",
				"booking_id", booking.ID,
				"booking_ref", booking.Reference,
				"start_date", booking.StartDate.Format("2006-01-02"))
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating activated bookings", "error", err)
			return
		}

		logger.Info("Activated due bookings", "count", count)
	})
}
