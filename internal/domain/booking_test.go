package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus(t *testing.T) {
	legal := []struct {
		from  BookingStatus
		event BookingEvent
		to    BookingStatus
	}{
		{BookingStatusPending, EventPaymentCaptured, BookingStatusConfirmed},
		{BookingStatusPending, EventCancel, BookingStatusCancelled},
		{BookingStatusConfirmed, EventPickup, BookingStatusActive},
		{BookingStatusConfirmed, EventCancel, BookingStatusCancelled},
		{BookingStatusActive, EventReturn, BookingStatusCompleted},
	}
	for _, tc := range legal {
		got, err := NextStatus(tc.from, tc.event)
		require.NoError(t, err, "%s + %s", tc.from, tc.event)
		assert.Equal(t, tc.to, got)
	}
}

func TestNextStatus_IllegalPairs(t *testing.T) {
	statuses := []BookingStatus{
		BookingStatusPending, BookingStatusConfirmed, BookingStatusActive,
		BookingStatusCompleted, BookingStatusCancelled,
	}
	events := []BookingEvent{EventPaymentCaptured, EventPickup, EventReturn, EventCancel}

	legalCount := 0
	for _, from := range statuses {
		for _, event := range events {
			if _, err := NextStatus(from, event); err == nil {
				legalCount++
				continue
			}
			_, err := NextStatus(from, event)
			var te *TransitionError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, from, te.From)
			assert.Equal(t, event, te.Event)
		}
	}
	// Exactly the five legal transitions above; terminal states accept
	// nothing. Active bookings cannot be cancelled, only returned.
	assert.Equal(t, 5, legalCount)
}

func TestNextStatus_TerminalStates(t *testing.T) {
	for _, from := range []BookingStatus{BookingStatusCompleted, BookingStatusCancelled} {
		for _, event := range []BookingEvent{EventPaymentCaptured, EventPickup, EventReturn, EventCancel} {
			_, err := NextStatus(from, event)
			assert.Error(t, err, "%s should accept no events", from)
		}
	}
}

func TestHoldsInventory(t *testing.T) {
	assert.True(t, BookingStatusPending.HoldsInventory())
	assert.True(t, BookingStatusConfirmed.HoldsInventory())
	assert.True(t, BookingStatusActive.HoldsInventory())
	assert.False(t, BookingStatusCompleted.HoldsInventory())
	assert.False(t, BookingStatusCancelled.HoldsInventory())
}
