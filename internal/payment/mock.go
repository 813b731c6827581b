package payment

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gearbook-backend/internal/logger"
)

// MockGateway approves every capture and records it in memory. It stands
// in for the real processor in dev and test environments.
type MockGateway struct {
	mu         sync.Mutex
	DeclineAll bool

	captures map[string]decimal.Decimal
	refunds  map[string]decimal.Decimal
}

func NewMockGateway() *MockGateway {
	return &MockGateway{
		captures: make(map[string]decimal.Decimal),
		refunds:  make(map[string]decimal.Decimal),
	}
}

func (g *MockGateway) Capture(ctx context.Context, bookingRef string, amount decimal.Decimal) (CaptureResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.DeclineAll {
		logger.Warn("Mock gateway declining capture", "booking_ref", bookingRef, "amount", amount.String())
		return CaptureResult{Succeeded: false, FailureReason: "card_declined"}, nil
	}

	g.captures[bookingRef] = g.captures[bookingRef].Add(amount)
	txnID := uuid.NewString()
	logger.Debug("Mock gateway captured", "booking_ref", bookingRef, "amount", amount.String(), "txn_id", txnID)
	return CaptureResult{Succeeded: true, TransactionID: txnID}, nil
}

func (g *MockGateway) Refund(ctx context.Context, bookingRef string, amount decimal.Decimal) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.refunds[bookingRef] = g.refunds[bookingRef].Add(amount)
	logger.Debug("Mock gateway refunded", "booking_ref", bookingRef, "amount", amount.String())
	return nil
}

// CapturedTotal reports the cumulative captured amount for a booking.
func (g *MockGateway) CapturedTotal(bookingRef string) decimal.Decimal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.captures[bookingRef]
}

// RefundedTotal reports the cumulative refunded amount for a booking.
func (g *MockGateway) RefundedTotal(bookingRef string) decimal.Decimal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.refunds[bookingRef]
}
