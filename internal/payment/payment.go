// Package payment defines the boundary to the external payment
// collaborator. Card tokenization and 3-D Secure live on the other side
// of it; the engine only consumes captured/failed results.
package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

type CaptureResult struct {
	Succeeded     bool
	TransactionID string
	FailureReason string
}

type Gateway interface {
	// Capture charges amount against the payment method on file for the
	// booking reference. A declined charge is a Succeeded=false result,
	// not an error; errors mean the gateway itself was unreachable.
	Capture(ctx context.Context, bookingRef string, amount decimal.Decimal) (CaptureResult, error)

	// Refund returns amount for a previously captured booking.
	Refund(ctx context.Context, bookingRef string, amount decimal.Decimal) error
}
