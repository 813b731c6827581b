package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"gearbook-backend/internal/availability"
	"gearbook-backend/internal/clock"
	"gearbook-backend/internal/domain"
	"gearbook-backend/internal/logger"
	"gearbook-backend/internal/payment"
	"gearbook-backend/internal/pricing"
	"gearbook-backend/internal/repository"
)

var ErrNotExtendable = errors.New("only confirmed or active bookings can be extended")

type lifecycleService struct {
	repos   repository.Repositories
	txr     repository.Transactor
	gateway payment.Gateway
	clk     clock.Clock
	email   EmailService
	policy  Policy
}

func NewLifecycleService(
	repos repository.Repositories,
	txr repository.Transactor,
	gateway payment.Gateway,
	clk clock.Clock,
	email EmailService,
	policy Policy,
) LifecycleService {
	return &lifecycleService{
		repos:   repos,
		txr:     txr,
		gateway: gateway,
		clk:     clk,
		email:   email,
		policy:  policy,
	}
}

// Transition applies one lifecycle event. Renters can only cancel their
// own bookings; pickup, return and payment events are operator (or
// system) actions. An illegal (status, event) pair never mutates state.
func (s *lifecycleService) Transition(ctx context.Context, actor Actor, bookingID int32, event domain.BookingEvent) (*domain.Booking, error) {
	b, err := s.repos.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.Operator && (b.RenterID != actor.UserID || event != domain.EventCancel) {
		return nil, domain.ErrUnauthorized
	}

	next, err := domain.NextStatus(b.Status, event)
	if err != nil {
		// Caller/ordering bug, not a user mistake.
		logger.Error("Illegal booking transition requested",
			"booking_id", b.ID, "status", b.Status, "event", event)
		return nil, err
	}

	now := s.clk.Now()
	refund := decimal.Zero
	switch event {
	case domain.EventCancel:
		b.CancelledAt = &now
		actorID := actor.UserID
		b.CancelledBy = &actorID
		if b.PaymentStatus == domain.PaymentStatusPaid {
			refund, err = s.applyRefund(ctx, b, now)
			if err != nil {
				return nil, err
			}
		}
	case domain.EventPaymentCaptured:
		// External capture confirmation (webhook path). Settlement via
		// ConfirmBooking has already stamped these for the happy path.
		b.PaymentStatus = domain.PaymentStatusPaid
		if b.PaymentMethod == domain.PaymentMethodNone {
			b.PaymentMethod = domain.PaymentMethodCard
		}
	}

	b.Status = next
	if err := s.repos.Bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	logger.Info("Booking transitioned",
		"booking_id", b.ID, "event", event, "status", b.Status, "refund", refund.String())
	return b, nil
}

// applyRefund resolves the cancellation window and splits the refund
// between the card (via the gateway) and the wallet, proportional to how
// the booking was paid.
func (s *lifecycleService) applyRefund(ctx context.Context, b *domain.Booking, now time.Time) (decimal.Decimal, error) {
	start, err := pricing.ParseDate(b.StartDate)
	if err != nil {
		return decimal.Zero, err
	}

	var fraction decimal.Decimal
	hoursUntilStart := start.Time().Sub(now).Hours()
	switch {
	case hoursUntilStart >= float64(s.policy.FullRefundHours):
		fraction = decimal.NewFromInt(1)
	default:
		fraction = decimal.NewFromInt(int64(s.policy.PartialRefundPercent)).Div(decimal.NewFromInt(100))
	}
	if fraction.IsZero() {
		return decimal.Zero, nil
	}

	cardRefund := pricing.RoundMoney(b.TotalAmount.Mul(fraction))
	walletRefund := pricing.RoundMoney(b.WalletCreditApplied.Mul(fraction))

	if cardRefund.IsPositive() {
		if err := s.gateway.Refund(ctx, b.Reference, cardRefund); err != nil {
			return decimal.Zero, err
		}
	}
	if walletRefund.IsPositive() {
		credit := &domain.WalletTransaction{
			UserID:           b.RenterID,
			Amount:           walletRefund,
			Type:             domain.WalletTxRefundCredit,
			RelatedBookingID: &b.ID,
			Description:      fmt.Sprintf("Refund for booking %s", b.Reference),
		}
		if err := s.repos.Wallet.CreateTransaction(ctx, credit); err != nil {
			return decimal.Zero, err
		}
	}

	if fraction.Equal(decimal.NewFromInt(1)) {
		b.PaymentStatus = domain.PaymentStatusRefunded
	} else {
		b.PaymentStatus = domain.PaymentStatusPartialRefund
	}
	return cardRefund.Add(walletRefund), nil
}

// ExtendBooking re-runs the pricing calculator over the whole stay and
// re-checks availability for the added days only, excluding the booking
// itself from the scan. The already-redeemed discount and applied wallet
// credit carry over; only the positive difference is captured.
func (s *lifecycleService) ExtendBooking(ctx context.Context, actor Actor, bookingID int32, newEndDate string) (*domain.Booking, error) {
	b, err := s.repos.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.Operator && b.RenterID != actor.UserID {
		return nil, domain.ErrUnauthorized
	}
	if b.Status != domain.BookingStatusConfirmed && b.Status != domain.BookingStatusActive {
		return nil, ErrNotExtendable
	}

	start, err := pricing.ParseDate(b.StartDate)
	if err != nil {
		return nil, err
	}
	oldEnd, err := pricing.ParseDate(b.EndDate)
	if err != nil {
		return nil, err
	}
	newEnd, err := pricing.ParseDate(newEndDate)
	if err != nil {
		return nil, &domain.DateRangeError{Start: b.StartDate, End: newEndDate, Reason: err.Error()}
	}
	if !newEnd.After(oldEnd) {
		return nil, &domain.DateRangeError{Start: b.StartDate, End: newEndDate, Reason: "new end date must extend the booking"}
	}

	item, err := s.repos.Items.GetByID(ctx, b.ItemID)
	if err != nil {
		return nil, err
	}

	days := pricing.DaysInclusive(start, newEnd)
	rq, subtotal := pricing.ComputeSubtotal(item, days, b.Quantity)
	bd := pricing.BuildBreakdown(item, days, b.Quantity, rq, subtotal,
		b.DiscountAmount, decimal.Zero, b.WalletCreditApplied, s.policy.TaxRate)

	delta := bd.TotalAmount.Sub(b.TotalAmount)
	if delta.IsPositive() {
		res, err := s.gateway.Capture(ctx, b.Reference, delta)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
		}
		if !res.Succeeded {
			return nil, fmt.Errorf("%w: %s", domain.ErrPaymentFailed, res.FailureReason)
		}
	}

	err = s.txr.ExecTx(ctx, func(r repository.Repositories) error {
		lockedItem, err := r.Items.GetByIDForUpdate(ctx, b.ItemID)
		if err != nil {
			return err
		}
		buffer := s.policy.TurnoverBufferDays
		tailStart := oldEnd.AddDays(1)
		holds, err := r.Bookings.ListHolds(ctx, lockedItem.ID,
			tailStart.AddDays(-buffer).String(), newEnd.AddDays(buffer).String())
		if err != nil {
			return err
		}
		avail, err := availability.Check(lockedItem, holds, tailStart, newEnd, b.Quantity, buffer, b.ID)
		if err != nil {
			return err
		}
		if !avail.Available {
			return fmt.Errorf("%w: item is booked during the extension window", domain.ErrInsufficientInventory)
		}

		now := s.clk.Now()
		actorID := actor.UserID
		b.EndDate = newEnd.String()
		b.DailyRateUsed = bd.DailyRateUsed
		b.BillingUnit = bd.BillingUnit
		b.Subtotal = bd.Subtotal
		b.DiscountAmount = bd.DiscountAmount
		b.Tax = bd.Tax
		b.DamageDeposit = bd.DamageDeposit
		b.WalletCreditApplied = bd.WalletCreditApplied
		b.TotalAmount = bd.TotalAmount
		b.ExtendedAt = &now
		b.ExtendedBy = &actorID
		return r.Bookings.Update(ctx, b)
	})
	if err != nil {
		// The extension charge was captured optimistically; hand it back.
		if delta.IsPositive() {
			if rerr := s.gateway.Refund(ctx, b.Reference, delta); rerr != nil {
				logger.Error("Failed to refund extension charge", "booking_ref", b.Reference, "error", rerr)
			}
		}
		return nil, err
	}

	logger.Info("Booking extended",
		"booking_id", b.ID, "new_end", b.EndDate, "captured_delta", delta.String())
	return b, nil
}
