package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gearbook-backend/internal/availability"
	"gearbook-backend/internal/clock"
	"gearbook-backend/internal/domain"
	"gearbook-backend/internal/logger"
	"gearbook-backend/internal/payment"
	"gearbook-backend/internal/pricing"
	"gearbook-backend/internal/promo"
	"gearbook-backend/internal/repository"
)

type reservationService struct {
	repos   repository.Repositories
	txr     repository.Transactor
	gateway payment.Gateway
	clk     clock.Clock
	email   EmailService
	policy  Policy
}

func NewReservationService(
	repos repository.Repositories,
	txr repository.Transactor,
	gateway payment.Gateway,
	clk clock.Clock,
	email EmailService,
	policy Policy,
) ReservationService {
	return &reservationService{
		repos:   repos,
		txr:     txr,
		gateway: gateway,
		clk:     clk,
		email:   email,
		policy:  policy,
	}
}

// quoteResult bundles everything a confirm needs beyond the breakdown.
type quoteResult struct {
	item      *domain.InventoryItem
	start     pricing.Date
	end       pricing.Date
	promo     *domain.PromoCode
	breakdown pricing.Breakdown
}

// buildQuote runs the full read path: date validation, availability,
// rate resolution, promo validation and wallet clamping. It never
// writes; confirm reruns it against transaction-scoped repositories
// with the item row locked.
func (s *reservationService) buildQuote(ctx context.Context, r repository.Repositories, req QuoteRequest, forUpdate bool) (*quoteResult, error) {
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	now := s.clk.Now()
	start, end, err := pricing.ValidateRange(req.StartDate, req.EndDate, pricing.DateOf(now))
	if err != nil {
		return nil, err
	}

	var item *domain.InventoryItem
	if forUpdate {
		item, err = r.Items.GetByIDForUpdate(ctx, req.ItemID)
	} else {
		item, err = r.Items.GetByID(ctx, req.ItemID)
	}
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, domain.ErrItemInactive
	}

	buffer := s.policy.TurnoverBufferDays
	holds, err := r.Bookings.ListHolds(ctx, item.ID,
		start.AddDays(-buffer).String(), end.AddDays(buffer).String())
	if err != nil {
		return nil, err
	}
	avail, err := availability.Check(item, holds, start, end, qty, buffer)
	if err != nil {
		return nil, err
	}
	if !avail.Available {
		return nil, fmt.Errorf("%w: only %d left on the busiest day",
			domain.ErrInsufficientInventory, max32(avail.RemainingOnWorstDay, 0))
	}

	days := pricing.DaysInclusive(start, end)
	rq, subtotal := pricing.ComputeSubtotal(item, days, qty)

	var promoRow *domain.PromoCode
	discount := decimal.Zero
	walletGrant := decimal.Zero
	if req.PromoCode != "" {
		pc, err := r.Promos.GetByCode(ctx, req.PromoCode)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.PromoError{Code: req.PromoCode, Reason: domain.PromoReasonNotFound}
		}
		if err != nil {
			return nil, err
		}
		userUses, err := r.Promos.CountRedemptions(ctx, pc.ID, req.RenterID)
		if err != nil {
			return nil, err
		}
		res, err := promo.Validate(pc, userUses, now, subtotal)
		if err != nil {
			return nil, err
		}
		promoRow = pc
		discount = res.DiscountAmount
		walletGrant = res.WalletGrant
	}

	walletCredit := req.WalletCredit
	if walletCredit.IsPositive() {
		balance, err := r.Wallet.GetBalance(ctx, req.RenterID)
		if err != nil {
			return nil, err
		}
		if walletCredit.GreaterThan(balance) {
			walletCredit = balance
		}
	}

	bd := pricing.BuildBreakdown(item, days, qty, rq, subtotal, discount, walletGrant, walletCredit, s.policy.TaxRate)
	return &quoteResult{item: item, start: start, end: end, promo: promoRow, breakdown: bd}, nil
}

func (s *reservationService) Quote(ctx context.Context, req QuoteRequest) (*pricing.Breakdown, error) {
	q, err := s.buildQuote(ctx, s.repos, req, false)
	if err != nil {
		return nil, err
	}
	return &q.breakdown, nil
}

// ConfirmBooking closes the quote/confirm race by re-running the
// availability check inside the transaction that inserts the booking,
// with the item row locked. At most one of two concurrent confirms for
// the final unit commits; the loser sees ErrInsufficientInventory and
// nothing else is written. Promo redemption bookkeeping rides the same
// transaction.
func (s *reservationService) ConfirmBooking(ctx context.Context, req ConfirmRequest) (*domain.Booking, error) {
	var booking *domain.Booking
	var q *quoteResult

	err := s.txr.ExecTx(ctx, func(r repository.Repositories) error {
		var err error
		q, err = s.buildQuote(ctx, r, req.QuoteRequest, true)
		if err != nil {
			return err
		}

		bd := q.breakdown
		booking = &domain.Booking{
			Reference:           uuid.NewString(),
			ItemID:              q.item.ID,
			RenterID:            req.RenterID,
			StartDate:           q.start.String(),
			EndDate:             q.end.String(),
			Quantity:            bd.Quantity,
			Status:              domain.BookingStatusPending,
			PaymentStatus:       domain.PaymentStatusPending,
			PaymentMethod:       domain.PaymentMethodNone,
			DailyRateUsed:       bd.DailyRateUsed,
			BillingUnit:         bd.BillingUnit,
			Subtotal:            bd.Subtotal,
			DiscountAmount:      bd.DiscountAmount,
			Tax:                 bd.Tax,
			DamageDeposit:       bd.DamageDeposit,
			WalletCreditApplied: bd.WalletCreditApplied,
			TotalAmount:         bd.TotalAmount,
		}
		if q.promo != nil {
			booking.PromoCodeID = &q.promo.ID
		}
		if err := r.Bookings.Create(ctx, booking); err != nil {
			return err
		}

		if q.promo != nil {
			if err := r.Promos.ConsumeUse(ctx, q.promo.ID, q.promo.Code); err != nil {
				return err
			}
			red := &domain.PromoRedemption{
				PromoCodeID: q.promo.ID,
				UserID:      req.RenterID,
				BookingID:   booking.ID,
			}
			if err := r.Promos.CreateRedemption(ctx, red); err != nil {
				return err
			}
		}

		// Spend the wallet credit inside the same transaction. The
		// balance was only clamped during the quote; the guarded insert
		// is what actually prevents two concurrent confirms from both
		// spending the same credit.
		if bd.WalletCreditApplied.IsPositive() {
			debit := &domain.WalletTransaction{
				UserID:           req.RenterID,
				Amount:           bd.WalletCreditApplied.Neg(),
				Type:             domain.WalletTxBookingDebit,
				RelatedBookingID: &booking.ID,
				Description:      fmt.Sprintf("Credit applied to booking %s", booking.Reference),
			}
			if err := r.Wallet.SpendCredit(ctx, debit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Settlement happens outside the inventory transaction. On capture
	// failure the spent wallet credit is returned and the booking stays
	// pending with its hold intact until the expiry sweep reclaims it.
	if err := s.settle(ctx, booking, q.breakdown.WalletGrant); err != nil {
		return nil, err
	}

	if s.email != nil && req.RenterEmail != "" {
		if err := s.email.SendBookingConfirmation(ctx, req.RenterEmail, booking); err != nil {
			logger.Warn("Failed to send booking receipt", "booking_ref", booking.Reference, "error", err)
		}
	}

	logger.Info("Booking confirmed",
		"booking_id", booking.ID,
		"booking_ref", booking.Reference,
		"item_id", booking.ItemID,
		"total", booking.TotalAmount.String(),
		"method", booking.PaymentMethod)
	return booking, nil
}

func (s *reservationService) settle(ctx context.Context, b *domain.Booking, walletGrant decimal.Decimal) error {
	method := domain.PaymentMethodNone
	switch {
	case b.TotalAmount.IsPositive():
		method = domain.PaymentMethodCard
	case b.WalletCreditApplied.IsPositive():
		method = domain.PaymentMethodWallet
	case b.DiscountAmount.IsPositive():
		method = domain.PaymentMethodPromo
	}

	if b.TotalAmount.IsPositive() {
		res, err := s.gateway.Capture(ctx, b.Reference, b.TotalAmount)
		if err != nil {
			s.returnWalletCredit(ctx, b)
			return fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
		}
		if !res.Succeeded {
			s.returnWalletCredit(ctx, b)
			return fmt.Errorf("%w: %s", domain.ErrPaymentFailed, res.FailureReason)
		}
	}

	next, err := domain.NextStatus(b.Status, domain.EventPaymentCaptured)
	if err != nil {
		return err
	}
	b.Status = next
	b.PaymentStatus = domain.PaymentStatusPaid
	b.PaymentMethod = method
	if err := s.repos.Bookings.Update(ctx, b); err != nil {
		// The charge already happened. Reverse it rather than leave a
		// paid booking pending for the sweep to cancel.
		if b.TotalAmount.IsPositive() {
			if rerr := s.gateway.Refund(ctx, b.Reference, b.TotalAmount); rerr != nil {
				logger.Error("Failed to reverse capture after settlement error",
					"booking_ref", b.Reference, "amount", b.TotalAmount.String(), "error", rerr)
			}
		}
		s.returnWalletCredit(ctx, b)
		return err
	}

	// Credit-type promo rewards pay out only after the booking settles.
	if walletGrant.IsPositive() {
		grant := &domain.WalletTransaction{
			UserID:           b.RenterID,
			Amount:           walletGrant,
			Type:             domain.WalletTxPromoCredit,
			RelatedBookingID: &b.ID,
			Description:      fmt.Sprintf("Promo reward for booking %s", b.Reference),
		}
		if err := s.repos.Wallet.CreateTransaction(ctx, grant); err != nil {
			logger.Error("Failed to pay out promo reward", "booking_ref", b.Reference, "error", err)
		}
	}
	return nil
}

// returnWalletCredit compensates for a credit spent by a confirm whose
// settlement then failed. Best effort: the failure is logged and the
// row stays reconcilable through its booking reference.
func (s *reservationService) returnWalletCredit(ctx context.Context, b *domain.Booking) {
	if !b.WalletCreditApplied.IsPositive() {
		return
	}
	credit := &domain.WalletTransaction{
		UserID:           b.RenterID,
		Amount:           b.WalletCreditApplied,
		Type:             domain.WalletTxRefundCredit,
		RelatedBookingID: &b.ID,
		Description:      fmt.Sprintf("Credit returned for booking %s", b.Reference),
	}
	if err := s.repos.Wallet.CreateTransaction(ctx, credit); err != nil {
		logger.Error("Failed to return wallet credit",
			"booking_ref", b.Reference, "amount", b.WalletCreditApplied.String(), "error", err)
	}
}

func (s *reservationService) GetBooking(ctx context.Context, actor Actor, bookingID int32) (*domain.Booking, error) {
	b, err := s.repos.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.Operator && b.RenterID != actor.UserID {
		return nil, domain.ErrUnauthorized
	}
	return b, nil
}

func (s *reservationService) ListBookings(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.repos.Bookings.ListByRenter(ctx, renterID, status, page, pageSize)
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
