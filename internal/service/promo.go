package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"gearbook-backend/internal/clock"
	"gearbook-backend/internal/domain"
	"gearbook-backend/internal/logger"
	"gearbook-backend/internal/promo"
	"gearbook-backend/internal/repository"
)

type promoService struct {
	repos repository.Repositories
	clk   clock.Clock
}

func NewPromoService(repos repository.Repositories, clk clock.Clock) PromoService {
	return &promoService{repos: repos, clk: clk}
}

// ValidatePromo is the customer-facing dry run of the checks that
// confirmation will enforce for real. It never consumes a use, and an
// ineligible code comes back as Valid=false with a reason rather than
// an error so the storefront can show it inline.
func (s *promoService) ValidatePromo(ctx context.Context, code string, userID int32, orderSubtotal decimal.Decimal) (*ValidationResult, error) {
	pc, err := s.repos.Promos.GetByCode(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		return &ValidationResult{Reason: domain.PromoReasonNotFound}, nil
	}
	if err != nil {
		return nil, err
	}

	userUses, err := s.repos.Promos.CountRedemptions(ctx, pc.ID, userID)
	if err != nil {
		return nil, err
	}

	res, err := promo.Validate(pc, userUses, s.clk.Now(), orderSubtotal)
	if err != nil {
		var pe *domain.PromoError
		if errors.As(err, &pe) {
			return &ValidationResult{Reason: pe.Reason}, nil
		}
		return nil, err
	}
	return &ValidationResult{
		Valid:          true,
		DiscountAmount: res.DiscountAmount,
		WalletGrant:    res.WalletGrant,
	}, nil
}

func (s *promoService) CreatePromo(ctx context.Context, pc *domain.PromoCode) error {
	pc.Code = strings.TrimSpace(pc.Code)
	if pc.Code == "" {
		return fmt.Errorf("%w: promo code is required", domain.ErrInvalidInput)
	}
	switch pc.DiscountType {
	case domain.DiscountTypePercentage:
		if pc.DiscountValue.LessThanOrEqual(decimal.Zero) || pc.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: percentage discount must be between 0 and 100", domain.ErrInvalidInput)
		}
	case domain.DiscountTypeFixedAmount, domain.DiscountTypeCredit:
		if pc.DiscountValue.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: discount value must be positive", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown discount type %q", domain.ErrInvalidInput, pc.DiscountType)
	}
	if pc.MaxUsesPerUser < 1 {
		pc.MaxUsesPerUser = 1
	}
	if pc.StartsAt.IsZero() {
		pc.StartsAt = s.clk.Now()
	}
	if pc.ExpiresAt != nil && !pc.ExpiresAt.After(pc.StartsAt) {
		return fmt.Errorf("%w: expiry must be after the start time", domain.ErrInvalidInput)
	}

	if err := s.repos.Promos.Create(ctx, pc); err != nil {
		return err
	}
	logger.Info("Promo code created", "promo_id", pc.ID, "code", pc.Code, "type", pc.DiscountType)
	return nil
}

func (s *promoService) DeactivatePromo(ctx context.Context, id int32) error {
	if err := s.repos.Promos.Deactivate(ctx, id); err != nil {
		return err
	}
	logger.Info("Promo code deactivated", "promo_id", id)
	return nil
}
