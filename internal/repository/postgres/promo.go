package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"gearbook-backend/internal/domain"
	"gearbook-backend/internal/repository"
)

type promoRepository struct {
	db DBTX
}

func NewPromoRepository(db DBTX) repository.PromoRepository {
	return &promoRepository{db: db}
}

func (r *promoRepository) Create(ctx context.Context, pc *domain.PromoCode) error {
	query := `INSERT INTO promo_codes (code, discount_type, discount_value, min_order_amount, max_discount,
	              max_uses, current_uses, max_uses_per_user, starts_at, expires_at, is_active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		pc.Code, pc.DiscountType, pc.DiscountValue, pc.MinOrderAmount, nullableDecimal(pc.MaxDiscount),
		pc.MaxUses, pc.CurrentUses, pc.MaxUsesPerUser, pc.StartsAt, pc.ExpiresAt, pc.IsActive, now, now,
	).Scan(&pc.ID)
}

func (r *promoRepository) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	pc := &domain.PromoCode{}
	var maxDiscount decimal.NullDecimal
	query := `SELECT id, code, discount_type, discount_value, min_order_amount, max_discount,
	                 max_uses, current_uses, max_uses_per_user, starts_at, expires_at, is_active, created_on, updated_on
	          FROM promo_codes WHERE LOWER(code) = LOWER($1)`
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&pc.ID, &pc.Code, &pc.DiscountType, &pc.DiscountValue, &pc.MinOrderAmount, &maxDiscount,
		&pc.MaxUses, &pc.CurrentUses, &pc.MaxUsesPerUser, &pc.StartsAt, &pc.ExpiresAt, &pc.IsActive,
		&pc.CreatedOn, &pc.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if maxDiscount.Valid {
		pc.MaxDiscount = &maxDiscount.Decimal
	}
	return pc, nil
}

func (r *promoRepository) Deactivate(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE promo_codes SET is_active = false, updated_on = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ConsumeUse bumps current_uses with the max_uses guard in the same
// statement. Two concurrent redemptions at current_uses == max_uses - 1
// serialize on the row; the loser matches zero rows.
func (r *promoRepository) ConsumeUse(ctx context.Context, id int32, code string) error {
	query := `UPDATE promo_codes
	          SET current_uses = current_uses + 1, updated_on = $1
	          WHERE id = $2
	            AND is_active
	            AND (max_uses IS NULL OR current_uses < max_uses)`
	res, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.PromoError{Code: code, Reason: domain.PromoReasonUsageExhausted}
	}
	return nil
}

func (r *promoRepository) CountRedemptions(ctx context.Context, promoCodeID, userID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM promo_redemptions WHERE promo_code_id = $1 AND user_id = $2`,
		promoCodeID, userID).Scan(&count)
	return count, err
}

func (r *promoRepository) CreateRedemption(ctx context.Context, red *domain.PromoRedemption) error {
	query := `INSERT INTO promo_redemptions (promo_code_id, user_id, booking_id, redeemed_on)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		red.PromoCodeID, red.UserID, red.BookingID, time.Now()).Scan(&red.ID)
}
