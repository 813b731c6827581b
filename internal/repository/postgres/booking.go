package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gearbook-backend/internal/domain"
	"gearbook-backend/internal/repository"
)

type bookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const dateLayout = "2006-01-02"

const bookingColumns = `id, reference, item_id, renter_id, start_date, end_date, quantity, status,
	payment_status, payment_method, daily_rate_used, billing_unit, subtotal, discount_amount, tax,
	damage_deposit, wallet_credit_applied, total_amount, promo_code_id,
	cancelled_at, cancelled_by, extended_at, extended_by, created_on, updated_on`

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (reference, item_id, renter_id, start_date, end_date, quantity, status,
	              payment_status, payment_method, daily_rate_used, billing_unit, subtotal, discount_amount, tax,
	              damage_deposit, wallet_credit_applied, total_amount, promo_code_id, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	          RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		b.Reference, b.ItemID, b.RenterID, b.StartDate, b.EndDate, b.Quantity, b.Status,
		b.PaymentStatus, b.PaymentMethod, b.DailyRateUsed, b.BillingUnit, b.Subtotal, b.DiscountAmount, b.Tax,
		b.DamageDeposit, b.WalletCreditApplied, b.TotalAmount, b.PromoCodeID, now, now,
	).Scan(&b.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *bookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, reference))
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings
	          SET status=$1, payment_status=$2, payment_method=$3, end_date=$4,
	              daily_rate_used=$5, billing_unit=$6, subtotal=$7, discount_amount=$8, tax=$9,
	              damage_deposit=$10, wallet_credit_applied=$11, total_amount=$12,
	              cancelled_at=$13, cancelled_by=$14, extended_at=$15, extended_by=$16, updated_on=$17
	          WHERE id=$18`
	_, err := r.db.ExecContext(ctx, query,
		b.Status, b.PaymentStatus, b.PaymentMethod, b.EndDate,
		b.DailyRateUsed, b.BillingUnit, b.Subtotal, b.DiscountAmount, b.Tax,
		b.DamageDeposit, b.WalletCreditApplied, b.TotalAmount,
		b.CancelledAt, b.CancelledBy, b.ExtendedAt, b.ExtendedBy, time.Now(), b.ID)
	return err
}

func (r *bookingRepository) ListHolds(ctx context.Context, itemID int32, startDate, endDate string) ([]domain.Booking, error) {
	// Inclusive on both ends: a hold touches day d when start <= d <= end.
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE item_id = $1
	            AND status IN ('PENDING', 'CONFIRMED', 'ACTIVE')
	            AND start_date <= $3
	            AND end_date >= $2`
	rows, err := r.db.QueryContext(ctx, query, itemID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (r *bookingRepository) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize
	base := `FROM bookings WHERE renter_id = $1`
	args := []interface{}{renterID}
	if status != "" {
		base += ` AND status = $2`
		args = append(args, status)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) `+base, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + bookingColumns + ` ` + base +
		fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	return bookings, count, err
}

func (r *bookingRepository) scanOne(row *sql.Row) (*domain.Booking, error) {
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return b, err
}

func scanBooking(s rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	// pq hands DATE columns back as time.Time; format them into the
	// plain yyyy-mm-dd strings the domain carries.
	var startDate, endDate time.Time
	err := s.Scan(&b.ID, &b.Reference, &b.ItemID, &b.RenterID, &startDate, &endDate, &b.Quantity, &b.Status,
		&b.PaymentStatus, &b.PaymentMethod, &b.DailyRateUsed, &b.BillingUnit, &b.Subtotal, &b.DiscountAmount, &b.Tax,
		&b.DamageDeposit, &b.WalletCreditApplied, &b.TotalAmount, &b.PromoCodeID,
		&b.CancelledAt, &b.CancelledBy, &b.ExtendedAt, &b.ExtendedBy, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}
	b.StartDate = startDate.Format(dateLayout)
	b.EndDate = endDate.Format(dateLayout)
	return b, nil
}

func scanBookings(rows *sql.Rows) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
