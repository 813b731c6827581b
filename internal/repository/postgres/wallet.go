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

type walletRepository struct {
	db DBTX
}

func NewWalletRepository(db DBTX) repository.WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) CreateTransaction(ctx context.Context, tx *domain.WalletTransaction) error {
	query := `INSERT INTO wallet_transactions (user_id, amount, type, related_booking_id, description, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		tx.UserID, tx.Amount, tx.Type, tx.RelatedBookingID, tx.Description, time.Now()).Scan(&tx.ID)
}

// SpendCredit is the guarded variant of CreateTransaction for debits.
// The advisory lock serializes concurrent spends by the same user
// within their transactions; without it two confirms could both pass
// the SUM check and drive the balance negative.
func (r *walletRepository) SpendCredit(ctx context.Context, tx *domain.WalletTransaction) error {
	query := `INSERT INTO wallet_transactions (user_id, amount, type, related_booking_id, description, created_on)
	          SELECT $1, $2, $3, $4, $5, $6
	          FROM (SELECT pg_advisory_xact_lock($1::bigint)) AS wallet_lock
	          WHERE (SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions WHERE user_id = $1) + $2::numeric >= 0
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		tx.UserID, tx.Amount, tx.Type, tx.RelatedBookingID, tx.Description, time.Now()).Scan(&tx.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrInsufficientCredit
	}
	return err
}

func (r *walletRepository) GetBalance(ctx context.Context, userID int32) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions WHERE user_id = $1`,
		userID).Scan(&balance)
	return balance, err
}

func (r *walletRepository) ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM wallet_transactions WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, user_id, amount, type, related_booking_id, description, created_on
	          FROM wallet_transactions WHERE user_id = $1
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.WalletTransaction
	for rows.Next() {
		var tx domain.WalletTransaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Type, &tx.RelatedBookingID,
			&tx.Description, &tx.CreatedOn); err != nil {
			return nil, 0, err
		}
		txs = append(txs, tx)
	}
	return txs, count, rows.Err()
}
