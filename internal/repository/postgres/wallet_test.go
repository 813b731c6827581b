package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearbook-backend/internal/domain"
	"gearbook-backend/internal/repository/postgres"
)

func TestWalletRepository_CreateTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewWalletRepository(db)
	ctx := context.Background()

	bookingID := int32(77)
	tx := &domain.WalletTransaction{
		UserID:           9,
		Amount:           dec("30.00"),
		Type:             domain.WalletTxPromoCredit,
		RelatedBookingID: &bookingID,
		Description:      "promo credit for booking ref-77",
	}

	mock.ExpectQuery("INSERT INTO wallet_transactions").
		WithArgs(tx.UserID, tx.Amount, tx.Type, tx.RelatedBookingID, tx.Description, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	require.NoError(t, repo.CreateTransaction(ctx, tx))
	assert.Equal(t, int32(5), tx.ID)
}

func TestWalletRepository_SpendCredit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewWalletRepository(db)
	ctx := context.Background()

	bookingID := int32(80)
	debit := &domain.WalletTransaction{
		UserID:           9,
		Amount:           dec("-20.00"),
		Type:             domain.WalletTxBookingDebit,
		RelatedBookingID: &bookingID,
		Description:      "credit applied to booking ref-80",
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO wallet_transactions").
			WithArgs(debit.UserID, debit.Amount, debit.Type, debit.RelatedBookingID, debit.Description, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		require.NoError(t, repo.SpendCredit(ctx, debit))
		assert.Equal(t, int32(7), debit.ID)
	})

	t.Run("BalanceGuardRejectsOverspend", func(t *testing.T) {
		// The guarded insert matched zero rows: the balance no longer
		// covers the debit.
		mock.ExpectQuery("INSERT INTO wallet_transactions").
			WithArgs(debit.UserID, debit.Amount, debit.Type, debit.RelatedBookingID, debit.Description, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err := repo.SpendCredit(ctx, debit)
		assert.ErrorIs(t, err, domain.ErrInsufficientCredit)
	})
}

func TestWalletRepository_GetBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewWalletRepository(db)
	ctx := context.Background()

	t.Run("SumsCreditsAndDebits", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM wallet_transactions WHERE user_id = \$1`).
			WithArgs(int32(9)).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("12.50"))

		balance, err := repo.GetBalance(ctx, 9)
		require.NoError(t, err)
		assert.True(t, balance.Equal(dec("12.50")))
	})

	t.Run("EmptyWalletIsZero", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM wallet_transactions WHERE user_id = \$1`).
			WithArgs(int32(42)).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("0"))

		balance, err := repo.GetBalance(ctx, 42)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})
}

func TestWalletRepository_ListTransactions(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewWalletRepository(db)
	ctx := context.Background()

	cols := []string{"id", "user_id", "amount", "type", "related_booking_id", "description", "created_on"}

	mock.ExpectQuery(`SELECT count\(\*\) FROM wallet_transactions WHERE user_id = \$1`).
		WithArgs(int32(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT (.+) FROM wallet_transactions WHERE user_id = \\$1 ORDER BY created_on DESC").
		WithArgs(int32(9), int32(20), int32(0)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, 9, "-20.00", "BOOKING_DEBIT", 77, "credit applied to booking ref-77", time.Now()).
			AddRow(1, 9, "30.00", "PROMO_CREDIT", nil, "signup promotion", time.Now()))

	txs, total, err := repo.ListTransactions(ctx, 9, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(2), total)
	require.Len(t, txs, 2)
	assert.Equal(t, domain.WalletTxBookingDebit, txs[0].Type)
	assert.True(t, txs[0].Amount.Equal(dec("-20.00")))
	require.NotNil(t, txs[0].RelatedBookingID)
	assert.Equal(t, int32(77), *txs[0].RelatedBookingID)
	assert.Nil(t, txs[1].RelatedBookingID)
}
