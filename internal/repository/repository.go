package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"gearbook-backend/internal/domain"
)

type ItemRepository interface {
	Create(ctx context.Context, item *domain.InventoryItem) error
	GetByID(ctx context.Context, id int32) (*domain.InventoryItem, error)
	// GetByIDForUpdate locks the item row for the life of the enclosing
	// transaction, serializing concurrent confirmations per item.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.InventoryItem, error)
	Update(ctx context.Context, item *domain.InventoryItem) error
	List(ctx context.Context, activeOnly bool, page, pageSize int32) ([]domain.InventoryItem, int32, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	// ListHolds returns bookings for the item that still hold inventory
	// and overlap the inclusive [startDate, endDate] window.
	ListHolds(ctx context.Context, itemID int32, startDate, endDate string) ([]domain.Booking, error)
	ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type PromoRepository interface {
	Create(ctx context.Context, pc *domain.PromoCode) error
	GetByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	Deactivate(ctx context.Context, id int32) error
	// ConsumeUse is a guarded atomic increment: it bumps current_uses
	// only while the code is active and under max_uses, and reports a
	// usage_exhausted *domain.PromoError otherwise. Never a
	// read-then-write, so two concurrent redemptions at the boundary
	// admit exactly one winner. code only labels the error.
	ConsumeUse(ctx context.Context, id int32, code string) error
	CountRedemptions(ctx context.Context, promoCodeID, userID int32) (int32, error)
	CreateRedemption(ctx context.Context, r *domain.PromoRedemption) error
}

type WalletRepository interface {
	CreateTransaction(ctx context.Context, tx *domain.WalletTransaction) error
	// SpendCredit inserts a debit row only while the resulting balance
	// stays non-negative, reporting ErrInsufficientCredit otherwise.
	// Same guarded-write shape as PromoRepository.ConsumeUse: balance
	// is a SUM over the ledger, so the check and the insert must not be
	// separable.
	SpendCredit(ctx context.Context, tx *domain.WalletTransaction) error
	GetBalance(ctx context.Context, userID int32) (decimal.Decimal, error)
	ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error)
}

// Repositories bundles the per-entity repositories that share one
// data source, either the base connection pool or a single transaction.
type Repositories struct {
	Items    ItemRepository
	Bookings BookingRepository
	Promos   PromoRepository
	Wallet   WalletRepository
}

// Transactor runs fn against transaction-scoped repositories. fn
// returning an error rolls everything back; booking confirmation relies
// on this for its check-and-insert critical section.
type Transactor interface {
	ExecTx(ctx context.Context, fn func(Repositories) error) error
}
