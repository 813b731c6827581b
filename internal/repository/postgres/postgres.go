package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"gearbook-backend/internal/repository"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repository can
// run against the pool or inside a transaction unchanged.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.ItemRepository
	repository.BookingRepository
	repository.PromoRepository
	repository.WalletRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		ItemRepository:    NewItemRepository(db),
		BookingRepository: NewBookingRepository(db),
		PromoRepository:   NewPromoRepository(db),
		WalletRepository:  NewWalletRepository(db),
	}
}

// Repos exposes the pool-backed repositories as a bundle.
func (s *Store) Repos() repository.Repositories {
	return repository.Repositories{
		Items:    s.ItemRepository,
		Bookings: s.BookingRepository,
		Promos:   s.PromoRepository,
		Wallet:   s.WalletRepository,
	}
}

// ExecTx runs fn inside a single database transaction. Row locks taken
// through the tx-bound repositories (items FOR UPDATE) hold until commit
// or rollback.
func (s *Store) ExecTx(ctx context.Context, fn func(repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	repos := repository.Repositories{
		Items:    NewItemRepository(tx),
		Bookings: NewBookingRepository(tx),
		Promos:   NewPromoRepository(tx),
		Wallet:   NewWalletRepository(tx),
	}

	if err := fn(repos); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
