package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"gearbook-backend/internal/domain"
	"gearbook-backend/internal/repository"
)

// MockItemRepo
type MockItemRepo struct {
	mock.Mock
}

func (m *MockItemRepo) Create(ctx context.Context, item *domain.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemRepo) GetByID(ctx context.Context, id int32) (*domain.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}
func (m *MockItemRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}
func (m *MockItemRepo) Update(ctx context.Context, item *domain.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemRepo) List(ctx context.Context, activeOnly bool, page, pageSize int32) ([]domain.InventoryItem, int32, error) {
	args := m.Called(ctx, activeOnly, page, pageSize)
	return args.Get(0).([]domain.InventoryItem), args.Get(1).(int32), args.Error(2)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) ListHolds(ctx context.Context, itemID int32, startDate, endDate string) ([]domain.Booking, error) {
	args := m.Called(ctx, itemID, startDate, endDate)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}

// MockPromoRepo
type MockPromoRepo struct {
	mock.Mock
}

func (m *MockPromoRepo) Create(ctx context.Context, pc *domain.PromoCode) error {
	args := m.Called(ctx, pc)
	return args.Error(0)
}
func (m *MockPromoRepo) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PromoCode), args.Error(1)
}
func (m *MockPromoRepo) Deactivate(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPromoRepo) ConsumeUse(ctx context.Context, id int32, code string) error {
	args := m.Called(ctx, id, code)
	return args.Error(0)
}
func (m *MockPromoRepo) CountRedemptions(ctx context.Context, promoCodeID, userID int32) (int32, error) {
	args := m.Called(ctx, promoCodeID, userID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockPromoRepo) CreateRedemption(ctx context.Context, r *domain.PromoRedemption) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// MockWalletRepo
type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) CreateTransaction(ctx context.Context, tx *domain.WalletTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockWalletRepo) SpendCredit(ctx context.Context, tx *domain.WalletTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockWalletRepo) GetBalance(ctx context.Context, userID int32) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockWalletRepo) ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.WalletTransaction), args.Get(1).(int32), args.Error(2)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingConfirmation(ctx context.Context, toEmail string, b *domain.Booking) error {
	args := m.Called(ctx, toEmail, b)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingCancellation(ctx context.Context, toEmail string, b *domain.Booking, refund decimal.Decimal) error {
	args := m.Called(ctx, toEmail, b, refund)
	return args.Error(0)
}

// passthroughTxr runs the transactional closure against the same mock
// repositories, so tests observe every write a real transaction would
// carry.
type passthroughTxr struct {
	repos repository.Repositories
}

func (t *passthroughTxr) ExecTx(ctx context.Context, fn func(repository.Repositories) error) error {
	return fn(t.repos)
}

type testEnv struct {
	items    *MockItemRepo
	bookings *MockBookingRepo
	promos   *MockPromoRepo
	wallet   *MockWalletRepo
	email    *MockEmailService
	repos    repository.Repositories
	txr      *passthroughTxr
}

func newTestEnv() *testEnv {
	env := &testEnv{
		items:    new(MockItemRepo),
		bookings: new(MockBookingRepo),
		promos:   new(MockPromoRepo),
		wallet:   new(MockWalletRepo),
		email:    new(MockEmailService),
	}
	env.repos = repository.Repositories{
		Items:    env.items,
		Bookings: env.bookings,
		Promos:   env.promos,
		Wallet:   env.wallet,
	}
	env.txr = &passthroughTxr{repos: env.repos}
	return env
}
