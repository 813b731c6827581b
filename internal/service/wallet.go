package service

import (
	"context"

	"github.com/shopspring/decimal"

	"gearbook-backend/internal/domain"
	"gearbook-backend/internal/repository"
)

type walletService struct {
	repos repository.Repositories
}

func NewWalletService(repos repository.Repositories) WalletService {
	return &walletService{repos: repos}
}

func (s *walletService) GetBalance(ctx context.Context, userID int32) (decimal.Decimal, error) {
	return s.repos.Wallet.GetBalance(ctx, userID)
}

func (s *walletService) ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	return s.repos.Wallet.ListTransactions(ctx, userID, page, pageSize)
}
