package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"gearbook-backend/internal/domain"
	"gearbook-backend/internal/logger"
	"gearbook-backend/internal/repository"
)

type catalogService struct {
	repos repository.Repositories
}

func NewCatalogService(repos repository.Repositories) CatalogService {
	return &catalogService{repos: repos}
}

func validateItem(item *domain.InventoryItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return fmt.Errorf("%w: item name is required", domain.ErrInvalidInput)
	}
	if item.DailyRate.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: daily rate must be positive", domain.ErrInvalidInput)
	}
	if item.WeeklyRate != nil && item.WeeklyRate.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: weekly rate must be positive when set", domain.ErrInvalidInput)
	}
	if item.DamageDeposit.IsNegative() {
		return fmt.Errorf("%w: damage deposit cannot be negative", domain.ErrInvalidInput)
	}
	if item.QuantityTotal < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidInput)
	}
	if item.Condition == "" {
		item.Condition = domain.ItemConditionGood
	}
	return nil
}

func (s *catalogService) CreateItem(ctx context.Context, item *domain.InventoryItem) error {
	if err := validateItem(item); err != nil {
		return err
	}
	if err := s.repos.Items.Create(ctx, item); err != nil {
		return err
	}
	logger.Info("Inventory item created", "item_id", item.ID, "name", item.Name, "quantity", item.QuantityTotal)
	return nil
}

// UpdateItem replaces the catalog fields. Shrinking QuantityTotal does
// not touch existing bookings; future availability checks simply see
// the smaller pool.
func (s *catalogService) UpdateItem(ctx context.Context, item *domain.InventoryItem) error {
	if err := validateItem(item); err != nil {
		return err
	}
	if _, err := s.repos.Items.GetByID(ctx, item.ID); err != nil {
		return err
	}
	return s.repos.Items.Update(ctx, item)
}

func (s *catalogService) GetItem(ctx context.Context, id int32) (*domain.InventoryItem, error) {
	return s.repos.Items.GetByID(ctx, id)
}

func (s *catalogService) ListItems(ctx context.Context, activeOnly bool, page, pageSize int32) ([]domain.InventoryItem, int32, error) {
	return s.repos.Items.List(ctx, activeOnly, page, pageSize)
}

// DeactivateItem stops new bookings without disturbing existing ones.
func (s *catalogService) DeactivateItem(ctx context.Context, id int32) error {
	item, err := s.repos.Items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !item.IsActive {
		return nil
	}
	item.IsActive = false
	if err := s.repos.Items.Update(ctx, item); err != nil {
		return err
	}
	logger.Info("Inventory item deactivated", "item_id", id)
	return nil
}
