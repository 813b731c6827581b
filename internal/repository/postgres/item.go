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

type itemRepository struct {
	db DBTX
}

func NewItemRepository(db DBTX) repository.ItemRepository {
	return &itemRepository{db: db}
}

const itemColumns = `id, name, description, category, daily_rate, weekly_rate, damage_deposit, replacement_value, quantity_total, condition, is_active, created_on, updated_on`

func (r *itemRepository) Create(ctx context.Context, it *domain.InventoryItem) error {
	query := `INSERT INTO inventory_items (name, description, category, daily_rate, weekly_rate, damage_deposit, replacement_value, quantity_total, condition, is_active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		it.Name, it.Description, it.Category, it.DailyRate, nullableDecimal(it.WeeklyRate),
		it.DamageDeposit, it.ReplacementValue, it.QuantityTotal, it.Condition, it.IsActive,
		now, now,
	).Scan(&it.ID)
}

func (r *itemRepository) GetByID(ctx context.Context, id int32) (*domain.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *itemRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *itemRepository) Update(ctx context.Context, it *domain.InventoryItem) error {
	query := `UPDATE inventory_items
	          SET name=$1, description=$2, category=$3, daily_rate=$4, weekly_rate=$5, damage_deposit=$6,
	              replacement_value=$7, quantity_total=$8, condition=$9, is_active=$10, updated_on=$11
	          WHERE id=$12`
	_, err := r.db.ExecContext(ctx, query,
		it.Name, it.Description, it.Category, it.DailyRate, nullableDecimal(it.WeeklyRate),
		it.DamageDeposit, it.ReplacementValue, it.QuantityTotal, it.Condition, it.IsActive,
		time.Now(), it.ID)
	return err
}

func (r *itemRepository) List(ctx context.Context, activeOnly bool, page, pageSize int32) ([]domain.InventoryItem, int32, error) {
	offset := (page - 1) * pageSize
	where := ""
	if activeOnly {
		where = " WHERE is_active"
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM inventory_items"+where).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + itemColumns + ` FROM inventory_items` + where + ` ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *it)
	}
	return items, count, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *itemRepository) scanOne(row *sql.Row) (*domain.InventoryItem, error) {
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return it, err
}

func scanItem(s rowScanner) (*domain.InventoryItem, error) {
	it := &domain.InventoryItem{}
	var weekly decimal.NullDecimal
	err := s.Scan(&it.ID, &it.Name, &it.Description, &it.Category, &it.DailyRate, &weekly,
		&it.DamageDeposit, &it.ReplacementValue, &it.QuantityTotal, &it.Condition, &it.IsActive,
		&it.CreatedOn, &it.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if weekly.Valid {
		it.WeeklyRate = &weekly.Decimal
	}
	return it, nil
}

func nullableDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
