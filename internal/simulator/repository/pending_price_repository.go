package repository

import (
	"context"
	"time"

	"classroom-stock-sim/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PendingWithStock is a queued price edit joined with its stock.
type PendingWithStock struct {
	entity.PendingPriceUpdate
	Code         string `json:"code"`
	Name         string `json:"name"`
	CurrentPrice int64  `json:"current_price"`
}

// PendingPriceRepository defines the interface for the deferred price-update
// queue. A partial unique index keeps at most one pending row per stock.
type PendingPriceRepository interface {
	Schedule(ctx context.Context, stockID uint, newPrice int64, changedBy string) error
	FindPending(ctx context.Context) ([]entity.PendingPriceUpdate, error)
	FindPendingWithStocks(ctx context.Context) ([]PendingWithStock, error)
	FindPendingPrices(ctx context.Context) (map[uint]int64, error)
	MarkApplied(ctx context.Context, id uint) error
	MarkFailed(ctx context.Context, id uint) error
	DeletePending(ctx context.Context, stockID uint) error
}

// NewPendingPriceRepository creates a new GORM-based pending-price repository.
func NewPendingPriceRepository(db *gorm.DB) PendingPriceRepository {
	return &pendingPriceRepository{db: db}
}

type pendingPriceRepository struct {
	db *gorm.DB
}

// Schedule queues a price edit for the stock. An existing pending edit for
// the same stock is overwritten (last writer wins) via upsert against the
// partial unique index.
func (r *pendingPriceRepository) Schedule(ctx context.Context, stockID uint, newPrice int64, changedBy string) error {
	update := entity.PendingPriceUpdate{
		StockID:   stockID,
		NewPrice:  newPrice,
		ChangedBy: changedBy,
		Status:    entity.PendingStatusPending,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:     []clause.Column{{Name: "stock_id"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Eq{Column: "status", Value: string(entity.PendingStatusPending)}}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"new_price":  newPrice,
			"changed_by": changedBy,
			"created_at": time.Now(),
		}),
	}).Create(&update).Error
}

// FindPending retrieves all pending updates, oldest first.
func (r *pendingPriceRepository) FindPending(ctx context.Context) ([]entity.PendingPriceUpdate, error) {
	var updates []entity.PendingPriceUpdate
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.PendingStatusPending).
		Order("created_at ASC").
		Find(&updates).Error
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// FindPendingWithStocks retrieves pending updates joined with stock data,
// newest first, for the admin view.
func (r *pendingPriceRepository) FindPendingWithStocks(ctx context.Context) ([]PendingWithStock, error) {
	var updates []PendingWithStock
	err := r.db.WithContext(ctx).Model(&entity.PendingPriceUpdate{}).
		Select("pending_price_updates.*, stocks.code, stocks.name, stocks.current_price").
		Joins("JOIN stocks ON stocks.id = pending_price_updates.stock_id").
		Where("pending_price_updates.status = ?", entity.PendingStatusPending).
		Order("pending_price_updates.created_at DESC").
		Scan(&updates).Error
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// FindPendingPrices returns stock_id -> queued price for all pending rows.
func (r *pendingPriceRepository) FindPendingPrices(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		StockID  uint
		NewPrice int64
	}
	err := r.db.WithContext(ctx).Model(&entity.PendingPriceUpdate{}).
		Select("stock_id, new_price").
		Where("status = ?", entity.PendingStatusPending).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	prices := make(map[uint]int64, len(rows))
	for _, row := range rows {
		prices[row.StockID] = row.NewPrice
	}
	return prices, nil
}

// MarkApplied transitions a pending row to applied and stamps the time.
func (r *pendingPriceRepository) MarkApplied(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&entity.PendingPriceUpdate{}).
		Where("id = ? AND status = ?", id, entity.PendingStatusPending).
		Updates(map[string]interface{}{
			"status":     entity.PendingStatusApplied,
			"applied_at": time.Now(),
		}).Error
}

// MarkFailed transitions a pending row to failed.
func (r *pendingPriceRepository) MarkFailed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&entity.PendingPriceUpdate{}).
		Where("id = ? AND status = ?", id, entity.PendingStatusPending).
		Update("status", entity.PendingStatusFailed).Error
}

// DeletePending removes the queued edit for a stock, if any.
func (r *pendingPriceRepository) DeletePending(ctx context.Context, stockID uint) error {
	return r.db.WithContext(ctx).
		Where("stock_id = ? AND status = ?", stockID, entity.PendingStatusPending).
		Delete(&entity.PendingPriceUpdate{}).Error
}
