package repository

import (
	"context"
	"errors"
	"time"

	"classroom-stock-sim/internal/entity"

	"gorm.io/gorm"
)

// VolumeWithStock is a volume bucket joined with its stock.
type VolumeWithStock struct {
	entity.TradingVolume
	Code         string `json:"code"`
	Name         string `json:"name"`
	CurrentPrice int64  `json:"current_price"`
}

// TradingVolumeRepository defines the interface for per-window trade volume
// aggregation.
type TradingVolumeRepository interface {
	Accumulate(ctx context.Context, stockID uint, side entity.TradeSide, quantity int64, timeWindow string) error
	FindUnapplied(ctx context.Context, timeWindow string) ([]VolumeWithStock, error)
	MarkApplied(ctx context.Context, id uint, priceAfter int64) error
	FindByTimeWindow(ctx context.Context, timeWindow string) ([]VolumeWithStock, error)
	FindHistoryByStock(ctx context.Context, stockID uint, limit int) ([]VolumeWithStock, error)
}

// NewTradingVolumeRepository creates a new GORM-based trading-volume
// repository.
func NewTradingVolumeRepository(db *gorm.DB) TradingVolumeRepository {
	return &tradingVolumeRepository{db: db}
}

type tradingVolumeRepository struct {
	db *gorm.DB
}

// Accumulate adds a trade's quantity to the stock's bucket for the window.
// The first trade creates the bucket and snapshots price_before from the
// stock's current price; later trades increment in place and recompute net.
func (r *tradingVolumeRepository) Accumulate(ctx context.Context, stockID uint, side entity.TradeSide, quantity int64, timeWindow string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stock entity.Stock
		if err := tx.Select("current_price").First(&stock, stockID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStockNotFound
			}
			return err
		}

		var bucket entity.TradingVolume
		err := tx.Where("stock_id = ? AND time_window = ?", stockID, timeWindow).
			First(&bucket).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			buyVolume, sellVolume := int64(0), int64(0)
			if side == entity.TradeSideBuy {
				buyVolume = quantity
			} else {
				sellVolume = quantity
			}
			return tx.Create(&entity.TradingVolume{
				StockID:     stockID,
				TimeWindow:  timeWindow,
				BuyVolume:   buyVolume,
				SellVolume:  sellVolume,
				NetVolume:   buyVolume - sellVolume,
				PriceBefore: stock.CurrentPrice,
			}).Error
		}
		if err != nil {
			return err
		}

		if side == entity.TradeSideBuy {
			return tx.Model(&entity.TradingVolume{}).
				Where("id = ?", bucket.ID).
				Updates(map[string]interface{}{
					"buy_volume": gorm.Expr("buy_volume + ?", quantity),
					"net_volume": gorm.Expr("(buy_volume + ?) - sell_volume", quantity),
				}).Error
		}
		return tx.Model(&entity.TradingVolume{}).
			Where("id = ?", bucket.ID).
			Updates(map[string]interface{}{
				"sell_volume": gorm.Expr("sell_volume + ?", quantity),
				"net_volume":  gorm.Expr("buy_volume - (sell_volume + ?)", quantity),
			}).Error
	})
}

// FindUnapplied retrieves the window's buckets not yet consumed by the price
// engine, joined with their stocks.
func (r *tradingVolumeRepository) FindUnapplied(ctx context.Context, timeWindow string) ([]VolumeWithStock, error) {
	var volumes []VolumeWithStock
	err := r.db.WithContext(ctx).Model(&entity.TradingVolume{}).
		Select("trading_volume.*, stocks.code, stocks.name, stocks.current_price").
		Joins("JOIN stocks ON stocks.id = trading_volume.stock_id").
		Where("trading_volume.time_window = ? AND trading_volume.applied_at IS NULL", timeWindow).
		Scan(&volumes).Error
	if err != nil {
		return nil, err
	}
	return volumes, nil
}

// MarkApplied stamps a bucket as consumed and records the resulting price.
// Already-applied buckets are left untouched.
func (r *tradingVolumeRepository) MarkApplied(ctx context.Context, id uint, priceAfter int64) error {
	return r.db.WithContext(ctx).Model(&entity.TradingVolume{}).
		Where("id = ? AND applied_at IS NULL", id).
		Updates(map[string]interface{}{
			"price_after": priceAfter,
			"applied_at":  time.Now(),
		}).Error
}

// FindByTimeWindow retrieves all buckets of a window, ordered by stock code.
func (r *tradingVolumeRepository) FindByTimeWindow(ctx context.Context, timeWindow string) ([]VolumeWithStock, error) {
	var volumes []VolumeWithStock
	err := r.db.WithContext(ctx).Model(&entity.TradingVolume{}).
		Select("trading_volume.*, stocks.code, stocks.name, stocks.current_price").
		Joins("JOIN stocks ON stocks.id = trading_volume.stock_id").
		Where("trading_volume.time_window = ?", timeWindow).
		Order("stocks.code").
		Scan(&volumes).Error
	if err != nil {
		return nil, err
	}
	return volumes, nil
}

// FindHistoryByStock retrieves a stock's most recent buckets.
func (r *tradingVolumeRepository) FindHistoryByStock(ctx context.Context, stockID uint, limit int) ([]VolumeWithStock, error) {
	var volumes []VolumeWithStock
	err := r.db.WithContext(ctx).Model(&entity.TradingVolume{}).
		Select("trading_volume.*, stocks.code, stocks.name, stocks.current_price").
		Joins("JOIN stocks ON stocks.id = trading_volume.stock_id").
		Where("trading_volume.stock_id = ?", stockID).
		Order("trading_volume.time_window DESC").
		Limit(limit).
		Scan(&volumes).Error
	if err != nil {
		return nil, err
	}
	return volumes, nil
}
