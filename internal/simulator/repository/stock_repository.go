package repository

import (
	"context"
	"errors"
	"time"

	"classroom-stock-sim/internal/entity"

	"gorm.io/gorm"
)

// StockRepository defines the interface for stock and price-history
// operations.
type StockRepository interface {
	FindAll(ctx context.Context) ([]entity.Stock, error)
	FindByID(ctx context.Context, id uint) (*entity.Stock, error)
	ApplyPrice(ctx context.Context, stockID uint, price int64, changedBy string) error
	FindHistory(ctx context.Context, stockID uint, limit int) ([]entity.PriceHistory, error)
	FindPreviousPrices(ctx context.Context) (map[uint]int64, error)
}

// NewStockRepository creates a new GORM-based stock repository.
func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

type stockRepository struct {
	db *gorm.DB
}

// FindAll retrieves all stocks ordered by ID.
func (r *stockRepository) FindAll(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := r.db.WithContext(ctx).Order("id").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// FindByID retrieves a stock by its ID.
func (r *stockRepository) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.db.WithContext(ctx).First(&stock, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStockNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// ApplyPrice sets a stock's current price and appends the matching history
// row within a single transaction.
func (r *stockRepository) ApplyPrice(ctx context.Context, stockID uint, price int64, changedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Stock{}).Where("id = ?", stockID).
			Updates(map[string]interface{}{"current_price": price, "updated_at": time.Now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStockNotFound
		}
		return tx.Create(&entity.PriceHistory{
			StockID:   stockID,
			Price:     price,
			ChangedBy: changedBy,
		}).Error
	})
}

// FindHistory retrieves the most recent price-history rows for a stock.
func (r *stockRepository) FindHistory(ctx context.Context, stockID uint, limit int) ([]entity.PriceHistory, error) {
	var history []entity.PriceHistory
	err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("created_at DESC").
		Limit(limit).
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

// FindPreviousPrices returns the most recent history price per stock, used
// by the board to color price movement.
func (r *stockRepository) FindPreviousPrices(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		StockID uint
		Price   int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (stock_id) stock_id, price
		FROM price_history
		ORDER BY stock_id, created_at DESC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	prices := make(map[uint]int64, len(rows))
	for _, row := range rows {
		prices[row.StockID] = row.Price
	}
	return prices, nil
}
