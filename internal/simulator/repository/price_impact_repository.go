package repository

import (
	"context"
	"errors"

	"classroom-stock-sim/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingWithStock is an impact setting joined with its stock.
type SettingWithStock struct {
	entity.PriceImpactSetting
	Code string `json:"code"`
	Name string `json:"name"`
}

// PriceImpactRepository defines the interface for per-stock price impact
// settings.
type PriceImpactRepository interface {
	FindByStockID(ctx context.Context, stockID uint) (*entity.PriceImpactSetting, error)
	FindAll(ctx context.Context) ([]SettingWithStock, error)
	Upsert(ctx context.Context, setting *entity.PriceImpactSetting) error
}

// NewPriceImpactRepository creates a new GORM-based price-impact repository.
func NewPriceImpactRepository(db *gorm.DB) PriceImpactRepository {
	return &priceImpactRepository{db: db}
}

type priceImpactRepository struct {
	db *gorm.DB
}

// FindByStockID retrieves the setting for one stock. Returns
// gorm.ErrRecordNotFound when the stock uses defaults.
func (r *priceImpactRepository) FindByStockID(ctx context.Context, stockID uint) (*entity.PriceImpactSetting, error) {
	var setting entity.PriceImpactSetting
	if err := r.db.WithContext(ctx).Where("stock_id = ?", stockID).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// FindAll retrieves all explicit settings joined with stocks, ordered by
// stock code.
func (r *priceImpactRepository) FindAll(ctx context.Context) ([]SettingWithStock, error) {
	var settings []SettingWithStock
	err := r.db.WithContext(ctx).Model(&entity.PriceImpactSetting{}).
		Select("price_impact_settings.*, stocks.code, stocks.name").
		Joins("JOIN stocks ON stocks.id = price_impact_settings.stock_id").
		Order("stocks.code").
		Scan(&settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// Upsert creates or replaces the setting for a stock.
func (r *priceImpactRepository) Upsert(ctx context.Context, setting *entity.PriceImpactSetting) error {
	var exists entity.Stock
	if err := r.db.WithContext(ctx).Select("id").First(&exists, setting.StockID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStockNotFound
		}
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stock_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"impact_rate":     setting.ImpactRate,
			"max_change_rate": setting.MaxChangeRate,
			"min_volume":      setting.MinVolume,
		}),
	}).Create(setting).Error
}
