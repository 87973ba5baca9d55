package entity

import (
	"time"
)

// Stock is a fictional listed share. CurrentPrice is always a positive
// integer amount of currency.
type Stock struct {
	ID           uint      `gorm:"primaryKey"`
	Code         string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	CurrentPrice int64     `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// PriceHistory is the append-only log of price changes. Rows are never
// mutated; they are only removed when the owning stock is removed.
type PriceHistory struct {
	ID        uint      `gorm:"primaryKey"`
	StockID   uint      `gorm:"index;not null"`
	Price     int64     `gorm:"not null"`
	ChangedBy string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName keeps the original singular table name.
func (PriceHistory) TableName() string { return "price_history" }

// PriceImpactSetting holds the per-stock sensitivity of price to traded
// volume. Stocks without a row use the package defaults.
type PriceImpactSetting struct {
	ID            uint      `gorm:"primaryKey"`
	StockID       uint      `gorm:"uniqueIndex;not null"`
	ImpactRate    float64   `gorm:"not null"`
	MaxChangeRate float64   `gorm:"not null"`
	MinVolume     int64     `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}
