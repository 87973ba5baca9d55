package entity

import (
	"database/sql"
	"time"
)

// TradeSide is the direction of a trade.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// PendingStatus is the lifecycle state of a deferred price update.
// Transitions are one-way: pending -> applied or pending -> failed.
type PendingStatus string

const (
	PendingStatusPending PendingStatus = "pending"
	PendingStatusApplied PendingStatus = "applied"
	PendingStatusFailed  PendingStatus = "failed"
)

// Transaction is an immutable ledger entry for a completed trade.
type Transaction struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index;not null"`
	StockID     uint      `gorm:"index;not null"`
	Type        TradeSide `gorm:"not null"`
	Quantity    int64     `gorm:"not null"`
	Price       int64     `gorm:"not null"`
	TotalAmount int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// UserStock is a user's holding in one stock with its running average cost.
// The row is deleted when the quantity reaches zero.
type UserStock struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index:idx_user_stocks_user_stock,unique;not null"`
	StockID   uint      `gorm:"index:idx_user_stocks_user_stock,unique;not null"`
	Quantity  int64     `gorm:"not null"`
	AvgPrice  float64   `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TradingVolume accumulates buy/sell quantity per stock per hour bucket.
// AppliedAt is set exactly once, when the price engine consumes the bucket.
type TradingVolume struct {
	ID          uint          `gorm:"primaryKey"`
	StockID     uint          `gorm:"index;not null"`
	TimeWindow  string        `gorm:"index;not null"`
	BuyVolume   int64         `gorm:"not null"`
	SellVolume  int64         `gorm:"not null"`
	NetVolume   int64         `gorm:"not null"`
	PriceBefore int64         `gorm:"not null"`
	PriceAfter  sql.NullInt64
	AppliedAt   sql.NullTime
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// TableName keeps the original singular table name.
func (TradingVolume) TableName() string { return "trading_volume" }

// PendingPriceUpdate is an admin price edit deferred until the next open
// trading window. At most one pending row exists per stock, enforced by a
// partial unique index.
type PendingPriceUpdate struct {
	ID        uint          `gorm:"primaryKey"`
	StockID   uint          `gorm:"index;not null"`
	NewPrice  int64         `gorm:"not null"`
	ChangedBy string        `gorm:"not null"`
	Status    PendingStatus `gorm:"not null;default:pending"`
	CreatedAt time.Time     `gorm:"autoCreateTime"`
	AppliedAt sql.NullTime
}
