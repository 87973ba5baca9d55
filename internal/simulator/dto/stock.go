package dto

import (
	"time"

	"classroom-stock-sim/internal/entity"
)

// StockBoardItem is a stock with the derived fields the board needs:
// the queued price (if any) and the previous price for movement coloring.
type StockBoardItem struct {
	ID            uint      `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	CurrentPrice  int64     `json:"current_price"`
	UpdatedAt     time.Time `json:"updated_at"`
	PendingPrice  *int64    `json:"pending_price"`
	PreviousPrice int64     `json:"previous_price"`
}

// StockListResponse is the board listing.
type StockListResponse struct {
	Stocks []StockBoardItem `json:"stocks"`
}

// PriceHistoryItem is one append-only price change.
type PriceHistoryItem struct {
	ID        uint      `json:"id"`
	StockID   uint      `json:"stock_id"`
	Price     int64     `json:"price"`
	ChangedBy string    `json:"changed_by"`
	CreatedAt time.Time `json:"created_at"`
}

// StockDetailResponse is one stock with its recent price history.
type StockDetailResponse struct {
	Stock   entity.Stock       `json:"stock"`
	History []PriceHistoryItem `json:"history"`
}

// UpdatePriceRequest is the admin price edit payload.
type UpdatePriceRequest struct {
	Price         int64  `json:"price"`
	AdminUsername string `json:"adminUsername"`
	ForceApply    bool   `json:"forceApply"`
}

// UpdatePriceResponse reports whether the edit was applied immediately,
// forced, or queued for the next trading window.
type UpdatePriceResponse struct {
	Stock   StockBoardItem `json:"stock"`
	Message string         `json:"message"`
	Applied bool           `json:"applied"`
	Forced  bool           `json:"forced,omitempty"`
	Pending bool           `json:"pending,omitempty"`
}

// PendingUpdateItem is a queued price edit for the admin view.
type PendingUpdateItem struct {
	ID           uint      `json:"id"`
	StockID      uint      `json:"stock_id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	CurrentPrice int64     `json:"current_price"`
	NewPrice     int64     `json:"new_price"`
	ChangedBy    string    `json:"changed_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// PendingListResponse lists queued price edits.
type PendingListResponse struct {
	Pending []PendingUpdateItem `json:"pending"`
}

// ApplyPendingResponse reports the result of a pending-price flush.
type ApplyPendingResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	AppliedCount int    `json:"appliedCount"`
}
