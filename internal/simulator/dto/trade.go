package dto

import "time"

// TradingStatusResponse reports whether trading is currently allowed.
type TradingStatusResponse struct {
	Allowed     bool   `json:"allowed"`
	IsBeta      bool   `json:"isBeta"`
	Message     string `json:"message"`
	CurrentTime string `json:"currentTime"`
}

// TradeRequest is the buy/sell payload.
type TradeRequest struct {
	UserID   uint  `json:"userId"`
	StockID  uint  `json:"stockId"`
	Quantity int64 `json:"quantity"`
}

// TransactionItem is one ledger entry joined with its stock.
type TransactionItem struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	StockID     uint      `json:"stock_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	Price       int64     `json:"price"`
	TotalAmount int64     `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransactionListResponse lists a user's recent trades.
type TransactionListResponse struct {
	Transactions []TransactionItem `json:"transactions"`
}
