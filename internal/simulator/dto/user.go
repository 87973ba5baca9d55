package dto

import "time"

// UserResponse wraps one user's public info.
type UserResponse struct {
	User UserInfo `json:"user"`
}

// PortfolioItem is one holding valued at the current price.
type PortfolioItem struct {
	ID           uint      `json:"id"`
	StockID      uint      `json:"stock_id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Quantity     int64     `json:"quantity"`
	AvgPrice     float64   `json:"avg_price"`
	CurrentPrice int64     `json:"current_price"`
	Profit       int64     `json:"profit"`
	ProfitRate   float64   `json:"profit_rate"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PortfolioResponse lists a user's holdings.
type PortfolioResponse struct {
	UserStocks []PortfolioItem `json:"userStocks"`
}

// LeaderboardItem is one ranking row.
type LeaderboardItem struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	Cash        int64  `json:"cash"`
	StockValue  int64  `json:"stock_value"`
	TotalAssets int64  `json:"total_assets"`
}

// LeaderboardResponse ranks all users by total assets.
type LeaderboardResponse struct {
	Users []LeaderboardItem `json:"users"`
}

// ResetAllUsersRequest is the destructive classroom reset payload. The admin
// must re-enter their password.
type ResetAllUsersRequest struct {
	AdminUsername   string `json:"adminUsername"`
	ConfirmPassword string `json:"confirmPassword"`
}
