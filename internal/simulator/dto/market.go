package dto

import "time"

// VolumeUpdateResponse reports the result of a volume-based price run.
type VolumeUpdateResponse struct {
	Updated int    `json:"updated"`
	Message string `json:"message"`
}

// VolumeItem is one aggregation bucket joined with its stock.
type VolumeItem struct {
	ID           uint       `json:"id"`
	StockID      uint       `json:"stock_id"`
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	TimeWindow   string     `json:"time_window"`
	BuyVolume    int64      `json:"buy_volume"`
	SellVolume   int64      `json:"sell_volume"`
	NetVolume    int64      `json:"net_volume"`
	PriceBefore  int64      `json:"price_before"`
	PriceAfter   *int64     `json:"price_after"`
	AppliedAt    *time.Time `json:"applied_at"`
	CurrentPrice int64      `json:"current_price"`
}

// VolumeListResponse lists the buckets of one time window.
type VolumeListResponse struct {
	TimeWindow string       `json:"timeWindow"`
	Volumes    []VolumeItem `json:"volumes"`
}

// VolumeHistoryResponse lists a stock's recent buckets.
type VolumeHistoryResponse struct {
	History []VolumeItem `json:"history"`
}

// ImpactSettingRequest is the admin payload for per-stock impact tuning.
type ImpactSettingRequest struct {
	ImpactRate    float64 `json:"impactRate"`
	MaxChangeRate float64 `json:"maxChangeRate"`
	MinVolume     int64   `json:"minVolume"`
}

// ImpactSettingItem is one explicit impact setting joined with its stock.
type ImpactSettingItem struct {
	ID            uint    `json:"id"`
	StockID       uint    `json:"stock_id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	ImpactRate    float64 `json:"impact_rate"`
	MaxChangeRate float64 `json:"max_change_rate"`
	MinVolume     int64   `json:"min_volume"`
}

// ImpactSettingListResponse lists all explicit impact settings.
type ImpactSettingListResponse struct {
	Settings []ImpactSettingItem `json:"settings"`
}
