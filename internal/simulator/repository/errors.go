package repository

import "errors"

// Domain-rule errors surfaced by transactional repository flows. Handlers
// map these onto HTTP status codes.
var (
	ErrUserNotFound         = errors.New("사용자를 찾을 수 없습니다.")
	ErrStockNotFound        = errors.New("주식을 찾을 수 없습니다.")
	ErrNewsNotFound         = errors.New("뉴스를 찾을 수 없습니다.")
	ErrInsufficientFunds    = errors.New("잔액이 부족합니다.")
	ErrInsufficientHoldings = errors.New("보유 수량이 부족합니다.")
	ErrAlreadyPurchased     = errors.New("이미 구매한 뉴스입니다.")
	ErrFreeNews             = errors.New("무료 뉴스입니다.")
)
