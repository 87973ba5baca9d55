package service

import "errors"

// Errors raised by service-level rules (authorization, validation, trading
// schedule). Persistence-level domain errors live in the repository package.
var (
	ErrTradingClosed      = errors.New("거래 시간이 아닙니다.")
	ErrUnauthorized       = errors.New("권한이 없습니다.")
	ErrInvalidCredentials = errors.New("아이디 또는 비밀번호가 잘못되었습니다.")
	ErrAdminAuthFailed    = errors.New("관리자 인증에 실패했습니다.")
	ErrUsernameTaken      = errors.New("이미 존재하는 아이디입니다.")
	ErrInvalidPassword    = errors.New("현재 비밀번호가 올바르지 않습니다.")
	ErrInvalidQuantity    = errors.New("수량은 1 이상이어야 합니다.")
	ErrInvalidPrice       = errors.New("가격은 1 이상이어야 합니다.")
	ErrInvalidNewsType    = errors.New("뉴스 유형이 올바르지 않습니다.")
	ErrInvalidSetting     = errors.New("주가 영향 설정 값이 올바르지 않습니다.")
)
