package http

import (
	"errors"
	"net/http"

	"classroom-stock-sim/internal/simulator/dto"
	"classroom-stock-sim/internal/simulator/repository"
	"classroom-stock-sim/internal/simulator/service"
	"classroom-stock-sim/pkg/logger"

	"github.com/labstack/echo/v4"
)

// statusFor maps domain errors onto HTTP status codes: validation and
// domain-rule violations are 400, bad credentials 401, missing authority
// 403, missing rows 404, everything else 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrAdminAuthFailed):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrStockNotFound),
		errors.Is(err, repository.ErrNewsNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrTradingClosed),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidNewsType),
		errors.Is(err, service.ErrInvalidSetting),
		errors.Is(err, repository.ErrInsufficientFunds),
		errors.Is(err, repository.ErrInsufficientHoldings),
		errors.Is(err, repository.ErrAlreadyPurchased),
		errors.Is(err, repository.ErrFreeNews):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders a domain error. Unexpected errors are logged and
// replaced with a generic message.
func writeError(c echo.Context, log *logger.Logger, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed",
			logger.ErrorField(err),
			logger.Field("path", c.Path()))
		return c.JSON(status, dto.ErrorResponse{Error: "요청 처리 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."})
	}
	return c.JSON(status, dto.ErrorResponse{Error: err.Error()})
}
