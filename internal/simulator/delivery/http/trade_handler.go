package http

import (
	"net/http"
	"strconv"

	"classroom-stock-sim/internal/simulator/dto"
	"classroom-stock-sim/internal/simulator/service"
	"classroom-stock-sim/pkg/logger"
	"classroom-stock-sim/pkg/utils"

	"github.com/labstack/echo/v4"
)

// TradeHandler handles buy and sell requests and transaction history.
type TradeHandler struct {
	tradeService service.TradeService
	windowSvc    service.TradingWindowService
	logger       *logger.Logger
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeService service.TradeService, windowSvc service.TradingWindowService, logger *logger.Logger) *TradeHandler {
	return &TradeHandler{tradeService: tradeService, windowSvc: windowSvc, logger: logger}
}

// RegisterRoutes registers the trading routes to the Echo group.
func (h *TradeHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/trading-status", h.TradingStatus)
	g.POST("/transactions/buy", h.Buy)
	g.POST("/transactions/sell", h.Sell)
	g.GET("/transactions/:userId", h.ListTransactions)
}

// TradingStatus godoc
// @Summary Report whether trading is currently open
// @Tags trading
// @Produce  json
// @Success 200 {object} dto.TradingStatusResponse
// @Router /trading-status [get]
func (h *TradeHandler) TradingStatus(c echo.Context) error {
	now := utils.TimeNowKST()
	status := h.windowSvc.Status(now)
	return c.JSON(http.StatusOK, &dto.TradingStatusResponse{
		Allowed:     status.Allowed,
		IsBeta:      status.IsBeta,
		Message:     status.Message,
		CurrentTime: now.Format("2006-01-02 15:04:05"),
	})
}

// Buy godoc
// @Summary Buy a stock at the current price
// @Tags trading
// @Accept  json
// @Produce  json
// @Param   trade  body  dto.TradeRequest  true  "Buy order"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /transactions/buy [post]
func (h *TradeHandler) Buy(c echo.Context) error {
	var req dto.TradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.tradeService.Buy(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Sell godoc
// @Summary Sell a held stock at the current price
// @Tags trading
// @Accept  json
// @Produce  json
// @Param   trade  body  dto.TradeRequest  true  "Sell order"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /transactions/sell [post]
func (h *TradeHandler) Sell(c echo.Context) error {
	var req dto.TradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.tradeService.Sell(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListTransactions godoc
// @Summary List a user's recent transactions
// @Tags trading
// @Produce  json
// @Param   userId  path  int  true  "User ID"
// @Success 200 {object} dto.TransactionListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /transactions/{userId} [get]
func (h *TradeHandler) ListTransactions(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid user ID"})
	}

	resp, err := h.tradeService.GetTransactions(c.Request().Context(), uint(userID))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}
