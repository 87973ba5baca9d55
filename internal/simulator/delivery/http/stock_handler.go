package http

import (
	"net/http"
	"strconv"

	"classroom-stock-sim/internal/simulator/dto"
	"classroom-stock-sim/internal/simulator/service"
	"classroom-stock-sim/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StockHandler handles HTTP requests for the stock board and admin price
// edits.
type StockHandler struct {
	stockService service.StockService
	logger       *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService service.StockService, logger *logger.Logger) *StockHandler {
	return &StockHandler{stockService: stockService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/stocks", h.ListStocks)
	g.GET("/stocks/:id", h.GetStock)
	g.POST("/stocks/:id/update-price", h.UpdatePrice)
	g.GET("/pending-price-updates", h.ListPending)
	g.POST("/apply-pending-prices", h.ApplyPending)
}

// ListStocks godoc
// @Summary List all stocks
// @Description List all stocks with pending and previous prices for the board
// @Tags stocks
// @Produce  json
// @Success 200 {object} dto.StockListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks [get]
func (h *StockHandler) ListStocks(c echo.Context) error {
	resp, err := h.stockService.ListStocks(c.Request().Context())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetStock godoc
// @Summary Get a stock with its recent price history
// @Tags stocks
// @Produce  json
// @Param   id  path  int  true  "Stock ID"
// @Success 200 {object} dto.StockDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /stocks/{id} [get]
func (h *StockHandler) GetStock(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid stock ID"})
	}

	resp, err := h.stockService.GetStock(c.Request().Context(), uint(id))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdatePrice godoc
// @Summary Set a stock's price
// @Description Applies immediately during a trading window or when forced, queues otherwise
// @Tags stocks
// @Accept  json
// @Produce  json
// @Param   id  path  int  true  "Stock ID"
// @Param   update  body  dto.UpdatePriceRequest  true  "New price"
// @Success 200 {object} dto.UpdatePriceResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /stocks/{id}/update-price [post]
func (h *StockHandler) UpdatePrice(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid stock ID"})
	}

	var req dto.UpdatePriceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.stockService.UpdatePrice(c.Request().Context(), uint(id), &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListPending godoc
// @Summary List queued price edits
// @Tags stocks
// @Produce  json
// @Success 200 {object} dto.PendingListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /pending-price-updates [get]
func (h *StockHandler) ListPending(c echo.Context) error {
	resp, err := h.stockService.ListPending(c.Request().Context())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ApplyPending godoc
// @Summary Replay queued price edits
// @Description Applies all queued edits oldest first; only while trading is open
// @Tags stocks
// @Produce  json
// @Success 200 {object} dto.ApplyPendingResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /apply-pending-prices [post]
func (h *StockHandler) ApplyPending(c echo.Context) error {
	resp, err := h.stockService.ApplyPendingPrices(c.Request().Context())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}
