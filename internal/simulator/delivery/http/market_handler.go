package http

import (
	"net/http"
	"strconv"

	"classroom-stock-sim/internal/simulator/dto"
	"classroom-stock-sim/internal/simulator/service"
	"classroom-stock-sim/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketHandler exposes the volume-based price engine and its impact
// settings.
type MarketHandler struct {
	priceEngine service.PriceEngineService
	logger      *logger.Logger
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(priceEngine service.PriceEngineService, logger *logger.Logger) *MarketHandler {
	return &MarketHandler{priceEngine: priceEngine, logger: logger}
}

// RegisterRoutes registers the market routes to the Echo group.
func (h *MarketHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/update-prices-by-volume", h.UpdatePricesByVolume)
	g.GET("/trading-volume/current", h.CurrentVolumes)
	g.GET("/trading-volume/history/:stockId", h.VolumeHistory)
	g.GET("/price-impact-settings", h.ListImpactSettings)
	g.POST("/price-impact-settings/:stockId", h.UpdateImpactSetting)
}

// UpdatePricesByVolume godoc
// @Summary Recalculate prices from accumulated trading volume
// @Description Applies the net-volume impact formula to every unapplied bucket
// @Tags market
// @Produce  json
// @Success 200 {object} dto.VolumeUpdateResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /update-prices-by-volume [post]
func (h *MarketHandler) UpdatePricesByVolume(c echo.Context) error {
	resp, err := h.priceEngine.ApplyVolumeBasedUpdates(c.Request().Context())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// CurrentVolumes godoc
// @Summary List trading volume for the current hour window
// @Tags market
// @Produce  json
// @Success 200 {object} dto.VolumeListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trading-volume/current [get]
func (h *MarketHandler) CurrentVolumes(c echo.Context) error {
	resp, err := h.priceEngine.CurrentVolumes(c.Request().Context())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// VolumeHistory godoc
// @Summary List a stock's hourly volume history
// @Tags market
// @Produce  json
// @Param   stockId  path  int  true  "Stock ID"
// @Success 200 {object} dto.VolumeHistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /trading-volume/history/{stockId} [get]
func (h *MarketHandler) VolumeHistory(c echo.Context) error {
	stockID, err := strconv.ParseUint(c.Param("stockId"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid stock ID"})
	}

	resp, err := h.priceEngine.VolumeHistory(c.Request().Context(), uint(stockID))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListImpactSettings godoc
// @Summary List per-stock price impact settings
// @Tags market
// @Produce  json
// @Success 200 {object} dto.ImpactSettingListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /price-impact-settings [get]
func (h *MarketHandler) ListImpactSettings(c echo.Context) error {
	resp, err := h.priceEngine.ListImpactSettings(c.Request().Context())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateImpactSetting godoc
// @Summary Upsert a stock's price impact setting
// @Tags market
// @Accept  json
// @Produce  json
// @Param   stockId  path  int  true  "Stock ID"
// @Param   setting  body  dto.ImpactSettingRequest  true  "Impact setting"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /price-impact-settings/{stockId} [post]
func (h *MarketHandler) UpdateImpactSetting(c echo.Context) error {
	stockID, err := strconv.ParseUint(c.Param("stockId"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid stock ID"})
	}

	var req dto.ImpactSettingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.priceEngine.UpdateImpactSetting(c.Request().Context(), uint(stockID), &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}
