package http

import (
	"net/http"
	"strconv"

	"classroom-stock-sim/internal/simulator/dto"
	"classroom-stock-sim/internal/simulator/service"
	"classroom-stock-sim/pkg/logger"

	"github.com/labstack/echo/v4"
)

// NewsHandler handles classroom news articles and premium purchases.
type NewsHandler struct {
	newsService service.NewsService
	logger      *logger.Logger
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(newsService service.NewsService, logger *logger.Logger) *NewsHandler {
	return &NewsHandler{newsService: newsService, logger: logger}
}

// RegisterRoutes registers the news routes to the Echo group.
func (h *NewsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/news", h.ListNews)
	g.POST("/news", h.CreateNews)
	g.POST("/news/purchase", h.PurchaseNews)
	g.GET("/news/:newsId/:userId", h.GetNews)
	g.DELETE("/news/:newsId", h.DeleteNews)
}

// ListNews godoc
// @Summary List all news articles for a viewer
// @Description Premium articles the viewer has not purchased are shown locked
// @Tags news
// @Produce  json
// @Param   userId  query  int  false  "Viewer user ID"
// @Success 200 {object} dto.NewsListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /news [get]
func (h *NewsHandler) ListNews(c echo.Context) error {
	var userID uint
	if raw := c.QueryParam("userId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid user ID"})
		}
		userID = uint(parsed)
	}

	resp, err := h.newsService.List(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetNews godoc
// @Summary Get one news article for a viewer
// @Tags news
// @Produce  json
// @Param   newsId  path  int  true  "News ID"
// @Param   userId  path  int  true  "Viewer user ID"
// @Success 200 {object} dto.NewsDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /news/{newsId}/{userId} [get]
func (h *NewsHandler) GetNews(c echo.Context) error {
	newsID, err := strconv.ParseUint(c.Param("newsId"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid news ID"})
	}
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid user ID"})
	}

	resp, err := h.newsService.Get(c.Request().Context(), uint(newsID), uint(userID))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateNews godoc
// @Summary Publish a news article
// @Tags news
// @Accept  json
// @Produce  json
// @Param   news  body  dto.CreateNewsRequest  true  "Article"
// @Success 200 {object} dto.CreateNewsResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /news [post]
func (h *NewsHandler) CreateNews(c echo.Context) error {
	var req dto.CreateNewsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.newsService.Create(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// PurchaseNews godoc
// @Summary Purchase a premium news article
// @Tags news
// @Accept  json
// @Produce  json
// @Param   purchase  body  dto.PurchaseNewsRequest  true  "Purchase"
// @Success 200 {object} dto.PurchaseNewsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /news/purchase [post]
func (h *NewsHandler) PurchaseNews(c echo.Context) error {
	var req dto.PurchaseNewsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.newsService.Purchase(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// DeleteNews godoc
// @Summary Delete a news article and its purchase records
// @Tags news
// @Accept  json
// @Produce  json
// @Param   newsId  path  int  true  "News ID"
// @Param   admin  body  dto.DeleteNewsRequest  true  "Acting admin"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /news/{newsId} [delete]
func (h *NewsHandler) DeleteNews(c echo.Context) error {
	newsID, err := strconv.ParseUint(c.Param("newsId"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid news ID"})
	}

	var req dto.DeleteNewsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.newsService.Delete(c.Request().Context(), uint(newsID), req.AdminUsername)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}
