package http

import (
	"net/http"
	"strconv"

	"classroom-stock-sim/internal/simulator/dto"
	"classroom-stock-sim/internal/simulator/service"
	"classroom-stock-sim/pkg/logger"

	"github.com/labstack/echo/v4"
)

// UserHandler handles user profiles, portfolios and the leaderboard.
type UserHandler struct {
	userService service.UserService
	logger      *logger.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// RegisterRoutes registers the user routes to the Echo group.
func (h *UserHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/users", h.Leaderboard)
	g.GET("/users/:userId", h.GetUser)
	g.GET("/users/:userId/stocks", h.GetPortfolio)
	g.POST("/admin/reset-all-users", h.ResetAllUsers)
}

// Leaderboard godoc
// @Summary List all students ranked by total assets
// @Tags users
// @Produce  json
// @Success 200 {object} dto.LeaderboardResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users [get]
func (h *UserHandler) Leaderboard(c echo.Context) error {
	resp, err := h.userService.Leaderboard(c.Request().Context())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetUser godoc
// @Summary Get a user's profile and cash balance
// @Tags users
// @Produce  json
// @Param   userId  path  int  true  "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{userId} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid user ID"})
	}

	resp, err := h.userService.GetUser(c.Request().Context(), uint(userID))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetPortfolio godoc
// @Summary Get a user's holdings with valuation and profit
// @Tags users
// @Produce  json
// @Param   userId  path  int  true  "User ID"
// @Success 200 {object} dto.PortfolioResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{userId}/stocks [get]
func (h *UserHandler) GetPortfolio(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid user ID"})
	}

	resp, err := h.userService.GetPortfolio(c.Request().Context(), uint(userID))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ResetAllUsers godoc
// @Summary Reset every student account to the initial cash balance
// @Description Deletes transactions, holdings and purchase records after admin re-authentication
// @Tags users
// @Accept  json
// @Produce  json
// @Param   reset  body  dto.ResetAllUsersRequest  true  "Admin credentials"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/reset-all-users [post]
func (h *UserHandler) ResetAllUsers(c echo.Context) error {
	var req dto.ResetAllUsersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.userService.ResetAllUsers(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}
