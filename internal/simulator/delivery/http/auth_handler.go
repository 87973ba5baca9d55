package http

import (
	"net/http"

	"classroom-stock-sim/internal/simulator/dto"
	"classroom-stock-sim/internal/simulator/service"
	"classroom-stock-sim/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService service.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// RegisterRoutes registers the auth routes to the Echo group.
func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/login", h.Login)
	g.POST("/admin-login", h.AdminLogin)
	g.POST("/register", h.Register)
	g.POST("/change-password", h.ChangePassword)
}

// Login godoc
// @Summary Student/teacher login
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials  body  dto.LoginRequest  true  "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.authService.Login(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// AdminLogin godoc
// @Summary Admin login
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials  body  dto.AdminLoginRequest  true  "Credentials"
// @Success 200 {object} dto.AdminLoginResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/admin-login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req dto.AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.authService.AdminLogin(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Register godoc
// @Summary Student sign-up
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   user  body  dto.RegisterRequest  true  "New account"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Username == "" || req.Password == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "아이디, 비밀번호, 이름을 모두 입력해주세요."})
	}

	resp, err := h.authService.Register(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ChangePassword godoc
// @Summary Change password
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   change  body  dto.ChangePasswordRequest  true  "Password change"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req dto.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.authService.ChangePassword(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}
