package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"classroom-stock-sim/internal/simulator/dto"
	"classroom-stock-sim/internal/simulator/service"
	"classroom-stock-sim/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthService implements service.AuthService for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAuthService) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AdminLoginResponse), args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, req *dto.ChangePasswordRequest) (*dto.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MessageResponse), args.Error(1)
}

func newTestAuthHandler(svc service.AuthService) *AuthHandler {
	l, err := logger.New("error", "json")
	if err != nil {
		panic(err)
	}
	return NewAuthHandler(svc, l)
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Login", mock.Anything, &dto.LoginRequest{Username: "student1", Password: "pw1234"}).
		Return(&dto.LoginResponse{User: dto.UserInfo{ID: 1, Username: "student1", Cash: 1000000}}, nil)

	e := echo.New()
	newTestAuthHandler(svc).RegisterRoutes(e.Group("/api/auth"))

	rec := doJSON(e, http.MethodPost, "/api/auth/login", `{"username":"student1","password":"pw1234"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.LoginResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "student1", resp.User.Username)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Login", mock.Anything, mock.AnythingOfType("*dto.LoginRequest")).
		Return(nil, service.ErrInvalidCredentials)

	e := echo.New()
	newTestAuthHandler(svc).RegisterRoutes(e.Group("/api/auth"))

	rec := doJSON(e, http.MethodPost, "/api/auth/login", `{"username":"student1","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp dto.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	svc := new(MockAuthService)

	e := echo.New()
	newTestAuthHandler(svc).RegisterRoutes(e.Group("/api/auth"))

	rec := doJSON(e, http.MethodPost, "/api/auth/register", `{"username":"x","password":"","name":"y"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestAuthHandler_Register_UsernameTaken(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Register", mock.Anything, mock.AnythingOfType("*dto.RegisterRequest")).
		Return(nil, service.ErrUsernameTaken)

	e := echo.New()
	newTestAuthHandler(svc).RegisterRoutes(e.Group("/api/auth"))

	rec := doJSON(e, http.MethodPost, "/api/auth/register", `{"username":"student1","password":"pw","name":"김철수"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
