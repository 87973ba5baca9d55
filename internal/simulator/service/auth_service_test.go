package service

import (
	"context"
	"testing"

	"classroom-stock-sim/internal/entity"
	"classroom-stock-sim/internal/simulator/dto"
	"classroom-stock-sim/internal/simulator/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestAuthService() (AuthService, *MockUserRepository, *MockAdminRepository) {
	userRepo := new(MockUserRepository)
	adminRepo := new(MockAdminRepository)
	return NewAuthService(userRepo, adminRepo, newTestLogger()), userRepo, adminRepo
}

func TestAuthService_Login(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	user := &entity.User{ID: 1, Username: "student1", Name: "김철수", UserType: entity.UserTypeStudent, Cash: 1000000}
	userRepo.On("FindByCredentials", mock.Anything, "student1", "pw1234").Return(user, nil)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "student1", Password: "pw1234"})

	assert.NoError(t, err)
	assert.Equal(t, uint(1), resp.User.ID)
	assert.Equal(t, "STUDENT", resp.User.UserType)
	assert.Equal(t, int64(1000000), resp.User.Cash)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	userRepo.On("FindByCredentials", mock.Anything, "student1", "wrong").Return(nil, repository.ErrUserNotFound)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "student1", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_AdminLogin(t *testing.T) {
	svc, _, adminRepo := newTestAuthService()

	adminRepo.On("FindByCredentials", mock.Anything, "admin", "admin1234").Return(&entity.Admin{ID: 1, Username: "admin"}, nil)

	resp, err := svc.AdminLogin(context.Background(), &dto.AdminLoginRequest{Username: "admin", Password: "admin1234"})

	assert.NoError(t, err)
	assert.Equal(t, "admin", resp.Admin.Username)
}

func TestAuthService_Register(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	userRepo.On("FindByUsername", mock.Anything, "newkid").Return(nil, repository.ErrUserNotFound)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.Username == "newkid" && u.Cash == 1000000 && u.UserType == entity.UserTypeStudent
	})).Return(nil)

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{Username: "newkid", Password: "pw", Name: "이영희"})

	assert.NoError(t, err)
	assert.Equal(t, int64(1000000), resp.User.Cash)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	userRepo.On("FindByUsername", mock.Anything, "student1").Return(&entity.User{ID: 1, Username: "student1"}, nil)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Username: "student1", Password: "pw", Name: "김철수"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	userRepo.On("FindByID", mock.Anything, uint(1)).Return(&entity.User{ID: 1, Password: "old"}, nil)
	userRepo.On("UpdatePassword", mock.Anything, uint(1), "new").Return(nil)

	resp, err := svc.ChangePassword(context.Background(), &dto.ChangePasswordRequest{UserID: 1, OldPassword: "old", NewPassword: "new"})

	assert.NoError(t, err)
	assert.Equal(t, "비밀번호가 변경되었습니다.", resp.Message)
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	userRepo.On("FindByID", mock.Anything, uint(1)).Return(&entity.User{ID: 1, Password: "old"}, nil)

	_, err := svc.ChangePassword(context.Background(), &dto.ChangePasswordRequest{UserID: 1, OldPassword: "nope", NewPassword: "new"})
	assert.ErrorIs(t, err, ErrInvalidPassword)
	userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}
