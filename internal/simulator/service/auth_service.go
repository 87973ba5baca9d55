package service

import (
	"context"
	"errors"

	"classroom-stock-sim/internal/entity"
	"classroom-stock-sim/internal/simulator/dto"
	"classroom-stock-sim/internal/simulator/repository"
	"classroom-stock-sim/pkg/common"
	"classroom-stock-sim/pkg/logger"
)

// AuthService handles student/teacher and admin authentication.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.LoginResponse, error)
	ChangePassword(ctx context.Context, req *dto.ChangePasswordRequest) (*dto.MessageResponse, error)
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, adminRepo repository.AdminRepository, logger *logger.Logger) AuthService {
	return &authService{userRepo: userRepo, adminRepo: adminRepo, logger: logger}
}

type authService struct {
	userRepo  repository.UserRepository
	adminRepo repository.AdminRepository
	logger    *logger.Logger
}

// Login authenticates a student or teacher.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByCredentials(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return &dto.LoginResponse{User: userInfo(user)}, nil
}

// AdminLogin authenticates an operator account.
func (s *authService) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	admin, err := s.adminRepo.FindByCredentials(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return &dto.AdminLoginResponse{
		Admin: dto.AdminInfo{ID: admin.ID, Username: admin.Username},
	}, nil
}

// Register creates a student account with the initial cash amount.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.LoginResponse, error) {
	_, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	user := &entity.User{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		UserType: entity.UserTypeStudent,
		Cash:     common.InitialCash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", logger.Field("username", user.Username))
	return &dto.LoginResponse{User: userInfo(user)}, nil
}

// ChangePassword verifies the current password and stores the new one,
// clearing the first-login flag.
func (s *authService) ChangePassword(ctx context.Context, req *dto.ChangePasswordRequest) (*dto.MessageResponse, error) {
	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user.Password != req.OldPassword {
		return nil, ErrInvalidPassword
	}

	if err := s.userRepo.UpdatePassword(ctx, req.UserID, req.NewPassword); err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Success: true, Message: "비밀번호가 변경되었습니다."}, nil
}

func userInfo(user *entity.User) dto.UserInfo {
	return dto.UserInfo{
		ID:              user.ID,
		Username:        user.Username,
		Name:            user.Name,
		UserType:        string(user.UserType),
		Cash:            user.Cash,
		PasswordChanged: user.PasswordChanged,
	}
}
