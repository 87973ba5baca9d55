package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"classroom-stock-sim/internal/simulator/dto"
	"classroom-stock-sim/internal/simulator/repository"
	"classroom-stock-sim/pkg/common"
	"classroom-stock-sim/pkg/logger"
)

// UserService exposes user info, portfolios, the ranking board and the
// destructive classroom reset.
type UserService interface {
	GetUser(ctx context.Context, userID uint) (*dto.UserResponse, error)
	GetPortfolio(ctx context.Context, userID uint) (*dto.PortfolioResponse, error)
	Leaderboard(ctx context.Context) (*dto.LeaderboardResponse, error)
	ResetAllUsers(ctx context.Context, req *dto.ResetAllUsersRequest) (*dto.MessageResponse, error)
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	adminRepo repository.AdminRepository,
	auditRepo repository.AuditRepository,
	boardCache repository.BoardCache,
	boardTTL time.Duration,
	logger *logger.Logger,
) UserService {
	return &userService{
		userRepo:   userRepo,
		adminRepo:  adminRepo,
		auditRepo:  auditRepo,
		boardCache: boardCache,
		boardTTL:   boardTTL,
		logger:     logger,
	}
}

type userService struct {
	userRepo   repository.UserRepository
	adminRepo  repository.AdminRepository
	auditRepo  repository.AuditRepository
	boardCache repository.BoardCache
	boardTTL   time.Duration
	logger     *logger.Logger
}

// GetUser returns one user's public info.
func (s *userService) GetUser(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := userInfo(user)
	return &dto.UserResponse{User: info}, nil
}

// GetPortfolio returns a user's holdings valued at current prices.
func (s *userService) GetPortfolio(ctx context.Context, userID uint) (*dto.PortfolioResponse, error) {
	holdings, err := s.userRepo.FindHoldings(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PortfolioItem, 0, len(holdings))
	for _, h := range holdings {
		profit := (float64(h.CurrentPrice) - h.AvgPrice) * float64(h.Quantity)
		profitRate := 0.0
		if h.AvgPrice > 0 {
			profitRate = (float64(h.CurrentPrice) - h.AvgPrice) / h.AvgPrice * 100
		}
		items = append(items, dto.PortfolioItem{
			ID:           h.UserStock.ID,
			StockID:      h.StockID,
			Code:         h.Code,
			Name:         h.Name,
			Quantity:     h.Quantity,
			AvgPrice:     h.AvgPrice,
			CurrentPrice: h.CurrentPrice,
			Profit:       int64(math.Round(profit)),
			ProfitRate:   profitRate,
			UpdatedAt:    h.UpdatedAt,
		})
	}
	return &dto.PortfolioResponse{UserStocks: items}, nil
}

// Leaderboard ranks all users by total assets. The public board polls this,
// so the snapshot is cached briefly in Redis.
func (s *userService) Leaderboard(ctx context.Context) (*dto.LeaderboardResponse, error) {
	if payload, ok, err := s.boardCache.Get(ctx, common.RedisKeyLeaderboard); err != nil {
		s.logger.Warn("Leaderboard cache read failed", logger.ErrorField(err))
	} else if ok {
		var cached dto.LeaderboardResponse
		if err := json.Unmarshal([]byte(payload), &cached); err == nil {
			return &cached, nil
		}
	}

	users, err := s.userRepo.FindAllWithAssets(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LeaderboardItem, 0, len(users))
	for _, u := range users {
		items = append(items, dto.LeaderboardItem{
			ID:          u.ID,
			Username:    u.Username,
			Name:        u.Name,
			Cash:        u.Cash,
			StockValue:  u.StockValue,
			TotalAssets: u.TotalAssets,
		})
	}

	response := &dto.LeaderboardResponse{Users: items}
	if payload, err := json.Marshal(response); err == nil {
		if err := s.boardCache.Set(ctx, common.RedisKeyLeaderboard, string(payload), s.boardTTL); err != nil {
			s.logger.Warn("Leaderboard cache write failed", logger.ErrorField(err))
		}
	}
	return response, nil
}

// ResetAllUsers wipes the classroom back to the initial state. The admin
// must re-authenticate with their password.
func (s *userService) ResetAllUsers(ctx context.Context, req *dto.ResetAllUsersRequest) (*dto.MessageResponse, error) {
	if _, err := s.adminRepo.FindByCredentials(ctx, req.AdminUsername, req.ConfirmPassword); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrAdminAuthFailed
		}
		return nil, err
	}

	if err := s.userRepo.ResetAll(ctx); err != nil {
		return nil, err
	}

	if err := s.auditRepo.Record(ctx, req.AdminUsername, "reset_all_users", nil); err != nil {
		s.logger.Warn("Failed to record audit log", logger.ErrorField(err))
	}
	if err := s.boardCache.Invalidate(ctx, common.RedisKeyStockBoard, common.RedisKeyLeaderboard); err != nil {
		s.logger.Warn("Failed to invalidate board cache", logger.ErrorField(err))
	}

	s.logger.Info("All users reset", logger.Field("admin", req.AdminUsername))
	return &dto.MessageResponse{
		Success: true,
		Message: "모든 사용자가 초기 자본(100만원)으로 초기화되었습니다.\n- 거래 내역 삭제\n- 보유 주식 삭제\n- 현금 100만원 초기화\n- 뉴스 구매 기록 삭제",
	}, nil
}
