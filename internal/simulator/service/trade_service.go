package service

import (
	"context"

	"classroom-stock-sim/internal/entity"
	"classroom-stock-sim/internal/simulator/dto"
	"classroom-stock-sim/internal/simulator/repository"
	"classroom-stock-sim/pkg/common"
	"classroom-stock-sim/pkg/logger"
	"classroom-stock-sim/pkg/utils"
)

// TradeService executes buy/sell orders for students.
type TradeService interface {
	Buy(ctx context.Context, req *dto.TradeRequest) (*dto.MessageResponse, error)
	Sell(ctx context.Context, req *dto.TradeRequest) (*dto.MessageResponse, error)
	GetTransactions(ctx context.Context, userID uint) (*dto.TransactionListResponse, error)
}

// NewTradeService creates a new trade service.
func NewTradeService(
	tradeRepo repository.TradeRepository,
	windowSvc TradingWindowService,
	priceEngine PriceEngineService,
	boardCache repository.BoardCache,
	logger *logger.Logger,
) TradeService {
	return &tradeService{
		tradeRepo:   tradeRepo,
		windowSvc:   windowSvc,
		priceEngine: priceEngine,
		boardCache:  boardCache,
		logger:      logger,
	}
}

type tradeService struct {
	tradeRepo   repository.TradeRepository
	windowSvc   TradingWindowService
	priceEngine PriceEngineService
	boardCache  repository.BoardCache
	logger      *logger.Logger
}

// Buy purchases shares at the current price. The financial flow commits as
// one transaction; volume aggregation afterwards is best effort.
func (s *tradeService) Buy(ctx context.Context, req *dto.TradeRequest) (*dto.MessageResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	trade, err := s.tradeRepo.ExecuteBuy(ctx, req.UserID, req.StockID, req.Quantity)
	if err != nil {
		return nil, err
	}
	s.afterTrade(ctx, trade)
	return &dto.MessageResponse{Success: true, Message: "매수가 완료되었습니다."}, nil
}

// Sell disposes shares at the current price. The holding's average cost is
// untouched on a partial sell.
func (s *tradeService) Sell(ctx context.Context, req *dto.TradeRequest) (*dto.MessageResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	trade, err := s.tradeRepo.ExecuteSell(ctx, req.UserID, req.StockID, req.Quantity)
	if err != nil {
		return nil, err
	}
	s.afterTrade(ctx, trade)
	return &dto.MessageResponse{Success: true, Message: "매도가 완료되었습니다."}, nil
}

func (s *tradeService) validate(req *dto.TradeRequest) error {
	if req.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if status := s.windowSvc.Status(utils.TimeNowKST()); !status.Allowed {
		return ErrTradingClosed
	}
	return nil
}

func (s *tradeService) afterTrade(ctx context.Context, trade *entity.Transaction) {
	s.priceEngine.RecordTrade(ctx, trade.StockID, trade.Type, trade.Quantity)
	// Trades move user assets, not prices; only the ranking snapshot is stale.
	if err := s.boardCache.Invalidate(ctx, common.RedisKeyLeaderboard); err != nil {
		s.logger.Warn("Failed to invalidate leaderboard cache", logger.ErrorField(err))
	}
}

// GetTransactions lists a user's most recent trades.
func (s *tradeService) GetTransactions(ctx context.Context, userID uint) (*dto.TransactionListResponse, error) {
	transactions, err := s.tradeRepo.FindByUser(ctx, userID, 50)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionItem, 0, len(transactions))
	for _, t := range transactions {
		items = append(items, dto.TransactionItem{
			ID:          t.Transaction.ID,
			UserID:      t.UserID,
			StockID:     t.StockID,
			Code:        t.Code,
			Name:        t.Name,
			Type:        string(t.Type),
			Quantity:    t.Quantity,
			Price:       t.Price,
			TotalAmount: t.TotalAmount,
			CreatedAt:   t.CreatedAt,
		})
	}
	return &dto.TransactionListResponse{Transactions: items}, nil
}
