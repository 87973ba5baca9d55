package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"classroom-stock-sim/internal/simulator/dto"
	"classroom-stock-sim/internal/simulator/repository"
	"classroom-stock-sim/pkg/common"
	"classroom-stock-sim/pkg/logger"
	"classroom-stock-sim/pkg/telegram"
	"classroom-stock-sim/pkg/utils"
)

// StockService exposes the public board and the admin price-edit flow,
// including the deferred-update queue.
type StockService interface {
	ListStocks(ctx context.Context) (*dto.StockListResponse, error)
	GetStock(ctx context.Context, id uint) (*dto.StockDetailResponse, error)
	UpdatePrice(ctx context.Context, stockID uint, req *dto.UpdatePriceRequest) (*dto.UpdatePriceResponse, error)
	ListPending(ctx context.Context) (*dto.PendingListResponse, error)
	ApplyPendingPrices(ctx context.Context) (*dto.ApplyPendingResponse, error)
}

// NewStockService creates a new stock service.
func NewStockService(
	stockRepo repository.StockRepository,
	pendingRepo repository.PendingPriceRepository,
	adminRepo repository.AdminRepository,
	auditRepo repository.AuditRepository,
	windowSvc TradingWindowService,
	boardCache repository.BoardCache,
	notifier telegram.Notifier,
	boardTTL time.Duration,
	logger *logger.Logger,
) StockService {
	return &stockService{
		stockRepo:   stockRepo,
		pendingRepo: pendingRepo,
		adminRepo:   adminRepo,
		auditRepo:   auditRepo,
		windowSvc:   windowSvc,
		boardCache:  boardCache,
		notifier:    notifier,
		boardTTL:    boardTTL,
		logger:      logger,
	}
}

type stockService struct {
	stockRepo   repository.StockRepository
	pendingRepo repository.PendingPriceRepository
	adminRepo   repository.AdminRepository
	auditRepo   repository.AuditRepository
	windowSvc   TradingWindowService
	boardCache  repository.BoardCache
	notifier    telegram.Notifier
	boardTTL    time.Duration
	logger      *logger.Logger
}

// ListStocks builds the board listing with pending and previous prices.
// Many clients poll this every few seconds, so the assembled snapshot is
// cached briefly in Redis.
func (s *stockService) ListStocks(ctx context.Context) (*dto.StockListResponse, error) {
	if payload, ok, err := s.boardCache.Get(ctx, common.RedisKeyStockBoard); err != nil {
		s.logger.Warn("Board cache read failed", logger.ErrorField(err))
	} else if ok {
		var cached dto.StockListResponse
		if err := json.Unmarshal([]byte(payload), &cached); err == nil {
			return &cached, nil
		}
	}

	stocks, err := s.stockRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	pendingPrices, err := s.pendingRepo.FindPendingPrices(ctx)
	if err != nil {
		return nil, err
	}
	previousPrices, err := s.stockRepo.FindPreviousPrices(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.StockBoardItem, 0, len(stocks))
	for _, stock := range stocks {
		item := dto.StockBoardItem{
			ID:            stock.ID,
			Code:          stock.Code,
			Name:          stock.Name,
			CurrentPrice:  stock.CurrentPrice,
			UpdatedAt:     stock.UpdatedAt,
			PreviousPrice: stock.CurrentPrice,
		}
		if price, ok := pendingPrices[stock.ID]; ok {
			pending := price
			item.PendingPrice = &pending
		}
		if price, ok := previousPrices[stock.ID]; ok {
			item.PreviousPrice = price
		}
		items = append(items, item)
	}

	response := &dto.StockListResponse{Stocks: items}
	if payload, err := json.Marshal(response); err == nil {
		if err := s.boardCache.Set(ctx, common.RedisKeyStockBoard, string(payload), s.boardTTL); err != nil {
			s.logger.Warn("Board cache write failed", logger.ErrorField(err))
		}
	}
	return response, nil
}

// GetStock returns one stock with its recent price history.
func (s *stockService) GetStock(ctx context.Context, id uint) (*dto.StockDetailResponse, error) {
	stock, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.stockRepo.FindHistory(ctx, id, 20)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PriceHistoryItem, 0, len(history))
	for _, h := range history {
		items = append(items, dto.PriceHistoryItem{
			ID:        h.ID,
			StockID:   h.StockID,
			Price:     h.Price,
			ChangedBy: h.ChangedBy,
			CreatedAt: h.CreatedAt,
		})
	}
	return &dto.StockDetailResponse{Stock: *stock, History: items}, nil
}

// UpdatePrice applies an admin price edit immediately when forced or when a
// trading window is open; otherwise it queues the edit for the next window,
// overwriting any earlier queued edit for the same stock.
func (s *stockService) UpdatePrice(ctx context.Context, stockID uint, req *dto.UpdatePriceRequest) (*dto.UpdatePriceResponse, error) {
	if req.Price < 1 {
		return nil, ErrInvalidPrice
	}
	if _, err := s.adminRepo.FindByUsername(ctx, req.AdminUsername); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	stock, err := s.stockRepo.FindByID(ctx, stockID)
	if err != nil {
		return nil, err
	}

	status := s.windowSvc.Status(utils.TimeNowKST())
	if req.ForceApply || status.Allowed {
		changedBy := req.AdminUsername
		if req.ForceApply {
			changedBy += common.ForcedApplySuffix
		}
		if err := s.stockRepo.ApplyPrice(ctx, stockID, req.Price, changedBy); err != nil {
			return nil, err
		}
		if err := s.pendingRepo.DeletePending(ctx, stockID); err != nil {
			return nil, err
		}
		s.invalidateBoard(ctx)
		s.audit(ctx, req.AdminUsername, "update_price", map[string]interface{}{
			"stock_id":  stockID,
			"old_price": stock.CurrentPrice,
			"new_price": req.Price,
			"forced":    req.ForceApply,
		})
		if req.ForceApply {
			s.notify(fmt.Sprintf("⚡ %s 주가가 %d원으로 강제 반영되었습니다.", stock.Name, req.Price))
		}

		message := "주가가 즉시 반영되었습니다."
		if req.ForceApply {
			message = "주가가 강제로 즉시 반영되었습니다."
		}
		return &dto.UpdatePriceResponse{
			Stock: dto.StockBoardItem{
				ID:            stock.ID,
				Code:          stock.Code,
				Name:          stock.Name,
				CurrentPrice:  req.Price,
				UpdatedAt:     utils.TimeNowKST(),
				PreviousPrice: stock.CurrentPrice,
			},
			Message: message,
			Applied: true,
			Forced:  req.ForceApply,
		}, nil
	}

	if err := s.pendingRepo.Schedule(ctx, stockID, req.Price, req.AdminUsername); err != nil {
		return nil, err
	}
	s.invalidateBoard(ctx)
	s.audit(ctx, req.AdminUsername, "schedule_price", map[string]interface{}{
		"stock_id":  stockID,
		"new_price": req.Price,
	})

	pending := req.Price
	return &dto.UpdatePriceResponse{
		Stock: dto.StockBoardItem{
			ID:            stock.ID,
			Code:          stock.Code,
			Name:          stock.Name,
			CurrentPrice:  stock.CurrentPrice,
			UpdatedAt:     stock.UpdatedAt,
			PendingPrice:  &pending,
			PreviousPrice: stock.CurrentPrice,
		},
		Message: "주가 변경이 예약되었습니다. 다음 거래 시간에 자동으로 반영됩니다.",
		Pending: true,
	}, nil
}

// ListPending lists queued price edits for the admin view.
func (s *stockService) ListPending(ctx context.Context) (*dto.PendingListResponse, error) {
	pending, err := s.pendingRepo.FindPendingWithStocks(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PendingUpdateItem, 0, len(pending))
	for _, p := range pending {
		items = append(items, dto.PendingUpdateItem{
			ID:           p.PendingPriceUpdate.ID,
			StockID:      p.StockID,
			Code:         p.Code,
			Name:         p.Name,
			CurrentPrice: p.CurrentPrice,
			NewPrice:     p.NewPrice,
			ChangedBy:    p.ChangedBy,
			CreatedAt:    p.CreatedAt,
		})
	}
	return &dto.PendingListResponse{Pending: items}, nil
}

// ApplyPendingPrices replays queued edits oldest first. Edits whose stock no
// longer exists are marked failed; other per-row failures are logged and do
// not abort the batch. Callable only while a trading window is open.
func (s *stockService) ApplyPendingPrices(ctx context.Context) (*dto.ApplyPendingResponse, error) {
	status := s.windowSvc.Status(utils.TimeNowKST())
	if !status.Allowed {
		return nil, ErrTradingClosed
	}

	pending, err := s.pendingRepo.FindPending(ctx)
	if err != nil {
		return nil, err
	}

	applied := 0
	for _, update := range pending {
		if _, err := s.stockRepo.FindByID(ctx, update.StockID); err != nil {
			if errors.Is(err, repository.ErrStockNotFound) {
				s.logger.Error("Pending update references missing stock",
					logger.Field("pending_id", update.ID),
					logger.Field("stock_id", update.StockID))
				if err := s.pendingRepo.MarkFailed(ctx, update.ID); err != nil {
					s.logger.Error("Failed to mark pending update failed", logger.ErrorField(err))
				}
				continue
			}
			s.logger.Error("Failed to load stock for pending update", logger.ErrorField(err))
			continue
		}
		if err := s.stockRepo.ApplyPrice(ctx, update.StockID, update.NewPrice, update.ChangedBy); err != nil {
			s.logger.Error("Failed to apply pending update",
				logger.ErrorField(err),
				logger.Field("pending_id", update.ID))
			continue
		}
		if err := s.pendingRepo.MarkApplied(ctx, update.ID); err != nil {
			s.logger.Error("Failed to mark pending update applied",
				logger.ErrorField(err),
				logger.Field("pending_id", update.ID))
			continue
		}
		applied++
	}

	if applied > 0 {
		s.invalidateBoard(ctx)
	}
	return &dto.ApplyPendingResponse{
		Success:      true,
		Message:      fmt.Sprintf("%d개의 주가 변경이 적용되었습니다.", applied),
		AppliedCount: applied,
	}, nil
}

func (s *stockService) invalidateBoard(ctx context.Context) {
	if err := s.boardCache.Invalidate(ctx, common.RedisKeyStockBoard, common.RedisKeyLeaderboard); err != nil {
		s.logger.Warn("Failed to invalidate board cache", logger.ErrorField(err))
	}
}

func (s *stockService) audit(ctx context.Context, actor, action string, detail interface{}) {
	if err := s.auditRepo.Record(ctx, actor, action, detail); err != nil {
		s.logger.Warn("Failed to record audit log", logger.ErrorField(err), logger.Field("action", action))
	}
}

func (s *stockService) notify(text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendMessage(text); err != nil {
		s.logger.Warn("Failed to send telegram notification", logger.ErrorField(err))
	}
}
