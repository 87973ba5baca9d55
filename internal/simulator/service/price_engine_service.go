package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"classroom-stock-sim/internal/entity"
	"classroom-stock-sim/internal/simulator/dto"
	"classroom-stock-sim/internal/simulator/repository"
	"classroom-stock-sim/pkg/common"
	"classroom-stock-sim/pkg/logger"
	"classroom-stock-sim/pkg/utils"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// impactSettings is the effective per-stock tuning, defaults applied.
type impactSettings struct {
	ImpactRate    float64
	MaxChangeRate float64
	MinVolume     int64
}

// PriceEngineService aggregates trade volume per hour bucket and converts
// net volume into bounded price changes.
type PriceEngineService interface {
	RecordTrade(ctx context.Context, stockID uint, side entity.TradeSide, quantity int64)
	ApplyVolumeBasedUpdates(ctx context.Context) (*dto.VolumeUpdateResponse, error)
	CurrentVolumes(ctx context.Context) (*dto.VolumeListResponse, error)
	VolumeHistory(ctx context.Context, stockID uint) (*dto.VolumeHistoryResponse, error)
	ListImpactSettings(ctx context.Context) (*dto.ImpactSettingListResponse, error)
	UpdateImpactSetting(ctx context.Context, stockID uint, req *dto.ImpactSettingRequest) (*dto.MessageResponse, error)
}

// NewPriceEngineService creates a new price engine.
func NewPriceEngineService(
	volumeRepo repository.TradingVolumeRepository,
	stockRepo repository.StockRepository,
	impactRepo repository.PriceImpactRepository,
	boardCache repository.BoardCache,
	logger *logger.Logger,
) PriceEngineService {
	return &priceEngineService{
		volumeRepo:    volumeRepo,
		stockRepo:     stockRepo,
		impactRepo:    impactRepo,
		boardCache:    boardCache,
		logger:        logger,
		settingsCache: gocache.New(time.Minute, 5*time.Minute),
	}
}

type priceEngineService struct {
	volumeRepo    repository.TradingVolumeRepository
	stockRepo     repository.StockRepository
	impactRepo    repository.PriceImpactRepository
	boardCache    repository.BoardCache
	logger        *logger.Logger
	settingsCache *gocache.Cache
}

// RecordTrade adds a completed trade to the current hour bucket. Aggregation
// is best effort: failures are logged and never surfaced, so the trade's
// financial effect stands regardless.
func (s *priceEngineService) RecordTrade(ctx context.Context, stockID uint, side entity.TradeSide, quantity int64) {
	timeWindow := utils.TimeNowKST().Format(common.TimeWindowLayout)
	if err := s.volumeRepo.Accumulate(ctx, stockID, side, quantity, timeWindow); err != nil {
		s.logger.Error("Failed to aggregate trading volume",
			logger.ErrorField(err),
			logger.Field("stock_id", stockID),
			logger.Field("side", side),
			logger.Field("quantity", quantity))
	}
}

// ApplyVolumeBasedUpdates consumes the current window's un-applied buckets.
// Buckets below the minimum volume are marked applied with an unchanged
// price; the rest move the stock price by the clamped change rate. Failures
// are isolated per bucket.
func (s *priceEngineService) ApplyVolumeBasedUpdates(ctx context.Context) (*dto.VolumeUpdateResponse, error) {
	timeWindow := utils.TimeNowKST().Format(common.TimeWindowLayout)

	volumes, err := s.volumeRepo.FindUnapplied(ctx, timeWindow)
	if err != nil {
		return nil, err
	}
	if len(volumes) == 0 {
		return &dto.VolumeUpdateResponse{Updated: 0, Message: "업데이트할 거래량 데이터가 없습니다."}, nil
	}

	updated := 0
	for _, vol := range volumes {
		if err := s.applyBucket(ctx, vol); err != nil {
			s.logger.Error("Failed to apply volume bucket",
				logger.ErrorField(err),
				logger.Field("stock_id", vol.StockID),
				logger.Field("time_window", vol.TimeWindow))
			continue
		}
		updated++
	}

	if updated > 0 {
		s.invalidateBoard(ctx)
	}
	return &dto.VolumeUpdateResponse{
		Updated: updated,
		Message: fmt.Sprintf("%d개 종목의 주가가 업데이트되었습니다.", updated),
	}, nil
}

func (s *priceEngineService) applyBucket(ctx context.Context, vol repository.VolumeWithStock) error {
	settings, err := s.settingsFor(ctx, vol.StockID)
	if err != nil {
		return err
	}

	totalVolume := vol.BuyVolume + vol.SellVolume
	if totalVolume < settings.MinVolume {
		return s.volumeRepo.MarkApplied(ctx, vol.TradingVolume.ID, vol.PriceBefore)
	}

	newPrice := ComputeImpactedPrice(vol.CurrentPrice, vol.NetVolume, settings.ImpactRate, settings.MaxChangeRate)
	if err := s.stockRepo.ApplyPrice(ctx, vol.StockID, newPrice, common.ChangedByAutoUpdate); err != nil {
		return err
	}
	return s.volumeRepo.MarkApplied(ctx, vol.TradingVolume.ID, newPrice)
}

// ComputeImpactedPrice converts net volume into a new price. The change rate
// (net/100)*impactRate is clamped to +-maxChangeRate and the result never
// drops below 1.
func ComputeImpactedPrice(currentPrice, netVolume int64, impactRate, maxChangeRate float64) int64 {
	changeRate := float64(netVolume) / 100 * impactRate
	if changeRate > maxChangeRate {
		changeRate = maxChangeRate
	}
	if changeRate < -maxChangeRate {
		changeRate = -maxChangeRate
	}
	newPrice := int64(math.Round(float64(currentPrice) * (1 + changeRate)))
	if newPrice < 1 {
		newPrice = 1
	}
	return newPrice
}

// settingsFor returns the stock's effective impact settings, defaults when
// no row exists, cached briefly to keep the batch loop off the database.
func (s *priceEngineService) settingsFor(ctx context.Context, stockID uint) (impactSettings, error) {
	key := strconv.FormatUint(uint64(stockID), 10)
	if cached, ok := s.settingsCache.Get(key); ok {
		return cached.(impactSettings), nil
	}

	settings := impactSettings{
		ImpactRate:    common.DefaultImpactRate,
		MaxChangeRate: common.DefaultMaxChangeRate,
		MinVolume:     common.DefaultMinVolume,
	}
	row, err := s.impactRepo.FindByStockID(ctx, stockID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return impactSettings{}, err
	}
	if err == nil {
		settings = impactSettings{
			ImpactRate:    row.ImpactRate,
			MaxChangeRate: row.MaxChangeRate,
			MinVolume:     row.MinVolume,
		}
	}

	s.settingsCache.SetDefault(key, settings)
	return settings, nil
}

// CurrentVolumes lists the current window's buckets.
func (s *priceEngineService) CurrentVolumes(ctx context.Context) (*dto.VolumeListResponse, error) {
	timeWindow := utils.TimeNowKST().Format(common.TimeWindowLayout)
	volumes, err := s.volumeRepo.FindByTimeWindow(ctx, timeWindow)
	if err != nil {
		return nil, err
	}
	return &dto.VolumeListResponse{
		TimeWindow: timeWindow,
		Volumes:    mapVolumeItems(volumes),
	}, nil
}

// VolumeHistory lists a stock's recent buckets.
func (s *priceEngineService) VolumeHistory(ctx context.Context, stockID uint) (*dto.VolumeHistoryResponse, error) {
	volumes, err := s.volumeRepo.FindHistoryByStock(ctx, stockID, 50)
	if err != nil {
		return nil, err
	}
	return &dto.VolumeHistoryResponse{History: mapVolumeItems(volumes)}, nil
}

// ListImpactSettings lists all explicit per-stock settings.
func (s *priceEngineService) ListImpactSettings(ctx context.Context) (*dto.ImpactSettingListResponse, error) {
	settings, err := s.impactRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ImpactSettingItem, 0, len(settings))
	for _, setting := range settings {
		items = append(items, dto.ImpactSettingItem{
			ID:            setting.PriceImpactSetting.ID,
			StockID:       setting.StockID,
			Code:          setting.Code,
			Name:          setting.Name,
			ImpactRate:    setting.ImpactRate,
			MaxChangeRate: setting.MaxChangeRate,
			MinVolume:     setting.MinVolume,
		})
	}
	return &dto.ImpactSettingListResponse{Settings: items}, nil
}

// UpdateImpactSetting creates or replaces a stock's impact tuning.
func (s *priceEngineService) UpdateImpactSetting(ctx context.Context, stockID uint, req *dto.ImpactSettingRequest) (*dto.MessageResponse, error) {
	if req.ImpactRate <= 0 || req.MaxChangeRate <= 0 || req.MinVolume < 0 {
		return nil, ErrInvalidSetting
	}
	err := s.impactRepo.Upsert(ctx, &entity.PriceImpactSetting{
		StockID:       stockID,
		ImpactRate:    req.ImpactRate,
		MaxChangeRate: req.MaxChangeRate,
		MinVolume:     req.MinVolume,
	})
	if err != nil {
		return nil, err
	}
	s.settingsCache.Delete(strconv.FormatUint(uint64(stockID), 10))
	return &dto.MessageResponse{Success: true, Message: "주가 영향 설정이 저장되었습니다."}, nil
}

func (s *priceEngineService) invalidateBoard(ctx context.Context) {
	if err := s.boardCache.Invalidate(ctx, common.RedisKeyStockBoard, common.RedisKeyLeaderboard); err != nil {
		s.logger.Warn("Failed to invalidate board cache", logger.ErrorField(err))
	}
}

func mapVolumeItems(volumes []repository.VolumeWithStock) []dto.VolumeItem {
	items := make([]dto.VolumeItem, 0, len(volumes))
	for _, vol := range volumes {
		item := dto.VolumeItem{
			ID:           vol.TradingVolume.ID,
			StockID:      vol.StockID,
			Code:         vol.Code,
			Name:         vol.Name,
			TimeWindow:   vol.TimeWindow,
			BuyVolume:    vol.BuyVolume,
			SellVolume:   vol.SellVolume,
			NetVolume:    vol.NetVolume,
			PriceBefore:  vol.PriceBefore,
			CurrentPrice: vol.CurrentPrice,
		}
		if vol.PriceAfter.Valid {
			price := vol.PriceAfter.Int64
			item.PriceAfter = &price
		}
		if vol.AppliedAt.Valid {
			applied := vol.AppliedAt.Time
			item.AppliedAt = &applied
		}
		items = append(items, item)
	}
	return items
}
