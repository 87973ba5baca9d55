package service

import (
	"context"
	"time"

	"classroom-stock-sim/internal/entity"
	"classroom-stock-sim/internal/simulator/dto"
	"classroom-stock-sim/internal/simulator/repository"
	"classroom-stock-sim/pkg/logger"

	"github.com/stretchr/testify/mock"
)

func newTestLogger() *logger.Logger {
	l, err := logger.New("error", "json")
	if err != nil {
		panic(err)
	}
	return l
}

// fixedWindowService reports a constant trading status.
type fixedWindowService struct {
	allowed bool
}

func (s *fixedWindowService) Status(now time.Time) TradingStatus {
	if s.allowed {
		return TradingStatus{Allowed: true, Message: "open"}
	}
	return TradingStatus{Allowed: false, Message: "closed"}
}

// MockStockRepository implements repository.StockRepository for testing
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) FindAll(ctx context.Context) ([]entity.Stock, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Stock), args.Error(1)
}

func (m *MockStockRepository) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Stock), args.Error(1)
}

func (m *MockStockRepository) ApplyPrice(ctx context.Context, stockID uint, price int64, changedBy string) error {
	args := m.Called(ctx, stockID, price, changedBy)
	return args.Error(0)
}

func (m *MockStockRepository) FindHistory(ctx context.Context, stockID uint, limit int) ([]entity.PriceHistory, error) {
	args := m.Called(ctx, stockID, limit)
	return args.Get(0).([]entity.PriceHistory), args.Error(1)
}

func (m *MockStockRepository) FindPreviousPrices(ctx context.Context) (map[uint]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[uint]int64), args.Error(1)
}

// MockPendingPriceRepository implements repository.PendingPriceRepository for testing
type MockPendingPriceRepository struct {
	mock.Mock
}

func (m *MockPendingPriceRepository) Schedule(ctx context.Context, stockID uint, newPrice int64, changedBy string) error {
	args := m.Called(ctx, stockID, newPrice, changedBy)
	return args.Error(0)
}

func (m *MockPendingPriceRepository) FindPending(ctx context.Context) ([]entity.PendingPriceUpdate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.PendingPriceUpdate), args.Error(1)
}

func (m *MockPendingPriceRepository) FindPendingWithStocks(ctx context.Context) ([]repository.PendingWithStock, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repository.PendingWithStock), args.Error(1)
}

func (m *MockPendingPriceRepository) FindPendingPrices(ctx context.Context) (map[uint]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[uint]int64), args.Error(1)
}

func (m *MockPendingPriceRepository) MarkApplied(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPendingPriceRepository) MarkFailed(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPendingPriceRepository) DeletePending(ctx context.Context, stockID uint) error {
	args := m.Called(ctx, stockID)
	return args.Error(0)
}

// fakePendingQueue is an in-memory pending-price queue honoring the storage
// contract: at most one pending row per stock, and scheduling again for the
// same stock overwrites the queued price (last writer wins).
type fakePendingQueue struct {
	nextID uint
	rows   []entity.PendingPriceUpdate
}

func (f *fakePendingQueue) Schedule(ctx context.Context, stockID uint, newPrice int64, changedBy string) error {
	for i := range f.rows {
		if f.rows[i].StockID == stockID && f.rows[i].Status == entity.PendingStatusPending {
			f.rows[i].NewPrice = newPrice
			f.rows[i].ChangedBy = changedBy
			return nil
		}
	}
	f.nextID++
	f.rows = append(f.rows, entity.PendingPriceUpdate{
		ID:        f.nextID,
		StockID:   stockID,
		NewPrice:  newPrice,
		ChangedBy: changedBy,
		Status:    entity.PendingStatusPending,
	})
	return nil
}

func (f *fakePendingQueue) FindPending(ctx context.Context) ([]entity.PendingPriceUpdate, error) {
	var pending []entity.PendingPriceUpdate
	for _, row := range f.rows {
		if row.Status == entity.PendingStatusPending {
			pending = append(pending, row)
		}
	}
	return pending, nil
}

func (f *fakePendingQueue) FindPendingWithStocks(ctx context.Context) ([]repository.PendingWithStock, error) {
	pending, _ := f.FindPending(ctx)
	items := make([]repository.PendingWithStock, 0, len(pending))
	for _, row := range pending {
		items = append(items, repository.PendingWithStock{PendingPriceUpdate: row})
	}
	return items, nil
}

func (f *fakePendingQueue) FindPendingPrices(ctx context.Context) (map[uint]int64, error) {
	prices := make(map[uint]int64)
	for _, row := range f.rows {
		if row.Status == entity.PendingStatusPending {
			prices[row.StockID] = row.NewPrice
		}
	}
	return prices, nil
}

func (f *fakePendingQueue) MarkApplied(ctx context.Context, id uint) error {
	return f.setStatus(id, entity.PendingStatusApplied)
}

func (f *fakePendingQueue) MarkFailed(ctx context.Context, id uint) error {
	return f.setStatus(id, entity.PendingStatusFailed)
}

func (f *fakePendingQueue) DeletePending(ctx context.Context, stockID uint) error {
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.StockID != stockID || row.Status != entity.PendingStatusPending {
			kept = append(kept, row)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakePendingQueue) setStatus(id uint, status entity.PendingStatus) error {
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].Status == entity.PendingStatusPending {
			f.rows[i].Status = status
		}
	}
	return nil
}

// MockAdminRepository implements repository.AdminRepository for testing
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) FindByUsername(ctx context.Context, username string) (*entity.Admin, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Admin), args.Error(1)
}

func (m *MockAdminRepository) FindByCredentials(ctx context.Context, username, password string) (*entity.Admin, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Admin), args.Error(1)
}

// MockAuditRepository implements repository.AuditRepository for testing
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Record(ctx context.Context, actor, action string, detail interface{}) error {
	args := m.Called(ctx, actor, action, detail)
	return args.Error(0)
}

// MockBoardCache implements repository.BoardCache for testing
type MockBoardCache struct {
	mock.Mock
}

func (m *MockBoardCache) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockBoardCache) Set(ctx context.Context, key, payload string, ttl time.Duration) error {
	args := m.Called(ctx, key, payload, ttl)
	return args.Error(0)
}

func (m *MockBoardCache) Invalidate(ctx context.Context, keys ...string) error {
	callArgs := make([]interface{}, 0, len(keys)+1)
	callArgs = append(callArgs, ctx)
	for _, key := range keys {
		callArgs = append(callArgs, key)
	}
	args := m.Called(callArgs...)
	return args.Error(0)
}

// MockTradeRepository implements repository.TradeRepository for testing
type MockTradeRepository struct {
	mock.Mock
}

func (m *MockTradeRepository) ExecuteBuy(ctx context.Context, userID, stockID uint, quantity int64) (*entity.Transaction, error) {
	args := m.Called(ctx, userID, stockID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockTradeRepository) ExecuteSell(ctx context.Context, userID, stockID uint, quantity int64) (*entity.Transaction, error) {
	args := m.Called(ctx, userID, stockID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockTradeRepository) FindByUser(ctx context.Context, userID uint, limit int) ([]repository.TransactionWithStock, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]repository.TransactionWithStock), args.Error(1)
}

// MockTradingVolumeRepository implements repository.TradingVolumeRepository for testing
type MockTradingVolumeRepository struct {
	mock.Mock
}

func (m *MockTradingVolumeRepository) Accumulate(ctx context.Context, stockID uint, side entity.TradeSide, quantity int64, timeWindow string) error {
	args := m.Called(ctx, stockID, side, quantity, timeWindow)
	return args.Error(0)
}

func (m *MockTradingVolumeRepository) FindUnapplied(ctx context.Context, timeWindow string) ([]repository.VolumeWithStock, error) {
	args := m.Called(ctx, timeWindow)
	return args.Get(0).([]repository.VolumeWithStock), args.Error(1)
}

func (m *MockTradingVolumeRepository) MarkApplied(ctx context.Context, id uint, priceAfter int64) error {
	args := m.Called(ctx, id, priceAfter)
	return args.Error(0)
}

func (m *MockTradingVolumeRepository) FindByTimeWindow(ctx context.Context, timeWindow string) ([]repository.VolumeWithStock, error) {
	args := m.Called(ctx, timeWindow)
	return args.Get(0).([]repository.VolumeWithStock), args.Error(1)
}

func (m *MockTradingVolumeRepository) FindHistoryByStock(ctx context.Context, stockID uint, limit int) ([]repository.VolumeWithStock, error) {
	args := m.Called(ctx, stockID, limit)
	return args.Get(0).([]repository.VolumeWithStock), args.Error(1)
}

// MockPriceImpactRepository implements repository.PriceImpactRepository for testing
type MockPriceImpactRepository struct {
	mock.Mock
}

func (m *MockPriceImpactRepository) FindByStockID(ctx context.Context, stockID uint) (*entity.PriceImpactSetting, error) {
	args := m.Called(ctx, stockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PriceImpactSetting), args.Error(1)
}

func (m *MockPriceImpactRepository) FindAll(ctx context.Context) ([]repository.SettingWithStock, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repository.SettingWithStock), args.Error(1)
}

func (m *MockPriceImpactRepository) Upsert(ctx context.Context, setting *entity.PriceImpactSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

// MockNewsRepository implements repository.NewsRepository for testing
type MockNewsRepository struct {
	mock.Mock
}

func (m *MockNewsRepository) Create(ctx context.Context, news *entity.News) error {
	args := m.Called(ctx, news)
	return args.Error(0)
}

func (m *MockNewsRepository) FindAll(ctx context.Context) ([]entity.News, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.News), args.Error(1)
}

func (m *MockNewsRepository) FindByID(ctx context.Context, id uint) (*entity.News, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.News), args.Error(1)
}

func (m *MockNewsRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNewsRepository) FindViewedNewsIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(map[uint]bool), args.Error(1)
}

func (m *MockNewsRepository) HasViewed(ctx context.Context, userID, newsID uint) (bool, error) {
	args := m.Called(ctx, userID, newsID)
	return args.Bool(0), args.Error(1)
}

func (m *MockNewsRepository) Purchase(ctx context.Context, userID uint, news *entity.News) error {
	args := m.Called(ctx, userID, news)
	return args.Error(0)
}

// MockUserRepository implements repository.UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByCredentials(ctx context.Context, username, password string) (*entity.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, newPassword string) error {
	args := m.Called(ctx, id, newPassword)
	return args.Error(0)
}

func (m *MockUserRepository) FindHoldings(ctx context.Context, userID uint) ([]repository.Holding, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]repository.Holding), args.Error(1)
}

func (m *MockUserRepository) FindAllWithAssets(ctx context.Context) ([]repository.UserAssets, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repository.UserAssets), args.Error(1)
}

func (m *MockUserRepository) ResetAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockPriceEngine implements PriceEngineService for testing
type MockPriceEngine struct {
	mock.Mock
}

func (m *MockPriceEngine) RecordTrade(ctx context.Context, stockID uint, side entity.TradeSide, quantity int64) {
	m.Called(ctx, stockID, side, quantity)
}

func (m *MockPriceEngine) ApplyVolumeBasedUpdates(ctx context.Context) (*dto.VolumeUpdateResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VolumeUpdateResponse), args.Error(1)
}

func (m *MockPriceEngine) CurrentVolumes(ctx context.Context) (*dto.VolumeListResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VolumeListResponse), args.Error(1)
}

func (m *MockPriceEngine) VolumeHistory(ctx context.Context, stockID uint) (*dto.VolumeHistoryResponse, error) {
	args := m.Called(ctx, stockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VolumeHistoryResponse), args.Error(1)
}

func (m *MockPriceEngine) ListImpactSettings(ctx context.Context) (*dto.ImpactSettingListResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ImpactSettingListResponse), args.Error(1)
}

func (m *MockPriceEngine) UpdateImpactSetting(ctx context.Context, stockID uint, req *dto.ImpactSettingRequest) (*dto.MessageResponse, error) {
	args := m.Called(ctx, stockID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MessageResponse), args.Error(1)
}
