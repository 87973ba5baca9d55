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

func newTestTradeService(tradeRepo *MockTradeRepository, priceEngine *MockPriceEngine, boardCache *MockBoardCache, open bool) TradeService {
	return NewTradeService(tradeRepo, &fixedWindowService{allowed: open}, priceEngine, boardCache, newTestLogger())
}

func TestTradeService_Buy(t *testing.T) {
	tradeRepo := new(MockTradeRepository)
	priceEngine := new(MockPriceEngine)
	boardCache := new(MockBoardCache)

	trade := &entity.Transaction{
		ID:          1,
		UserID:      10,
		StockID:     3,
		Type:        entity.TradeSideBuy,
		Quantity:    5,
		Price:       10000,
		TotalAmount: 50000,
	}
	tradeRepo.On("ExecuteBuy", mock.Anything, uint(10), uint(3), int64(5)).Return(trade, nil)
	priceEngine.On("RecordTrade", mock.Anything, uint(3), entity.TradeSideBuy, int64(5)).Return()
	boardCache.On("Invalidate", mock.Anything, "board:leaderboard").Return(nil)

	svc := newTestTradeService(tradeRepo, priceEngine, boardCache, true)
	resp, err := svc.Buy(context.Background(), &dto.TradeRequest{UserID: 10, StockID: 3, Quantity: 5})

	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "매수가 완료되었습니다.", resp.Message)
	tradeRepo.AssertExpectations(t)
	priceEngine.AssertExpectations(t)
}

func TestTradeService_Sell(t *testing.T) {
	tradeRepo := new(MockTradeRepository)
	priceEngine := new(MockPriceEngine)
	boardCache := new(MockBoardCache)

	trade := &entity.Transaction{
		UserID:      10,
		StockID:     3,
		Type:        entity.TradeSideSell,
		Quantity:    2,
		Price:       10000,
		TotalAmount: 20000,
	}
	tradeRepo.On("ExecuteSell", mock.Anything, uint(10), uint(3), int64(2)).Return(trade, nil)
	priceEngine.On("RecordTrade", mock.Anything, uint(3), entity.TradeSideSell, int64(2)).Return()
	boardCache.On("Invalidate", mock.Anything, "board:leaderboard").Return(nil)

	svc := newTestTradeService(tradeRepo, priceEngine, boardCache, true)
	resp, err := svc.Sell(context.Background(), &dto.TradeRequest{UserID: 10, StockID: 3, Quantity: 2})

	assert.NoError(t, err)
	assert.Equal(t, "매도가 완료되었습니다.", resp.Message)
}

func TestTradeService_InvalidQuantity(t *testing.T) {
	svc := newTestTradeService(new(MockTradeRepository), new(MockPriceEngine), new(MockBoardCache), true)

	_, err := svc.Buy(context.Background(), &dto.TradeRequest{UserID: 1, StockID: 1, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Sell(context.Background(), &dto.TradeRequest{UserID: 1, StockID: 1, Quantity: -3})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestTradeService_TradingClosed(t *testing.T) {
	tradeRepo := new(MockTradeRepository)
	svc := newTestTradeService(tradeRepo, new(MockPriceEngine), new(MockBoardCache), false)

	_, err := svc.Buy(context.Background(), &dto.TradeRequest{UserID: 1, StockID: 1, Quantity: 1})
	assert.ErrorIs(t, err, ErrTradingClosed)
	tradeRepo.AssertNotCalled(t, "ExecuteBuy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTradeService_InsufficientFunds(t *testing.T) {
	tradeRepo := new(MockTradeRepository)
	tradeRepo.On("ExecuteBuy", mock.Anything, uint(1), uint(1), int64(100)).
		Return(nil, repository.ErrInsufficientFunds)

	svc := newTestTradeService(tradeRepo, new(MockPriceEngine), new(MockBoardCache), true)
	_, err := svc.Buy(context.Background(), &dto.TradeRequest{UserID: 1, StockID: 1, Quantity: 100})

	assert.ErrorIs(t, err, repository.ErrInsufficientFunds)
	assert.Equal(t, "잔액이 부족합니다.", err.Error())
}

func TestTradeService_InsufficientHoldings(t *testing.T) {
	tradeRepo := new(MockTradeRepository)
	tradeRepo.On("ExecuteSell", mock.Anything, uint(1), uint(1), int64(100)).
		Return(nil, repository.ErrInsufficientHoldings)

	svc := newTestTradeService(tradeRepo, new(MockPriceEngine), new(MockBoardCache), true)
	_, err := svc.Sell(context.Background(), &dto.TradeRequest{UserID: 1, StockID: 1, Quantity: 100})

	assert.ErrorIs(t, err, repository.ErrInsufficientHoldings)
}

func TestTradeService_GetTransactions(t *testing.T) {
	tradeRepo := new(MockTradeRepository)
	rows := []repository.TransactionWithStock{
		{
			Transaction: entity.Transaction{
				ID: 2, UserID: 1, StockID: 3, Type: entity.TradeSideBuy,
				Quantity: 5, Price: 10000, TotalAmount: 50000,
			},
			Code: "SMSG",
			Name: "삼성라면",
		},
	}
	tradeRepo.On("FindByUser", mock.Anything, uint(1), 50).Return(rows, nil)

	svc := newTestTradeService(tradeRepo, new(MockPriceEngine), new(MockBoardCache), true)
	resp, err := svc.GetTransactions(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, resp.Transactions, 1)
	assert.Equal(t, "SMSG", resp.Transactions[0].Code)
	assert.Equal(t, "BUY", resp.Transactions[0].Type)
}
