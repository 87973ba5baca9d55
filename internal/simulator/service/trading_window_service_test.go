package service

import (
	"testing"
	"time"

	"classroom-stock-sim/internal/simulator/config"

	"github.com/stretchr/testify/assert"
)

func kst(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Fatal(err)
	}
	return time.Date(2026, 3, 2, hour, minute, 0, 0, loc)
}

func TestTradingWindowService_DefaultSchedule(t *testing.T) {
	svc, err := NewTradingWindowService(config.Trading{})
	assert.NoError(t, err)

	tests := []struct {
		name    string
		hour    int
		minute  int
		allowed bool
	}{
		{"before school", 7, 30, false},
		{"morning window opens", 8, 0, true},
		{"morning window middle", 8, 10, true},
		{"morning window last minute", 8, 19, true},
		{"morning window closed", 8, 20, false},
		{"first break opens", 9, 10, true},
		{"first break closed", 9, 20, false},
		{"between breaks", 9, 45, false},
		{"lunch break", 12, 15, true},
		{"afternoon window", 14, 5, true},
		{"last window", 15, 9, true},
		{"after last window", 15, 10, false},
		{"evening", 20, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := svc.Status(kst(t, tt.hour, tt.minute))
			assert.Equal(t, tt.allowed, status.Allowed)
			assert.NotEmpty(t, status.Message)
		})
	}
}

func TestTradingWindowService_AlwaysOpen(t *testing.T) {
	svc, err := NewTradingWindowService(config.Trading{AlwaysOpen: true})
	assert.NoError(t, err)

	status := svc.Status(kst(t, 3, 0))
	assert.True(t, status.Allowed)
	assert.True(t, status.IsBeta)
}

func TestTradingWindowService_ClosedMessage(t *testing.T) {
	svc, err := NewTradingWindowService(config.Trading{})
	assert.NoError(t, err)

	status := svc.Status(kst(t, 22, 0))
	assert.False(t, status.Allowed)
	assert.Contains(t, status.Message, "거래 시간이 아닙니다")
}

func TestTradingWindowService_CustomWindows(t *testing.T) {
	cfg := config.Trading{
		Windows: []config.TradingWindow{
			{Start: "30 16 * * *", Duration: "15m"},
		},
	}
	svc, err := NewTradingWindowService(cfg)
	assert.NoError(t, err)

	assert.False(t, svc.Status(kst(t, 16, 29)).Allowed)
	assert.True(t, svc.Status(kst(t, 16, 30)).Allowed)
	assert.True(t, svc.Status(kst(t, 16, 44)).Allowed)
	assert.False(t, svc.Status(kst(t, 16, 45)).Allowed)
}

func TestTradingWindowService_InvalidConfig(t *testing.T) {
	_, err := NewTradingWindowService(config.Trading{
		Windows: []config.TradingWindow{{Start: "not a cron", Duration: "10m"}},
	})
	assert.Error(t, err)

	_, err = NewTradingWindowService(config.Trading{
		Windows: []config.TradingWindow{{Start: "0 9 * * *", Duration: "nope"}},
	})
	assert.Error(t, err)

	_, err = NewTradingWindowService(config.Trading{
		Windows: []config.TradingWindow{{Start: "0 9 * * *", Duration: "-5m"}},
	})
	assert.Error(t, err)
}
