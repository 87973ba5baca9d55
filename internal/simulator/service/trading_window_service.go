package service

import (
	"fmt"
	"time"

	"classroom-stock-sim/internal/simulator/config"

	"github.com/robfig/cron/v3"
)

// TradingStatus is the trading-window evaluator's verdict for one instant.
type TradingStatus struct {
	Allowed bool
	IsBeta  bool
	Message string
}

// TradingWindowService decides whether trading is allowed at a given time.
type TradingWindowService interface {
	Status(now time.Time) TradingStatus
}

type tradingWindow struct {
	schedule cron.Schedule
	duration time.Duration
}

type tradingWindowService struct {
	alwaysOpen bool
	windows    []tradingWindow
}

// defaultWindows is the documented classroom schedule: eight short sessions
// across the school day (KST).
var defaultWindows = []config.TradingWindow{
	{Start: "0 8 * * *", Duration: "20m"},
	{Start: "10 9 * * *", Duration: "10m"},
	{Start: "10 10 * * *", Duration: "10m"},
	{Start: "10 11 * * *", Duration: "10m"},
	{Start: "10 12 * * *", Duration: "10m"},
	{Start: "0 13 * * *", Duration: "10m"},
	{Start: "0 14 * * *", Duration: "10m"},
	{Start: "0 15 * * *", Duration: "10m"},
}

// NewTradingWindowService builds the evaluator from the configured schedule.
// An empty window list falls back to the default classroom schedule.
func NewTradingWindowService(cfg config.Trading) (TradingWindowService, error) {
	windows := cfg.Windows
	if len(windows) == 0 {
		windows = defaultWindows
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	parsed := make([]tradingWindow, 0, len(windows))
	for _, w := range windows {
		schedule, err := parser.Parse(w.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid trading window start %q: %w", w.Start, err)
		}
		duration, err := time.ParseDuration(w.Duration)
		if err != nil {
			return nil, fmt.Errorf("invalid trading window duration %q: %w", w.Duration, err)
		}
		if duration <= 0 {
			return nil, fmt.Errorf("trading window duration must be positive, got %q", w.Duration)
		}
		parsed = append(parsed, tradingWindow{schedule: schedule, duration: duration})
	}

	return &tradingWindowService{
		alwaysOpen: cfg.AlwaysOpen,
		windows:    parsed,
	}, nil
}

// Status evaluates the schedule at the given instant. A window [S, S+d) is
// open iff its most recent start S satisfies S <= now < S+d.
func (s *tradingWindowService) Status(now time.Time) TradingStatus {
	if s.alwaysOpen {
		return TradingStatus{
			Allowed: true,
			IsBeta:  true,
			Message: "✅ 24시간 거래 가능!",
		}
	}

	for _, w := range s.windows {
		// Next is strictly after its argument, so winding back by the
		// window length finds a start within the last duration, if any.
		start := w.schedule.Next(now.Add(-w.duration))
		if !start.After(now) {
			closesAt := start.Add(w.duration)
			return TradingStatus{
				Allowed: true,
				Message: fmt.Sprintf("✅ 거래 가능 시간입니다. (%s까지)", closesAt.Format("15:04")),
			}
		}
	}

	return TradingStatus{
		Allowed: false,
		Message: "⏰ 거래 시간이 아닙니다. 다음 거래 시간을 기다려주세요.",
	}
}
