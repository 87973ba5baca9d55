package common

const (
	// ChangedByAutoUpdate tags price history rows written by the
	// volume-based price engine.
	ChangedByAutoUpdate = "AUTO_UPDATE"

	// ForcedApplySuffix annotates history rows for admin prices pushed
	// through outside a trading window.
	ForcedApplySuffix = " (강제 반영)"

	// InitialCash is the simulated cash every student starts with and is
	// reset to.
	InitialCash int64 = 1_000_000

	// TimeWindowLayout is the hour-granularity bucket key for trading
	// volume aggregation, e.g. "2024-01-15 08:00".
	TimeWindowLayout = "2006-01-02 15:00"

	// Default price impact settings for stocks without a row of their own.
	DefaultImpactRate    = 0.01
	DefaultMaxChangeRate = 0.05
	DefaultMinVolume     = 10

	// Redis cache keys for the public board.
	RedisKeyStockBoard  = "board:stocks"
	RedisKeyLeaderboard = "board:leaderboard"
)
