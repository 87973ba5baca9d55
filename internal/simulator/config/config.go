package config

import (
	"classroom-stock-sim/pkg/config"
)

// TradingWindow is one discrete trading session: a cron expression for the
// opening time plus how long the window stays open.
type TradingWindow struct {
	Start    string `mapstructure:"start"`
	Duration string `mapstructure:"duration"`
}

// Trading holds the trading schedule configuration. AlwaysOpen bypasses the
// window schedule entirely (beta-period behavior).
type Trading struct {
	AlwaysOpen bool            `mapstructure:"always_open"`
	Windows    []TradingWindow `mapstructure:"windows"`
}

// Board holds public board cache tuning.
type Board struct {
	CacheTTL string `mapstructure:"cache_ttl"`
}

// Config holds the full configuration for the simulator service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`
	Telegram config.Telegram `mapstructure:"telegram"`
	Trading  Trading         `mapstructure:"trading"`
	Board    Board           `mapstructure:"board"`
}

// Load loads the simulator configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
