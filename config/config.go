package config

import (
	"fmt"
	"strings"
	"time"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger         `mapstructure:"logger"`
	Universe   Universe       `mapstructure:"universe"`
	Indicators Indicators     `mapstructure:"indicators"`
	Candidates Candidates     `mapstructure:"candidates"`
	CoinGecko  CoinGecko      `mapstructure:"coingecko"`
	Telegram   TelegramConfig `mapstructure:"telegram"`
	Report     Report         `mapstructure:"report"`
	Scheduler  Scheduler      `mapstructure:"scheduler"`
	API        API            `mapstructure:"api"`
	Cache      Cache          `mapstructure:"cache"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// Universe selects and filters the instrument set for a run.
// Mode is TOP50, TOP100 or MANUAL; MANUAL intersects the ranked
// page with Watchlist by CoinGecko id.
type Universe struct {
	Mode            string   `mapstructure:"mode" validate:"oneof=TOP50 TOP100 MANUAL"`
	Watchlist       []string `mapstructure:"watchlist"`
	MinVolumeUSD24h float64  `mapstructure:"min_volume_usd_24h"`
	MinPriceUSD     float64  `mapstructure:"min_price_usd"`
	ExcludeStables  bool     `mapstructure:"exclude_stables"`
}

type Indicators struct {
	MAShort         int     `mapstructure:"ma_short" validate:"min=1"`
	MABase          int     `mapstructure:"ma_base" validate:"min=1"`
	ZScoreWindow    int     `mapstructure:"zscore_window" validate:"min=2"`
	ZScoreThreshold float64 `mapstructure:"zscore_threshold" validate:"gt=0"`
}

type Candidates struct {
	BuyTopN  int `mapstructure:"buy_top_n" validate:"min=1"`
	SellTopN int `mapstructure:"sell_top_n" validate:"min=1"`
}

type CoinGecko struct {
	BaseURL          string        `mapstructure:"base_url" validate:"required,url"`
	APIKey           string        `mapstructure:"api_key"`
	LookbackDays     int           `mapstructure:"lookback_days" validate:"min=8"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRetries       int           `mapstructure:"max_retries" validate:"min=1"`
	BackoffMin       time.Duration `mapstructure:"backoff_min"`
	BackoffMax       time.Duration `mapstructure:"backoff_max"`
	PacingInterval   time.Duration `mapstructure:"pacing_interval"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min" validate:"min=1"`
	PanelConcurrency int           `mapstructure:"panel_concurrency" validate:"min=1"`
}

type TelegramConfig struct {
	BotToken            string   `mapstructure:"bot_token"`
	ChatIDs             []string `mapstructure:"chat_ids"`
	MaxRequestPerSecond int      `mapstructure:"max_request_per_second" validate:"min=1"`
}

type Report struct {
	Timezone string `mapstructure:"timezone"`
}

type Scheduler struct {
	CronSpec string `mapstructure:"cron_spec"`
}

type API struct {
	Port int `mapstructure:"port" validate:"min=1"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("universe.mode", "TOP100")
	viper.SetDefault("universe.min_volume_usd_24h", 20_000_000)
	viper.SetDefault("universe.min_price_usd", 0.05)
	viper.SetDefault("universe.exclude_stables", true)

	viper.SetDefault("indicators.ma_short", 3)
	viper.SetDefault("indicators.ma_base", 7)
	viper.SetDefault("indicators.zscore_window", 7)
	viper.SetDefault("indicators.zscore_threshold", 1.2)

	viper.SetDefault("candidates.buy_top_n", 5)
	viper.SetDefault("candidates.sell_top_n", 5)

	viper.SetDefault("coingecko.base_url", "https://api.coingecko.com/api/v3")
	viper.SetDefault("coingecko.lookback_days", 30)
	viper.SetDefault("coingecko.timeout", 30*time.Second)
	viper.SetDefault("coingecko.max_retries", 6)
	viper.SetDefault("coingecko.backoff_min", time.Second)
	viper.SetDefault("coingecko.backoff_max", 25*time.Second)
	viper.SetDefault("coingecko.pacing_interval", 1200*time.Millisecond)
	viper.SetDefault("coingecko.max_request_per_min", 30)
	viper.SetDefault("coingecko.panel_concurrency", 1)

	viper.SetDefault("telegram.max_request_per_second", 1)

	viper.SetDefault("report.timezone", "Europe/Riga")

	viper.SetDefault("scheduler.cron_spec", "0 9 * * *")

	viper.SetDefault("api.port", 8080)

	viper.SetDefault("cache.default_expiration", 24*time.Hour)
	viper.SetDefault("cache.cleanup_interval", time.Hour)
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := goValidator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
