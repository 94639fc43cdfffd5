package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"

	"papertrade/pkg/db"
)

// AppConfig holds all application-wide configuration, read from the
// environment.
type AppConfig struct {
	Env        string `env:"ENV" env-default:"local"`
	ServerPort string `env:"SERVER_PORT" env-default:"8080"`

	// StartingCash is the cash balance granted to every new account.
	StartingCash string `env:"STARTING_CASH" env-default:"10000.00"`

	JWTSecret string        `env:"JWT_SECRET" env-default:"dev-secret-change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" env-default:"24h"`

	DB    db.Config
	Quote QuoteConfig
	Redis RedisConfig
}

// QuoteConfig configures the external price lookup.
type QuoteConfig struct {
	APIKey  string        `env:"ALPHA_VANTAGE_API_KEY" env-default:"demo"`
	BaseURL string        `env:"QUOTE_BASE_URL" env-default:"https://www.alphavantage.co"`
	Timeout time.Duration `env:"QUOTE_TIMEOUT" env-default:"10s"`
}

// RedisConfig configures the quote cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR" env-default:""`
	Password string        `env:"REDIS_PASSWORD" env-default:""`
	QuoteTTL time.Duration `env:"QUOTE_CACHE_TTL" env-default:"5m"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*AppConfig, error) {
	var cfg AppConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if _, err := decimal.NewFromString(cfg.StartingCash); err != nil {
		return nil, fmt.Errorf("invalid STARTING_CASH %q: %w", cfg.StartingCash, err)
	}
	return &cfg, nil
}

// StartingCashAmount returns the starting cash as a decimal. LoadConfig
// has already validated the string.
func (c *AppConfig) StartingCashAmount() decimal.Decimal {
	amount, _ := decimal.NewFromString(c.StartingCash)
	return amount
}
