package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Costs     CostsConfig
	Feed      FeedConfig
	Scheduler SchedulerConfig
	Backup    BackupConfig
	Env       string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// CostsConfig holds the broker fee and sell-tax parameters used for gain/loss reports.
type CostsConfig struct {
	BuyFeeRate  decimal.Decimal
	SellFeeRate decimal.Decimal
	MinFee      decimal.Decimal
	// TaxRates maps a stock classification (stock, etf, bond_etf) to its sell-side tax rate.
	TaxRates map[string]decimal.Decimal
}

// FeedConfig selects and configures the external data sources.
type FeedConfig struct {
	CorporateActionSource string
	FinMindToken          string
	RequestTimeout        time.Duration
}

// SchedulerConfig holds the periodic refresh settings.
// An empty Schedule disables the periodic refresh.
type SchedulerConfig struct {
	Schedule    string
	Concurrency int
}

// BackupConfig holds the export encryption key. An empty key exports plain JSON.
type BackupConfig struct {
	Key string
}

// Supported corporate action sources.
const (
	SourceYahoo   = "yahoo"
	SourceFinMind = "finmind"
)

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	p := &parser{}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/stock_tracker.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Costs: CostsConfig{
			BuyFeeRate:  p.decimal("FEE_BUY_RATE", "0.001425"),
			SellFeeRate: p.decimal("FEE_SELL_RATE", "0.001425"),
			MinFee:      p.decimal("FEE_MIN", "20"),
			TaxRates: map[string]decimal.Decimal{
				"stock":    p.decimal("TAX_RATE_STOCK", "0.003"),
				"etf":      p.decimal("TAX_RATE_ETF", "0.001"),
				"bond_etf": p.decimal("TAX_RATE_BOND_ETF", "0"),
			},
		},
		Feed: FeedConfig{
			CorporateActionSource: strings.ToLower(getEnv("CORPORATE_ACTION_SOURCE", SourceYahoo)),
			FinMindToken:          os.Getenv("FINMIND_TOKEN"),
			RequestTimeout:        p.duration("REQUEST_TIMEOUT", "30s"),
		},
		Scheduler: SchedulerConfig{
			Schedule:    lookupEnv("REFRESH_SCHEDULE", "0 30 14 * * 1-5"),
			Concurrency: p.int("REFRESH_CONCURRENCY", "4"),
		},
		Backup: BackupConfig{
			Key: os.Getenv("BACKUP_KEY"),
		},
		Env: getEnv("APP_ENV", "development"),
	}

	if p.err != nil {
		return nil, p.err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

func (c *Config) validate() error {
	switch c.Feed.CorporateActionSource {
	case SourceYahoo, SourceFinMind:
	default:
		return fmt.Errorf("CORPORATE_ACTION_SOURCE: unsupported source %q", c.Feed.CorporateActionSource)
	}
	if c.Scheduler.Concurrency < 1 {
		return fmt.Errorf("REFRESH_CONCURRENCY: must be at least 1, got %d", c.Scheduler.Concurrency)
	}
	if c.Feed.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT: must be positive, got %s", c.Feed.RequestTimeout)
	}
	if c.Costs.BuyFeeRate.IsNegative() || c.Costs.SellFeeRate.IsNegative() || c.Costs.MinFee.IsNegative() {
		return fmt.Errorf("FEE_BUY_RATE, FEE_SELL_RATE and FEE_MIN cannot be negative")
	}
	for classification, rate := range c.Costs.TaxRates {
		if rate.IsNegative() {
			return fmt.Errorf("tax rate for %s cannot be negative", classification)
		}
	}
	return nil
}

// TaxRate returns the sell-side tax rate for a stock classification.
// Unknown classifications are taxed as ordinary stock.
func (c CostsConfig) TaxRate(classification string) decimal.Decimal {
	if rate, ok := c.TaxRates[classification]; ok {
		return rate
	}
	return c.TaxRates["stock"]
}

// parser records the first malformed variable so Load can report it by name.
type parser struct {
	err error
}

func (p *parser) decimal(key, defaultValue string) decimal.Decimal {
	raw := getEnv(key, defaultValue)
	d, err := decimal.NewFromString(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: invalid decimal %q: %w", key, raw, err)
	}
	return d
}

func (p *parser) int(key, defaultValue string) int {
	raw := getEnv(key, defaultValue)
	n, err := strconv.Atoi(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: invalid integer %q: %w", key, raw, err)
	}
	return n
}

func (p *parser) duration(key, defaultValue string) time.Duration {
	raw := getEnv(key, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	return d
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// lookupEnv is getEnv for variables where an explicitly empty value is meaningful.
func lookupEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
