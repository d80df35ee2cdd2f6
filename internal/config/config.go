// Package config defines the top-level configuration for the cross-venue
// arbitrage bot and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by CROSSARB_* environment
// variables.
type Config struct {
	Symbol         string               `toml:"symbol"`
	Mode           string               `toml:"mode"`
	LogLevel       string               `toml:"log_level"`
	Balances       map[string]float64   `toml:"balances"`
	Fees           FeesConfig           `toml:"fees"`
	Binance        BinanceConfig        `toml:"binance"`
	MercadoBitcoin MercadoBitcoinConfig `toml:"mercadobitcoin"`
	Execution      ExecutionConfig      `toml:"execution"`
	Postgres       PostgresConfig       `toml:"postgres"`
	Redis          RedisConfig          `toml:"redis"`
	Notify         NotifyConfig         `toml:"notify"`
}

// TierConfig is one band of the secondary venue's fee schedule; the band
// covers notional values up to and including Upper.
type TierConfig struct {
	Upper float64 `toml:"upper"`
	Rate  float64 `toml:"rate"`
}

// FeesConfig holds the fee-schedule constants for both venues.
type FeesConfig struct {
	PrimaryRate           float64      `toml:"primary_rate"`
	SecondaryTiers        []TierConfig `toml:"secondary_tiers"`
	SecondaryTerminalRate float64      `toml:"secondary_terminal_rate"`
}

// BinanceConfig holds primary-venue API parameters.
type BinanceConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout duration `toml:"timeout"`
}

// MercadoBitcoinConfig holds secondary-venue API parameters.
type MercadoBitcoinConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout duration `toml:"timeout"`
}

// ExecutionConfig holds paper-execution parameters.
type ExecutionConfig struct {
	// LegLatency is the simulated per-leg venue latency in paper mode.
	LegLatency duration `toml:"leg_latency"`
}

// PostgresConfig holds optional decision-audit database parameters.
type PostgresConfig struct {
	Enabled       bool   `toml:"enabled"`
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds optional book-snapshot cache parameters.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5s", "500ms").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings.
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values. These
// match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Symbol:   "BTCBRL",
		Mode:     "scan",
		LogLevel: "info",
		Balances: map[string]float64{
			"BRL":  50_000,
			"BTC":  0,
			"USDT": 0,
			"ETH":  0,
		},
		Fees: FeesConfig{
			PrimaryRate: 0.001,
			SecondaryTiers: []TierConfig{
				{Upper: 500_000, Rate: 0.007},
				{Upper: 10_000_000, Rate: 0.006},
				{Upper: 20_000_000, Rate: 0.005},
				{Upper: 50_000_000, Rate: 0.0045},
				{Upper: 100_000_000, Rate: 0.004},
				{Upper: 200_000_000, Rate: 0.003},
			},
			SecondaryTerminalRate: 0.0025,
		},
		Binance: BinanceConfig{
			BaseURL: "",
			Timeout: duration{7 * time.Second},
		},
		MercadoBitcoin: MercadoBitcoinConfig{
			BaseURL: "",
			Timeout: duration{7 * time.Second},
		},
		Execution: ExecutionConfig{
			LegLatency: duration{time.Second},
		},
		Postgres: PostgresConfig{
			Enabled:       false,
			Host:          "localhost",
			Port:          5432,
			Database:      "crossarb",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		Notify: NotifyConfig{
			Events: []string{"arb_detected", "trade_settled", "leg_failed", "error"},
		},
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"scan":  true,
	"paper": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validSymbols enumerates the supported trading pairs.
var validSymbols = map[string]bool{
	"BTCBRL":  true,
	"USDTBRL": true,
	"ETHBRL":  true,
}

// validCurrencies enumerates the currencies a ledger balance may be keyed by.
var validCurrencies = map[string]bool{
	"BRL":  true,
	"BTC":  true,
	"USDT": true,
	"ETH":  true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: scan, paper)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}
	if !validSymbols[c.Symbol] {
		errs = append(errs, fmt.Sprintf("unknown symbol %q (valid: BTCBRL, USDTBRL, ETHBRL)", c.Symbol))
	}

	// Balances
	for cur, amount := range c.Balances {
		if !validCurrencies[cur] {
			errs = append(errs, fmt.Sprintf("balances: unknown currency %q", cur))
		}
		if amount < 0 {
			errs = append(errs, fmt.Sprintf("balances: %s must not be negative, got %v", cur, amount))
		}
	}

	// Fees. The fee table is fully validated again by the fees package at
	// wire time; these checks exist so one Validate call reports everything.
	if c.Fees.PrimaryRate <= 0 || c.Fees.PrimaryRate >= 1 {
		errs = append(errs, fmt.Sprintf("fees: primary_rate must be in (0,1), got %v", c.Fees.PrimaryRate))
	}
	if len(c.Fees.SecondaryTiers) == 0 {
		errs = append(errs, "fees: secondary_tiers must not be empty")
	}
	for i, t := range c.Fees.SecondaryTiers {
		if i > 0 && t.Upper <= c.Fees.SecondaryTiers[i-1].Upper {
			errs = append(errs, fmt.Sprintf("fees: secondary_tiers[%d] upper %v not above previous", i, t.Upper))
		}
		if i > 0 && t.Rate >= c.Fees.SecondaryTiers[i-1].Rate {
			errs = append(errs, fmt.Sprintf("fees: secondary_tiers[%d] rate %v not below previous", i, t.Rate))
		}
	}
	if c.Fees.SecondaryTerminalRate <= 0 || c.Fees.SecondaryTerminalRate >= 1 {
		errs = append(errs, fmt.Sprintf("fees: secondary_terminal_rate must be in (0,1), got %v", c.Fees.SecondaryTerminalRate))
	}

	// Venue clients
	if c.Binance.Timeout.Duration <= 0 {
		errs = append(errs, "binance: timeout must be positive")
	}
	if c.MercadoBitcoin.Timeout.Duration <= 0 {
		errs = append(errs, "mercadobitcoin: timeout must be positive")
	}
	if c.Execution.LegLatency.Duration < 0 {
		errs = append(errs, "execution: leg_latency must not be negative")
	}

	// Postgres
	if c.Postgres.Enabled {
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			if c.Postgres.Host == "" {
				errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
			}
			if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
				errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
			}
			if c.Postgres.Database == "" {
				errs = append(errs, "postgres: database must not be empty")
			}
		}
		if c.Postgres.PoolMaxConns < 1 {
			errs = append(errs, "postgres: pool_max_conns must be >= 1")
		}
		if c.Postgres.PoolMinConns < 0 {
			errs = append(errs, "postgres: pool_min_conns must be >= 0")
		}
		if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
			errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
		}
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
