package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mbarbosa/crossarb/internal/arbitrage"
	"github.com/mbarbosa/crossarb/internal/cache/redis"
	"github.com/mbarbosa/crossarb/internal/config"
	"github.com/mbarbosa/crossarb/internal/domain"
	"github.com/mbarbosa/crossarb/internal/executor"
	"github.com/mbarbosa/crossarb/internal/fees"
	"github.com/mbarbosa/crossarb/internal/notify"
	"github.com/mbarbosa/crossarb/internal/platform/binance"
	"github.com/mbarbosa/crossarb/internal/platform/mercadobitcoin"
	"github.com/mbarbosa/crossarb/internal/store/postgres"
)

// Dependencies bundles everything a decision cycle needs. It is constructed
// by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Symbol    domain.Symbol
	Primary   domain.BookSource
	Secondary domain.BookSource
	Evaluator *arbitrage.Evaluator
	Executor  *executor.Executor
	Ledger    domain.Ledger

	// Optional; nil when the corresponding backend is disabled.
	DecisionStore domain.DecisionStore
	BookCache     domain.BookCache

	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	symbol, err := domain.ParseSymbol(cfg.Symbol)
	if err != nil {
		return nil, nil, fmt.Errorf("wire: %w", err)
	}

	// Fee schedule. A malformed tier table aborts startup; silently guessing
	// a rate could mask financial miscalculation.
	tiers := make([]fees.Tier, 0, len(cfg.Fees.SecondaryTiers))
	for _, t := range cfg.Fees.SecondaryTiers {
		tiers = append(tiers, fees.Tier{Upper: t.Upper, Rate: t.Rate})
	}
	schedule, err := fees.New(cfg.Fees.PrimaryRate, tiers, cfg.Fees.SecondaryTerminalRate)
	if err != nil {
		return nil, nil, fmt.Errorf("wire: %w", err)
	}

	deps := &Dependencies{
		Symbol:    symbol,
		Primary:   binance.NewClient(cfg.Binance.BaseURL, cfg.Binance.Timeout.Duration),
		Secondary: mercadobitcoin.NewClient(cfg.MercadoBitcoin.BaseURL, cfg.MercadoBitcoin.Timeout.Duration),
		Evaluator: arbitrage.NewEvaluator(schedule, logger),
		Executor: executor.New([]domain.LegExecutor{
			executor.NewPaper(domain.VenuePrimary, cfg.Execution.LegLatency.Duration, logger),
			executor.NewPaper(domain.VenueSecondary, cfg.Execution.LegLatency.Duration, logger),
		}, logger),
	}

	// Initial ledger from configured balances. Every supported currency gets
	// a key so settlement never hits a missing one.
	initial := make(map[domain.Currency]float64, len(cfg.Balances))
	for cur, amount := range cfg.Balances {
		initial[domain.Currency(cur)] = amount
	}
	deps.Ledger = domain.NewLedger(initial)

	// --- PostgreSQL decision audit (optional) ---
	if cfg.Postgres.Enabled {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}
		deps.DecisionStore = postgres.NewDecisionStore(pgClient.Pool())
	}

	// --- Redis book cache (optional) ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })
		deps.BookCache = redis.NewBookCache(redisClient)
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}
