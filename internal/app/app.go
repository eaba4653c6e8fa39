// Package app wires repositories, services and their supporting infrastructure.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/cache"
	"github.com/go-petr/pet-ledger/internal/entryrepo"
	"github.com/go-petr/pet-ledger/internal/entryservice"
	"github.com/go-petr/pet-ledger/internal/fraud"
	"github.com/go-petr/pet-ledger/internal/ledgerrepo"
	"github.com/go-petr/pet-ledger/internal/ledgerservice"
	"github.com/go-petr/pet-ledger/internal/metrics"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

// App holds the services shared by the http server and the interactive menu.
type App struct {
	DB       *sql.DB
	Registry *prometheus.Registry
	Accounts *accountservice.Service
	Ledger   *ledgerservice.Service
	Entries  *entryservice.Service
}

// New builds the services on top of conn. A nil redis client disables the account cache.
func New(conn *sql.DB, config configpkg.Config, rdb *redis.Client) (*App, error) {
	scorer, err := NewScorer(config)
	if err != nil {
		return nil, err
	}

	lowBalance, err := decimal.NewFromString(config.LowBalanceThreshold)
	if err != nil {
		return nil, fmt.Errorf("invalid LOW_BALANCE_THRESHOLD %q: %w", config.LowBalanceThreshold, err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewDBStatsCollector(conn, "petledger"))
	ledgerMetrics := metrics.NewLedger(registry)

	var accountCache accountservice.Cache
	if rdb != nil {
		accountCache = cache.NewAccountCache(rdb, config.CacheTTL)
	}

	accountRepo := accountrepo.NewRepoSQL(conn)
	entryRepo := entryrepo.NewRepoSQL(conn)
	ledgerRepo := ledgerrepo.NewRepoSQL(conn)

	accountService := accountservice.New(accountRepo, ledgerRepo, accountCache, lowBalance)
	ledgerService := ledgerservice.New(ledgerRepo, accountService, scorer, ledgerMetrics)
	entryService := entryservice.New(entryRepo, accountService)

	return &App{
		DB:       conn,
		Registry: registry,
		Accounts: accountService,
		Ledger:   ledgerService,
		Entries:  entryService,
	}, nil
}

// NewScorer builds the anomaly scorer selected by the config.
func NewScorer(config configpkg.Config) (fraud.Scorer, error) {
	opts := fraud.Options{
		Strategy:   config.FraudStrategy,
		ZThreshold: config.FraudZThreshold,
		SampleSize: config.FraudSampleSize,
		Seed:       config.FraudSeed,
	}

	if config.FraudStrategy == fraud.StrategyThreshold {
		maxAmount, err := moneypkg.Parse(config.FraudMaxAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid FRAUD_MAX_AMOUNT %q: %w", config.FraudMaxAmount, err)
		}

		opts.MaxAmount = maxAmount
	}

	return fraud.New(opts)
}

// NewRedisClient connects to REDIS_ADDR. It returns nil when no address is configured.
func NewRedisClient(ctx context.Context, config configpkg.Config) (*redis.Client, error) {
	if config.RedisAddr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: config.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cannot connect to redis at %s: %w", config.RedisAddr, err)
	}

	return rdb, nil
}
