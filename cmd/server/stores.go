package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"adam-dashboard/internal/config"
	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/marketdata"
	"adam-dashboard/internal/storage"
	chstore "adam-dashboard/internal/storage/clickhouse"
	"adam-dashboard/internal/storage/memory"
	"adam-dashboard/internal/storage/migrations"
	pgstore "adam-dashboard/internal/storage/postgres"
)

type stores struct {
	agents storage.AgentStore
	trades storage.TradeStore
	equity storage.EquityTimeseriesStore
	prices storage.PriceTimeseriesStore
	close  func()
}

// openStores builds the configured backend. The postgres backend keeps
// agents and trades in Postgres and time series in ClickHouse, applying
// migrations on start.
func openStores(ctx context.Context, cfg config.StorageConfig, logger logrus.FieldLogger) (*stores, error) {
	if cfg.Backend == "" || cfg.Backend == "memory" {
		return &stores{
			agents: memory.NewAgentStore(),
			trades: memory.NewTradeStore(),
			equity: memory.NewEquityTimeseriesStore(),
			prices: memory.NewPriceTimeseriesStore(),
			close:  func() {},
		}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	applied, err := migrations.RunPostgresMigrations(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres migrations: %w", err)
	}
	if len(applied) > 0 {
		logger.WithField("applied", applied).Info("postgres migrations applied")
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	return &stores{
		agents: pgstore.NewAgentStore(pool),
		trades: pgstore.NewTradeStore(pool),
		equity: chstore.NewEquityTimeseriesStore(conn),
		prices: chstore.NewPriceTimeseriesStore(conn),
		close: func() {
			conn.Close()
			pool.Close()
		},
	}, nil
}

// persistTicks stores feed ticks as price points until the feed closes.
func persistTicks(ctx context.Context, feed *marketdata.Feed, prices storage.PriceTimeseriesStore, log logrus.FieldLogger) error {
	for tick := range feed.Ticks() {
		err := prices.InsertBulk(ctx, []*domain.PricePoint{tick.PricePoint()})
		switch {
		case err == nil, errors.Is(err, storage.ErrDuplicateKey):
		case errors.Is(err, context.Canceled):
			return nil
		default:
			log.WithError(err).WithField("symbol", tick.Symbol).Warn("store tick")
		}
	}
	return nil
}
