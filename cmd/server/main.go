// Package main runs the dashboard server: HTTP API, equity snapshots,
// live price feed and agent funding watchers.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"adam-dashboard/internal/agents"
	"adam-dashboard/internal/api"
	"adam-dashboard/internal/config"
	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/marketdata"
	"adam-dashboard/internal/observability"
	"adam-dashboard/internal/portfolio"
	"adam-dashboard/internal/reporting"
	"adam-dashboard/internal/series"
	"adam-dashboard/internal/wallet"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		envFile    = flag.String("env-file", ".env", "Path to .env file (skipped if missing)")
		addr       = flag.String("addr", "", "HTTP listen address (overrides config)")
		backend    = flag.String("storage", "", "Storage backend: memory or postgres (overrides config)")
		logLevel   = flag.String("log-level", "", "Log level (overrides config)")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *backend != "" {
		cfg.Storage.Backend = *backend
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Fatal("server error")
	}
	logger.Info("shutdown complete")
}

func loadConfig(path, envFile string) (config.Config, error) {
	if envFile != "" {
		if err := config.LoadDotEnv(envFile); err != nil {
			return config.Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return cfg, fmt.Errorf("load %s: %w", path, err)
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func run(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	log := logger.WithField("component", "server")

	st, err := openStores(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer st.close()

	loc, err := time.LoadLocation(cfg.Chart.Timezone)
	if err != nil {
		return fmt.Errorf("chart timezone: %w", err)
	}

	balances := newBalances(cfg.Wallet)
	watcher := wallet.NewWatcher(balances, cfg.Wallet.PollInterval, cfg.Wallet.PollTimeout, logger)

	portfolioSvc := portfolio.New(portfolio.Options{
		EquityStore:      st.equity,
		PriceStore:       st.prices,
		TradeStore:       st.trades,
		PortfolioID:      cfg.Portfolio.ID,
		InitialCash:      cfg.Portfolio.InitialCash,
		Demo:             series.DemoParams{Base: cfg.Portfolio.DemoBase, Trend: cfg.Portfolio.DemoTrend},
		SnapshotInterval: cfg.Portfolio.SnapshotInterval,
		Logger:           logger,
	})
	agentSvc := agents.New(agents.Options{
		AgentStore: st.agents,
		TradeStore: st.trades,
		Funding:    watcher,
		Logger:     logger,
	})
	reports := reporting.NewGenerator(portfolioSvc, st.agents, st.trades)

	var market api.MarketSource
	if cfg.Market.BaseURL != "" {
		market = marketdata.NewClient(cfg.Market.BaseURL,
			marketdata.WithAPIKey(cfg.Market.APIKey),
			marketdata.WithTimeout(cfg.Market.Timeout),
			marketdata.WithMaxRetries(cfg.Market.MaxRetries),
		)
	}

	var feed *marketdata.Feed
	if cfg.Market.FeedURL != "" && len(cfg.Market.FeedSymbols) > 0 {
		feed = marketdata.NewFeed(cfg.Market.FeedURL, cfg.Market.FeedSymbols, nil, logger)
	}

	g, gctx := errgroup.WithContext(ctx)
	watch := func(id string) {
		g.Go(func() error {
			err := agentSvc.WatchFunding(gctx, id)
			switch {
			case err == nil, errors.Is(err, context.Canceled):
			case errors.Is(err, wallet.ErrFundingTimeout):
				log.WithField("agent", id).Warn("funding not detected before timeout")
			default:
				log.WithError(err).WithField("agent", id).Error("funding watcher failed")
			}
			return nil
		})
	}

	deps := api.Deps{
		Portfolio: portfolioSvc,
		Agents:    agentSvc,
		Market:    market,
		Reports:   reports,
		Wallets:   balances,
		Chart: api.ChartConfig{
			DefaultWidth:  cfg.Chart.DefaultWidth,
			DefaultHeight: cfg.Chart.DefaultHeight,
			MaxDPR:        cfg.Chart.MaxDevicePixelRatio,
			Theme:         cfg.Chart.Theme,
			Location:      loc,
		},
		DefaultCoin:    cfg.Market.CoinID,
		StorageBackend: cfg.Storage.Backend,
		OnAgentCreated: func(a *domain.Agent) { watch(a.AgentID) },
		Logger:         logger,
	}
	if feed != nil {
		deps.Feed = feed
	}
	srv := api.NewServer(cfg.Server.Addr, deps)
	srv.SetTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)

	if err := resumeWatchers(ctx, agentSvc, watch); err != nil {
		return err
	}

	g.Go(func() error { return portfolioSvc.Run(gctx) })
	if feed != nil {
		g.Go(func() error { return feed.Run(gctx) })
		g.Go(func() error { return persistTicks(gctx, feed, st.prices, log) })
	}

	if err := srv.Start(gctx); err != nil {
		return fmt.Errorf("start api: %w", err)
	}
	log.WithFields(logrus.Fields{
		"storage":   cfg.Storage.Backend,
		"portfolio": portfolioSvc.PortfolioID(),
		"feed":      feed != nil,
		"market":    market != nil,
	}).Info("server started")

	<-gctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("api shutdown")
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// resumeWatchers restarts funding detection for agents created before a restart.
func resumeWatchers(ctx context.Context, svc *agents.Service, watch func(id string)) error {
	list, err := svc.List(ctx)
	if err != nil {
		return fmt.Errorf("list agents: %w", err)
	}
	for _, a := range list {
		if a.Status == domain.AgentStatusAwaitingFunds {
			watch(a.AgentID)
		}
	}
	return nil
}

func newBalances(cfg config.WalletConfig) *wallet.Balances {
	b := wallet.NewBalances()
	if cfg.SolanaRPCURL != "" {
		b.Set(domain.ChainSolana, wallet.NewClient(cfg.SolanaRPCURL))
	}
	if cfg.EVMRPCURL != "" {
		b.Set(domain.ChainEthereum, wallet.NewClient(cfg.EVMRPCURL))
	}
	if cfg.BaseRPCURL != "" {
		b.Set(domain.ChainBase, wallet.NewClient(cfg.BaseRPCURL))
	}
	return b
}
