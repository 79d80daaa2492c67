package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks runtime configuration constraints.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0, got %v", c.Server.ShutdownTimeout)
	}

	if c.Chart.DefaultWidth <= 0 || c.Chart.DefaultHeight <= 0 {
		return fmt.Errorf("chart default size must be positive, got %dx%d", c.Chart.DefaultWidth, c.Chart.DefaultHeight)
	}
	if c.Chart.MaxDevicePixelRatio < 1 || c.Chart.MaxDevicePixelRatio > 4 {
		return fmt.Errorf("chart.max_device_pixel_ratio must be within [1,4], got %f", c.Chart.MaxDevicePixelRatio)
	}
	switch strings.ToLower(c.Chart.Theme) {
	case "classic", "hud":
	default:
		return fmt.Errorf("chart.theme must be 'classic' or 'hud', got %q", c.Chart.Theme)
	}
	if _, err := time.LoadLocation(c.Chart.Timezone); err != nil {
		return fmt.Errorf("chart.timezone: %w", err)
	}

	switch strings.ToLower(c.Storage.Backend) {
	case "memory":
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required when backend=postgres")
		}
		if c.Storage.ClickhouseDSN == "" {
			return fmt.Errorf("storage.clickhouse_dsn is required when backend=postgres")
		}
	default:
		return fmt.Errorf("storage.backend must be 'memory' or 'postgres', got %q", c.Storage.Backend)
	}

	if c.Market.MaxRetries < 0 {
		return fmt.Errorf("market.max_retries must be >= 0, got %d", c.Market.MaxRetries)
	}
	if c.Wallet.PollInterval <= 0 {
		return fmt.Errorf("wallet.poll_interval must be > 0, got %v", c.Wallet.PollInterval)
	}
	if c.Portfolio.SnapshotInterval <= 0 {
		return fmt.Errorf("portfolio.snapshot_interval must be > 0, got %v", c.Portfolio.SnapshotInterval)
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json', got %q", c.Log.Format)
	}
	return nil
}
