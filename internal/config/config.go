// Package config loads server configuration from defaults, a YAML file,
// a .env file and ADAM_* environment variables, in that order.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Chart     ChartConfig     `yaml:"chart"`
	Storage   StorageConfig   `yaml:"storage"`
	Market    MarketConfig    `yaml:"market"`
	Wallet    WalletConfig    `yaml:"wallet"`
	Portfolio PortfolioConfig `yaml:"portfolio"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type ChartConfig struct {
	DefaultWidth        int     `yaml:"default_width"`
	DefaultHeight       int     `yaml:"default_height"`
	MaxDevicePixelRatio float64 `yaml:"max_device_pixel_ratio"`
	Theme               string  `yaml:"theme"`
	Timezone            string  `yaml:"timezone"`
}

type StorageConfig struct {
	Backend       string `yaml:"backend"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
}

type MarketConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	CoinID      string        `yaml:"coin_id"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
	FeedURL     string        `yaml:"feed_url"`
	FeedSymbols []string      `yaml:"feed_symbols"`
}

type WalletConfig struct {
	SolanaRPCURL string        `yaml:"solana_rpc_url"`
	EVMRPCURL    string        `yaml:"evm_rpc_url"`
	BaseRPCURL   string        `yaml:"base_rpc_url"`
	PollInterval time.Duration `yaml:"poll_interval"`
	PollTimeout  time.Duration `yaml:"poll_timeout"`
}

type PortfolioConfig struct {
	ID               string        `yaml:"id"`
	SnapshotInterval time.Duration `yaml:"snapshot_interval"`
	InitialCash      float64       `yaml:"initial_cash"`
	DemoBase         float64       `yaml:"demo_base"`
	DemoTrend        float64       `yaml:"demo_trend"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Chart: ChartConfig{
			DefaultWidth:        800,
			DefaultHeight:       320,
			MaxDevicePixelRatio: 2,
			Theme:               "classic",
			Timezone:            "UTC",
		},
		Storage: StorageConfig{
			Backend: "memory",
		},
		Market: MarketConfig{
			BaseURL:     "https://api.coingecko.com/api/v3",
			CoinID:      "solana",
			Timeout:     10 * time.Second,
			MaxRetries:  3,
			FeedSymbols: []string{"SOL", "ETH"},
		},
		Wallet: WalletConfig{
			SolanaRPCURL: "https://api.mainnet-beta.solana.com",
			EVMRPCURL:    "https://cloudflare-eth.com",
			BaseRPCURL:   "https://mainnet.base.org",
			PollInterval: 15 * time.Second,
			PollTimeout:  30 * time.Minute,
		},
		Portfolio: PortfolioConfig{
			ID:               "default",
			SnapshotInterval: time.Minute,
			InitialCash:      10000,
			DemoBase:         10000,
			DemoTrend:        400,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFile reads path over the defaults. Unknown keys are ignored.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set.
// Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

func (c *Config) ApplyEnv() {
	if v := os.Getenv("ADAM_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("ADAM_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("ADAM_POSTGRES_DSN"); v != "" {
		c.Storage.PostgresDSN = v
	}
	if v := os.Getenv("ADAM_CLICKHOUSE_DSN"); v != "" {
		c.Storage.ClickhouseDSN = v
	}
	if v := os.Getenv("ADAM_CHART_THEME"); v != "" {
		c.Chart.Theme = v
	}
	if v := os.Getenv("ADAM_CHART_TIMEZONE"); v != "" {
		c.Chart.Timezone = v
	}
	if v := os.Getenv("ADAM_MAX_DPR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Chart.MaxDevicePixelRatio = f
		}
	}
	if v := os.Getenv("ADAM_MARKET_BASE_URL"); v != "" {
		c.Market.BaseURL = v
	}
	if v := os.Getenv("ADAM_MARKET_API_KEY"); v != "" {
		c.Market.APIKey = v
	}
	if v := os.Getenv("ADAM_MARKET_COIN"); v != "" {
		c.Market.CoinID = v
	}
	if v := os.Getenv("ADAM_FEED_URL"); v != "" {
		c.Market.FeedURL = v
	}
	if v := os.Getenv("ADAM_FEED_SYMBOLS"); v != "" {
		c.Market.FeedSymbols = splitList(v)
	}
	if v := os.Getenv("ADAM_SOLANA_RPC_URL"); v != "" {
		c.Wallet.SolanaRPCURL = v
	}
	if v := os.Getenv("ADAM_EVM_RPC_URL"); v != "" {
		c.Wallet.EVMRPCURL = v
	}
	if v := os.Getenv("ADAM_BASE_RPC_URL"); v != "" {
		c.Wallet.BaseRPCURL = v
	}
	if v := os.Getenv("ADAM_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Wallet.PollInterval = d
		}
	}
	if v := os.Getenv("ADAM_PORTFOLIO_ID"); v != "" {
		c.Portfolio.ID = v
	}
	if v := os.Getenv("ADAM_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("ADAM_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
