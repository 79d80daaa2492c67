package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Chart.MaxDevicePixelRatio != 2 {
		t.Fatalf("expected max dpr 2, got %f", cfg.Chart.MaxDevicePixelRatio)
	}
	if cfg.Storage.Backend != "memory" {
		t.Fatalf("expected memory backend by default, got %q", cfg.Storage.Backend)
	}
	if cfg.Wallet.PollInterval <= 0 {
		t.Fatal("expected positive poll interval")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadFromYAML(t *testing.T) {
	yaml := `
server:
  addr: ":9090"
chart:
  theme: hud
  max_device_pixel_ratio: 3
market:
  feed_symbols: [SOL, BTC]
wallet:
  poll_interval: 5s
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Chart.Theme != "hud" || cfg.Chart.MaxDevicePixelRatio != 3 {
		t.Errorf("chart = %+v", cfg.Chart)
	}
	if len(cfg.Market.FeedSymbols) != 2 || cfg.Market.FeedSymbols[1] != "BTC" {
		t.Errorf("feed symbols = %v", cfg.Market.FeedSymbols)
	}
	if cfg.Wallet.PollInterval != 5*time.Second {
		t.Errorf("poll interval = %v", cfg.Wallet.PollInterval)
	}
	// untouched sections keep defaults
	if cfg.Chart.DefaultWidth != 800 {
		t.Errorf("default width = %d", cfg.Chart.DefaultWidth)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ADAM_ADDR", ":7000")
	t.Setenv("ADAM_STORAGE", "postgres")
	t.Setenv("ADAM_FEED_SYMBOLS", "SOL, ETH ,,BASE")
	t.Setenv("ADAM_MAX_DPR", "1.5")
	t.Setenv("ADAM_POLL_INTERVAL", "not-a-duration")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.Server.Addr != ":7000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Storage.Backend != "postgres" {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
	if got := cfg.Market.FeedSymbols; len(got) != 3 || got[2] != "BASE" {
		t.Errorf("feed symbols = %v", got)
	}
	if cfg.Chart.MaxDevicePixelRatio != 1.5 {
		t.Errorf("max dpr = %f", cfg.Chart.MaxDevicePixelRatio)
	}
	if cfg.Wallet.PollInterval != Default().Wallet.PollInterval {
		t.Errorf("invalid duration should be ignored, got %v", cfg.Wallet.PollInterval)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("ADAM_TEST_DOTENV=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ADAM_TEST_DOTENV", "")
	os.Unsetenv("ADAM_TEST_DOTENV")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if v := os.Getenv("ADAM_TEST_DOTENV"); v != "from-file" {
		t.Errorf("ADAM_TEST_DOTENV = %q", v)
	}
}
