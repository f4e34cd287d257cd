package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		App:   AppConfig{Environment: "test"},
		Order: OrderConfig{Side: "buy", TotalAmount: 100},
		Engine: EngineConfig{
			Warmup:             10 * time.Second,
			PassiveLifetime:    10 * time.Second,
			AggressiveLifetime: time.Second,
			PartOfLevel:        0.01,
			TrendMultiplier:    2,
			CompletionEpsilon:  0.001,
		},
		Feed: FeedConfig{Path: "data/book_snapshots.csv"},
		Database: DatabaseConfig{
			Path:         "data/exec_sim.db",
			MaxOpenConns: 4,
			MaxIdleConns: 4,
		},
		Logging: LoggingConfig{
			Level:            "info",
			Encoding:         "console",
			OutputPaths:      []string{"stdout"},
			ErrorOutputPaths: []string{"stderr"},
		},
		Monitor: MonitorConfig{Enabled: true, Port: 8787},
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"invalid side", func(c *Config) { c.Order.Side = "hold" }},
		{"non-positive amount", func(c *Config) { c.Order.TotalAmount = 0 }},
		{"inverted window", func(c *Config) {
			c.Order.StartTimestamp = 100
			c.Order.EndTimestamp = 50
		}},
		{"zero warmup", func(c *Config) { c.Engine.Warmup = 0 }},
		{"part of level out of range", func(c *Config) { c.Engine.PartOfLevel = 1.5 }},
		{"multiplier below one", func(c *Config) { c.Engine.TrendMultiplier = 0.5 }},
		{"missing feed path", func(c *Config) { c.Feed.Path = "" }},
		{"missing db path without memory mode", func(c *Config) { c.Database.Path = "" }},
		{"bad monitor port", func(c *Config) { c.Monitor.Port = 70000 }},
	}

	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestValidateCollectsMultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Order.Side = "hold"
	cfg.Feed.Path = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "order.side") || !strings.Contains(msg, "feed.path") {
		t.Errorf("expected both violations reported, got %q", msg)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	content := `
order:
  side: sell
  total_amount: 250
feed:
  path: testdata/depth.csv
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Order.Side != "sell" || cfg.Order.TotalAmount != 250 {
		t.Errorf("file values not applied: %+v", cfg.Order)
	}
	if cfg.Engine.Warmup != 10*time.Second {
		t.Errorf("expected default warmup 10s, got %v", cfg.Engine.Warmup)
	}
	if cfg.Engine.AggressiveLifetime != time.Second {
		t.Errorf("expected default aggressive lifetime 1s, got %v", cfg.Engine.AggressiveLifetime)
	}
	if cfg.Engine.PartOfLevel != 0.01 {
		t.Errorf("expected default part_of_level 0.01, got %v", cfg.Engine.PartOfLevel)
	}
	if cfg.Monitor.Port != 8787 {
		t.Errorf("expected default monitor port, got %d", cfg.Monitor.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("expected error for missing config file")
	}
}
