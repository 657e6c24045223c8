package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
exchange:
  symbol: ETH/USDT
database:
  in_memory: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Exchange.Symbol != "ETH/USDT" {
		t.Errorf("symbol: got %s want ETH/USDT", cfg.Exchange.Symbol)
	}
	if cfg.Exchange.Timeframe != "1d" {
		t.Errorf("timeframe default: got %s want 1d", cfg.Exchange.Timeframe)
	}
	if cfg.Backtest.AnnualizationFactor != 252 {
		t.Errorf("annualization default: got %v want 252", cfg.Backtest.AnnualizationFactor)
	}
	if cfg.Backtest.ExecutionLagBars != 1 {
		t.Errorf("execution lag default: got %d want 1", cfg.Backtest.ExecutionLagBars)
	}
	if cfg.Backtest.FillPolicy != "ffill" {
		t.Errorf("fill policy default: got %s want ffill", cfg.Backtest.FillPolicy)
	}
	if cfg.Exchange.Retry.MinDelay != 500*time.Millisecond {
		t.Errorf("retry min delay default: got %v", cfg.Exchange.Retry.MinDelay)
	}
	if cfg.OpenAI.APIKey != "" {
		t.Errorf("openai key should default to empty, got %q", cfg.OpenAI.APIKey)
	}
}

func TestLoadRejectsInvalidFillPolicy(t *testing.T) {
	path := writeConfig(t, `
backtest:
  fill_policy: interpolate
database:
  in_memory: true
`)

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "fill_policy") {
		t.Fatalf("expected fill_policy validation error, got %v", err)
	}
}

func TestLoadRejectsTooFewBars(t *testing.T) {
	path := writeConfig(t, `
exchange:
  limit: 1
database:
  in_memory: true
`)

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "exchange.limit") {
		t.Fatalf("expected limit validation error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidateOpenAIOnlyWhenKeySet(t *testing.T) {
	path := writeConfig(t, `
openai:
  api_key: sk-test
  model: ""
database:
  in_memory: true
`)

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "openai.model") {
		t.Fatalf("expected openai.model validation error, got %v", err)
	}
}
