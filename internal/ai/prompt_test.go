package ai

import (
	"strings"
	"testing"
	"time"

	"strategy-tester/internal/backtest"
)

func TestBuildPrompt(t *testing.T) {
	report := backtest.Report{
		Symbol:   "BTC/USDT",
		Strategy: "sma_cross_10_30",
		Start:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Bars:     365,
		Metrics: backtest.Metrics{
			TotalPnL:    0.42,
			SharpeRatio: 1.25,
			WinRate:     0.55,
			MaxDrawdown: 0.18,
			TradeCount:  24,
		},
		InitialEquity: 10000,
		FinalEquity:   14200,
		Warnings:      backtest.Warnings{DataQuality: 29},
	}

	prompt, err := BuildPrompt(report)
	if err != nil {
		t.Fatalf("BuildPrompt returned error: %v", err)
	}

	for _, want := range []string{
		"BTC/USDT",
		"sma_cross_10_30",
		"2024-01-01",
		"55.00%",
		"29",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPrompt_OmitsQualityNoteWhenClean(t *testing.T) {
	report := backtest.Report{
		Symbol:   "BTC/USDT",
		Strategy: "flat",
		Start:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	prompt, err := BuildPrompt(report)
	if err != nil {
		t.Fatalf("BuildPrompt returned error: %v", err)
	}

	if strings.Contains(prompt, "数据质量提示") {
		t.Errorf("clean report should not carry a data quality note:\n%s", prompt)
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(testOpenAIConfig(""), nil); err == nil {
		t.Fatalf("expected error for empty api key")
	}
	if _, err := NewClient(testOpenAIConfig("sk-test"), nil); err != nil {
		t.Fatalf("unexpected error with api key: %v", err)
	}
}
