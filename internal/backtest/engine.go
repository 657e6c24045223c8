package backtest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"strategy-tester/internal/market"
	"strategy-tester/internal/strategy"
)

// Config 定义回测参数。
type Config struct {
	InitialEquity float64 // 初始净值
	Annualization float64 // 夏普年化因子，日线默认252
	Align         Options // 对齐与校验选项
}

func (c *Config) normalize() Config {
	cfg := *c
	if cfg.InitialEquity <= 0 {
		cfg.InitialEquity = 10000
	}
	if cfg.Annualization <= 0 {
		cfg.Annualization = 252
	}
	if cfg.Align.FillPolicy == "" {
		cfg.Align.FillPolicy = FillForward
	}
	return cfg
}

// Engine 串联数据源、策略、对齐校验与指标计算。
// Engine 本身无可变状态，可被多个回测并发复用。
type Engine struct {
	cfg    Config
	loader market.Loader
	logger *zap.Logger
}

// NewEngine 构建回测引擎。
func NewEngine(cfg Config, loader market.Loader, logger *zap.Logger) (*Engine, error) {
	if loader == nil {
		return nil, fmt.Errorf("backtest: loader 不能为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		cfg:    cfg.normalize(),
		loader: loader,
		logger: logger,
	}, nil
}

// Run 加载价格序列并执行单策略回测。
func (e *Engine) Run(ctx context.Context, strat strategy.Strategy) (Report, error) {
	series, err := e.loader.Load(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("加载价格序列失败: %w", err)
	}
	return e.RunSeries(ctx, series, strat)
}

// RunSeries 在给定价格序列上执行单策略回测。
func (e *Engine) RunSeries(ctx context.Context, series market.Series, strat strategy.Strategy) (Report, error) {
	if strat == nil {
		return Report{}, fmt.Errorf("backtest: strategy 不能为空")
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	if err := series.Validate(); err != nil {
		return Report{}, err
	}

	sig, err := strat.Apply(series)
	if err != nil {
		return Report{}, fmt.Errorf("策略 %s 执行失败: %w", strat.Name(), err)
	}

	aligned, err := Align(series, sig, e.cfg.Align)
	if err != nil {
		return Report{}, err
	}

	metrics, equity, warnings := calculateMetrics(aligned, e.cfg.Annualization)

	report := Report{
		Symbol:             series.Symbol,
		Strategy:           strat.Name(),
		Start:              series.Start(),
		End:                series.End(),
		Bars:               series.Len(),
		Metrics:            metrics,
		EquityCurve:        equity,
		RealizedReturns:    aligned.RealizedReturns,
		EffectivePositions: aligned.EffectivePositions,
		InitialEquity:      e.cfg.InitialEquity,
		FinalEquity:        e.cfg.InitialEquity * equity[len(equity)-1],
		Warnings:           warnings,
		RanAt:              time.Now().UTC(),
	}

	e.logger.Info("回测完成",
		zap.String("symbol", report.Symbol),
		zap.String("strategy", report.Strategy),
		zap.Int("bars", report.Bars),
		zap.Float64("total_pnl", metrics.TotalPnL),
		zap.Float64("sharpe", metrics.SharpeRatio),
		zap.Float64("win_rate", metrics.WinRate),
		zap.Int("trades", metrics.TradeCount),
		zap.Int("quality_flags", warnings.DataQuality),
	)

	return report, nil
}
