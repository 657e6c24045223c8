package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"strategy-tester/internal/ai"
	"strategy-tester/internal/backtest"
	"strategy-tester/internal/config"
	"strategy-tester/internal/log"
	"strategy-tester/internal/market"
	"strategy-tester/internal/store"
	"strategy-tester/internal/strategy"
)

// App 聚合核心依赖并驱动一次完整的回测流程。
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// New 创建 App 实例。
func New(cfg *config.Config, logger *zap.Logger, store *store.Store) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
}

// Run 执行一次非交互式回测：加载数据、并行评估策略、
// 可选生成AI点评并归档结果。
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("回测系统已初始化",
		zap.String("environment", a.cfg.App.Environment),
		zap.String("exchange", a.cfg.Exchange.Name),
		zap.String("symbol", a.cfg.Exchange.Symbol),
		zap.String("timeframe", a.cfg.Exchange.Timeframe),
	)

	client, err := market.NewClient(a.cfg.Exchange, a.logger)
	if err != nil {
		return err
	}

	strategies, err := a.resolveStrategies()
	if err != nil {
		return err
	}

	engine, err := backtest.NewEngine(backtest.Config{
		InitialEquity: a.cfg.Backtest.InitialEquity,
		Annualization: a.cfg.Backtest.AnnualizationFactor,
		Align: backtest.Options{
			ExecutionLagBars: a.cfg.Backtest.ExecutionLagBars,
			FillPolicy:       backtest.FillPolicy(a.cfg.Backtest.FillPolicy),
		},
	}, client, a.logger)
	if err != nil {
		return err
	}

	reports, err := engine.Scan(ctx, strategies)
	if err != nil {
		return err
	}

	commentator := a.buildCommentator()

	for i := range reports {
		backtest.Annotate(ctx, &reports[i], commentator, a.logger)

		if a.store != nil {
			if _, saveErr := a.store.SaveRun(ctx, reports[i]); saveErr != nil {
				a.logger.Warn("归档回测结果失败",
					zap.String("strategy", reports[i].Strategy),
					zap.Error(saveErr),
				)
			}
		}

		log.Summary(a.logger, reports[i])
	}

	return nil
}

// resolveStrategies 将配置的策略名解析为已注册的策略，未配置时评估全部内置策略。
func (a *App) resolveStrategies() ([]strategy.Strategy, error) {
	registry, err := strategy.DefaultRegistry()
	if err != nil {
		return nil, err
	}

	names := a.cfg.Backtest.Strategies
	if len(names) == 0 {
		names = registry.List()
	}

	strategies := make([]strategy.Strategy, 0, len(names))
	for _, name := range names {
		strat, ok := registry.Get(name)
		if !ok {
			return nil, fmt.Errorf("未注册的策略: %q（可用: %v）", name, registry.List())
		}
		strategies = append(strategies, strat)
	}

	return strategies, nil
}

// buildCommentator 在配置了 API Key 时构建点评能力，否则返回 nil（点评为无操作）。
func (a *App) buildCommentator() backtest.Commentator {
	if a.cfg.OpenAI.APIKey == "" {
		a.logger.Info("未配置 openai.api_key，跳过策略点评")
		return nil
	}

	client, err := ai.NewClient(a.cfg.OpenAI, a.logger)
	if err != nil {
		a.logger.Warn("初始化点评客户端失败，跳过策略点评", zap.Error(err))
		return nil
	}

	return client
}
