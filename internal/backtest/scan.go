package backtest

import (
	"context"

	"golang.org/x/sync/errgroup"

	"strategy-tester/internal/strategy"
)

// Scan 在同一价格序列上并行评估多个策略。
// 各回测相互独立、无共享状态，结果顺序与输入策略顺序一致。
func (e *Engine) Scan(ctx context.Context, strategies []strategy.Strategy) ([]Report, error) {
	series, err := e.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	reports := make([]Report, len(strategies))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, strat := range strategies {
		group.Go(func() error {
			report, err := e.RunSeries(groupCtx, series, strat)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}
