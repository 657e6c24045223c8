package log

import (
	"go.uber.org/zap"

	"strategy-tester/internal/backtest"
)

// Summary 以统一格式输出一条回测结果日志。
func Summary(logger *zap.Logger, report backtest.Report) {
	if logger == nil {
		return
	}

	fields := []zap.Field{
		zap.String("symbol", report.Symbol),
		zap.String("strategy", report.Strategy),
		zap.Time("start", report.Start),
		zap.Time("end", report.End),
		zap.Int("bars", report.Bars),
		zap.Float64("total_pnl", report.Metrics.TotalPnL),
		zap.Float64("sharpe_ratio", report.Metrics.SharpeRatio),
		zap.Float64("win_rate", report.Metrics.WinRate),
		zap.Float64("max_drawdown", report.Metrics.MaxDrawdown),
		zap.Int("trade_count", report.Metrics.TradeCount),
		zap.Float64("final_equity", report.FinalEquity),
	}

	if report.Warnings.DataQuality > 0 {
		fields = append(fields, zap.Int("quality_flags", report.Warnings.DataQuality))
	}
	if report.Warnings.ZeroVariance {
		fields = append(fields, zap.Bool("zero_variance", true))
	}
	if report.Warnings.NoActiveBars {
		fields = append(fields, zap.Bool("no_active_bars", true))
	}
	if report.Commentary != "" {
		fields = append(fields, zap.String("commentary", report.Commentary))
	}

	logger.Info("回测结果", fields...)
}
