package backtest

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Warnings 汇总回测过程中被局部恢复的异常，供调用方评估结果可信度。
type Warnings struct {
	// DataQuality 为被替换的未定义仓位与非有限收益的数量。
	DataQuality int
	// ZeroVariance 表示收益序列方差为零，夏普比率回退为0。
	ZeroVariance bool
	// NoActiveBars 表示不存在非零收益K线，胜率回退为0。
	NoActiveBars bool
}

// Report 为一次回测的最终产物，创建后不再修改（Commentary 除外）。
type Report struct {
	Symbol   string
	Strategy string
	Start    time.Time
	End      time.Time
	Bars     int

	Metrics            Metrics
	EquityCurve        []float64
	RealizedReturns    []float64
	EffectivePositions []float64

	InitialEquity float64
	FinalEquity   float64

	Warnings   Warnings
	Commentary string
	RanAt      time.Time
}

// Commentator 为可选的点评能力：将回测结果总结为自然语言。
type Commentator interface {
	Summarize(ctx context.Context, report Report) (string, error)
}

// Annotate 调用点评能力填充 Commentary。能力缺失时为无操作，
// 点评失败只记录日志，不影响回测结果。
func Annotate(ctx context.Context, report *Report, commentator Commentator, logger *zap.Logger) {
	if commentator == nil || report == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	text, err := commentator.Summarize(ctx, *report)
	if err != nil {
		logger.Warn("生成策略点评失败",
			zap.String("strategy", report.Strategy),
			zap.Error(err),
		)
		return
	}

	report.Commentary = text
}
