package backtest

import "math"

// Metrics 记录一次回测的绩效指标，全部为有限数值。
type Metrics struct {
	// TotalPnL 为已实现收益的累加和。
	TotalPnL    float64
	SharpeRatio float64
	// WinRate 为盈利K线占非零收益K线的比例，无非零收益时为0。
	WinRate     float64
	MaxDrawdown float64
	TradeCount  int
}

// calculateMetrics 由校验后的序列计算指标与净值曲线（基准1.0逐根复利）。
func calculateMetrics(aligned Aligned, annualization float64) (Metrics, []float64, Warnings) {
	returns := aligned.RealizedReturns
	warnings := Warnings{DataQuality: aligned.DataQualityFlags}

	equity := make([]float64, len(returns))
	current := 1.0
	for i, r := range returns {
		current *= 1 + r
		equity[i] = current
	}

	totalPnL := 0.0
	for _, r := range returns {
		totalPnL += r
	}

	sharpe, zeroVariance := computeSharpe(returns, annualization)
	warnings.ZeroVariance = zeroVariance

	winRate, active := computeWinRate(returns)
	warnings.NoActiveBars = !active

	metrics := Metrics{
		TotalPnL:    totalPnL,
		SharpeRatio: sharpe,
		WinRate:     winRate,
		MaxDrawdown: computeDrawdown(equity),
		TradeCount:  countTrades(aligned.EffectivePositions),
	}

	return metrics, equity, warnings
}

// computeSharpe 计算年化夏普比率，使用样本标准差(n-1)。
// 方差为零的退化序列返回0而非错误。
func computeSharpe(returns []float64, annualization float64) (float64, bool) {
	if len(returns) < 2 {
		return 0, true
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(returns) - 1)

	std := math.Sqrt(variance)
	if std == 0 {
		return 0, true
	}

	return (mean / std) * math.Sqrt(annualization), false
}

// computeWinRate 返回胜率以及序列中是否存在非零收益K线。
func computeWinRate(returns []float64) (float64, bool) {
	wins := 0
	active := 0
	for _, r := range returns {
		if r == 0 {
			continue
		}
		active++
		if r > 0 {
			wins++
		}
	}
	if active == 0 {
		return 0, false
	}
	return float64(wins) / float64(active), true
}

// countTrades 统计有效仓位发生变化的次数。
func countTrades(effective []float64) int {
	trades := 0
	for i := 1; i < len(effective); i++ {
		if effective[i] != effective[i-1] {
			trades++
		}
	}
	return trades
}

func computeDrawdown(equity []float64) float64 {
	var peak float64
	maxDD := 0.0
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		dd := (v - peak) / peak
		if dd < maxDD {
			maxDD = dd
		}
	}
	return math.Abs(maxDD)
}
