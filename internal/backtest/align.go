package backtest

import (
	"fmt"
	"math"

	"strategy-tester/internal/market"
	"strategy-tester/internal/strategy"
)

// FillPolicy 控制未定义仓位的填充方式。
type FillPolicy string

const (
	// FillForward 沿用最近一次已定义仓位，首个定义前保持空仓。
	FillForward FillPolicy = "ffill"
	// FillZero 将未定义仓位直接视为空仓。
	FillZero FillPolicy = "zero"
)

// Options 控制对齐与校验行为。
type Options struct {
	// ExecutionLagBars 为信号生效延迟：第i根K线实现的收益使用
	// 第i-lag根K线做出的仓位决策，防止决策看到当根收盘价。
	ExecutionLagBars int
	FillPolicy       FillPolicy
}

// Aligned 为对齐校验后的完整序列：与价格序列等长、全部为有限数值。
type Aligned struct {
	EffectivePositions []float64
	RealizedReturns    []float64
	// DataQualityFlags 统计被替换的未定义仓位与非有限收益，
	// 单根坏K线不会使整次回测失败。
	DataQualityFlags int
}

// Align 将策略原始输出转换为可直接计算指标的已实现收益序列。
//
// 处理顺序：按时间戳重索引 -> 填充未定义仓位 -> 施加执行延迟 ->
// 依据收盘价重新计算收益 -> 替换非有限值。策略自带的收益一律不采信。
func Align(prices market.Series, sig strategy.Signal, opts Options) (Aligned, error) {
	if opts.ExecutionLagBars < 0 {
		return Aligned{}, fmt.Errorf("backtest: execution lag 不能为负: %d", opts.ExecutionLagBars)
	}
	switch opts.FillPolicy {
	case FillForward, FillZero:
	case "":
		opts.FillPolicy = FillForward
	default:
		return Aligned{}, fmt.Errorf("backtest: fill policy 取值非法: %s", opts.FillPolicy)
	}

	length := prices.Len()
	flags := 0

	raw, err := reindex(prices, sig)
	if err != nil {
		return Aligned{}, err
	}

	// 填充未定义仓位。NaN 与 Inf 均视为未定义，替换并计入质量标记。
	filled := make([]float64, length)
	last := 0.0
	for i, position := range raw {
		if !isFinite(position) {
			flags++
			if opts.FillPolicy == FillForward {
				filled[i] = last
			} else {
				filled[i] = 0
			}
			continue
		}
		filled[i] = position
		last = position
	}

	// 施加执行延迟：前 lag 根K线没有可执行的历史决策，强制空仓。
	lag := opts.ExecutionLagBars
	effective := make([]float64, length)
	for i := range effective {
		if i >= lag {
			effective[i] = filled[i-lag]
		}
	}

	// 依据收盘价重新计算已实现收益，首根K线恒为0。
	realized := make([]float64, length)
	for i := 1; i < length; i++ {
		prevClose := prices.Bars[i-1].Close
		if prevClose <= 0 || !isFinite(prevClose) {
			flags++
			continue
		}
		r := effective[i] * (prices.Bars[i].Close/prevClose - 1)
		if !isFinite(r) {
			flags++
			continue
		}
		realized[i] = r
	}

	return Aligned{
		EffectivePositions: effective,
		RealizedReturns:    realized,
		DataQualityFlags:   flags,
	}, nil
}

// reindex 将策略输出映射到价格序列索引上，缺失的时间戳记为未定义仓位。
// 无法安全对齐的输出（长度不符、未知或重复时间戳）视为契约违规。
func reindex(prices market.Series, sig strategy.Signal) ([]float64, error) {
	length := prices.Len()

	if sig.Timestamps == nil {
		if len(sig.Positions) != length {
			return nil, fmt.Errorf("%w: 仓位数 %d 与K线数 %d 不符",
				ErrContractViolation, len(sig.Positions), length)
		}
		raw := make([]float64, length)
		copy(raw, sig.Positions)
		return raw, nil
	}

	if len(sig.Timestamps) != len(sig.Positions) {
		return nil, fmt.Errorf("%w: 时间戳数 %d 与仓位数 %d 不符",
			ErrContractViolation, len(sig.Timestamps), len(sig.Positions))
	}

	index := make(map[int64]int, length)
	for i, bar := range prices.Bars {
		index[bar.Timestamp.UnixNano()] = i
	}

	raw := make([]float64, length)
	for i := range raw {
		raw[i] = math.NaN()
	}

	seen := make(map[int64]struct{}, len(sig.Timestamps))
	for i, ts := range sig.Timestamps {
		key := ts.UnixNano()
		pos, ok := index[key]
		if !ok {
			return nil, fmt.Errorf("%w: 信号时间戳 %s 不在价格序列内",
				ErrContractViolation, ts)
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: 信号时间戳 %s 重复", ErrContractViolation, ts)
		}
		seen[key] = struct{}{}
		raw[pos] = sig.Positions[i]
	}

	return raw, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
