package strategy

import (
	"math"
	"time"
)

// Signal 为策略输出：逐K线的目标仓位。
// Positions 中的 NaN 表示该K线仓位未定义，由对齐引擎按填充策略补齐。
// Timestamps 为空时按位置与价格序列对齐，否则按时间戳重新索引。
// RawReturns 仅供参考，回测引擎不信任该值，会依据收盘价重新计算。
type Signal struct {
	Timestamps []time.Time
	Positions  []float64
	RawReturns []float64
}

// Len 返回信号长度。
func (s Signal) Len() int {
	return len(s.Positions)
}

// Undefined 返回表示未定义仓位的哨兵值。
func Undefined() float64 {
	return math.NaN()
}

// Defined 判断仓位是否已定义。
func Defined(position float64) bool {
	return !math.IsNaN(position)
}
