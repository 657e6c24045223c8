package backtest

import "errors"

var (
	// ErrContractViolation 表示策略输出与价格序列无法对齐，回测中止且不产生结果。
	ErrContractViolation = errors.New("strategy output misaligned with price series")
)
