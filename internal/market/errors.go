package market

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData 表示K线不足以计算任何收益。
	ErrInsufficientData = errors.New("price series requires at least 2 bars")

	// ErrMaintenance 表示交易所处于维护状态，数据暂不可用。
	ErrMaintenance = errors.New("exchange on maintenance")
)

// Validate 校验序列满足回测前置条件：至少两根K线、时间戳严格递增。
func (s Series) Validate() error {
	if len(s.Bars) < 2 {
		return fmt.Errorf("%w: 当前仅有 %d 根", ErrInsufficientData, len(s.Bars))
	}

	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].Timestamp.After(s.Bars[i-1].Timestamp) {
			return fmt.Errorf("K线时间戳必须严格递增: index=%d ts=%s", i, s.Bars[i].Timestamp)
		}
	}

	return nil
}
