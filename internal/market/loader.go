package market

import "context"

// SliceLoader 以固定序列充当数据源，用于测试与离线回放。
type SliceLoader struct {
	series Series
}

// NewSliceLoader 创建 SliceLoader。
func NewSliceLoader(series Series) *SliceLoader {
	return &SliceLoader{series: series}
}

// Load 返回固定序列的副本，保证调用方无法篡改内部数据。
func (l *SliceLoader) Load(ctx context.Context) (Series, error) {
	if err := ctx.Err(); err != nil {
		return Series{}, err
	}

	bars := make([]Bar, len(l.series.Bars))
	copy(bars, l.series.Bars)
	return Series{Symbol: l.series.Symbol, Bars: bars}, nil
}
