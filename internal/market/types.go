package market

import "time"

// Bar 代表单根K线。
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Series 为单一交易对按时间升序排列的K线序列，加载后不再修改。
type Series struct {
	Symbol string
	Bars   []Bar
}

// Len 返回序列长度。
func (s Series) Len() int {
	return len(s.Bars)
}

// Start 返回首根K线时间，序列为空时返回零值。
func (s Series) Start() time.Time {
	if len(s.Bars) == 0 {
		return time.Time{}
	}
	return s.Bars[0].Timestamp
}

// End 返回末根K线时间，序列为空时返回零值。
func (s Series) End() time.Time {
	if len(s.Bars) == 0 {
		return time.Time{}
	}
	return s.Bars[len(s.Bars)-1].Timestamp
}

// Closes 返回收盘价序列副本。
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, bar := range s.Bars {
		closes[i] = bar.Close
	}
	return closes
}

// Timestamps 返回时间戳序列副本。
func (s Series) Timestamps() []time.Time {
	timestamps := make([]time.Time, len(s.Bars))
	for i, bar := range s.Bars {
		timestamps[i] = bar.Timestamp
	}
	return timestamps
}
