package strategy

import (
	"fmt"

	talib "github.com/markcheno/go-talib"

	"strategy-tester/internal/market"
)

// NewSMACross 构造均线交叉策略：短均线上穿做多，下穿做空。
// 均线未形成前仓位未定义，交由对齐引擎填充。
func NewSMACross(fast, slow int) (Strategy, error) {
	if fast <= 0 || slow <= 0 || fast >= slow {
		return nil, fmt.Errorf("strategy: 均线窗口非法 fast=%d slow=%d", fast, slow)
	}

	name := fmt.Sprintf("sma_cross_%d_%d", fast, slow)
	return New(name, func(prices market.Series) (Signal, error) {
		closes := prices.Closes()
		if len(closes) < slow {
			return Signal{}, fmt.Errorf("strategy: K线不足以计算 %d 周期均线", slow)
		}

		fastMA := talib.Sma(closes, fast)
		slowMA := talib.Sma(closes, slow)

		positions := make([]float64, len(closes))
		for i := range closes {
			if i < slow-1 {
				positions[i] = Undefined()
				continue
			}
			switch {
			case fastMA[i] > slowMA[i]:
				positions[i] = 1
			case fastMA[i] < slowMA[i]:
				positions[i] = -1
			default:
				positions[i] = 0
			}
		}

		return Signal{Timestamps: prices.Timestamps(), Positions: positions}, nil
	}), nil
}

// NewRSIReversion 构造 RSI 均值回归策略：超卖做多，超买离场，其余维持原仓。
func NewRSIReversion(period int, oversold, overbought float64) (Strategy, error) {
	if period <= 1 {
		return nil, fmt.Errorf("strategy: RSI 周期非法 period=%d", period)
	}
	if oversold >= overbought {
		return nil, fmt.Errorf("strategy: RSI 阈值非法 oversold=%.1f overbought=%.1f", oversold, overbought)
	}

	name := fmt.Sprintf("rsi_reversion_%d", period)
	return New(name, func(prices market.Series) (Signal, error) {
		closes := prices.Closes()
		if len(closes) <= period {
			return Signal{}, fmt.Errorf("strategy: K线不足以计算 %d 周期RSI", period)
		}

		rsi := talib.Rsi(closes, period)

		positions := make([]float64, len(closes))
		for i := range closes {
			if i < period {
				positions[i] = Undefined()
				continue
			}
			switch {
			case rsi[i] < oversold:
				positions[i] = 1
			case rsi[i] > overbought:
				positions[i] = 0
			default:
				// 区间内不给出新决策，由前向填充沿用最近仓位。
				positions[i] = Undefined()
			}
		}

		return Signal{Timestamps: prices.Timestamps(), Positions: positions}, nil
	}), nil
}

// NewBuyAndHold 构造满仓持有基准策略。
func NewBuyAndHold() Strategy {
	return New("buy_and_hold", func(prices market.Series) (Signal, error) {
		positions := make([]float64, prices.Len())
		for i := range positions {
			positions[i] = 1
		}
		return Signal{Timestamps: prices.Timestamps(), Positions: positions}, nil
	})
}

// NewFlat 构造空仓基准策略，用于校准指标基线。
func NewFlat() Strategy {
	return New("flat", func(prices market.Series) (Signal, error) {
		return Signal{
			Timestamps: prices.Timestamps(),
			Positions:  make([]float64, prices.Len()),
		}, nil
	})
}

// DefaultRegistry 返回注册了全部内置策略的注册表。
func DefaultRegistry() (*Registry, error) {
	registry := NewRegistry()

	smaCross, err := NewSMACross(10, 30)
	if err != nil {
		return nil, err
	}
	rsiReversion, err := NewRSIReversion(14, 30, 70)
	if err != nil {
		return nil, err
	}

	registry.Register(smaCross)
	registry.Register(rsiReversion)
	registry.Register(NewBuyAndHold())
	registry.Register(NewFlat())

	return registry, nil
}
