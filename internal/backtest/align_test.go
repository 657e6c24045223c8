package backtest

import (
	"errors"
	"math"
	"testing"
	"time"

	"strategy-tester/internal/market"
	"strategy-tester/internal/strategy"
)

func TestAlign_OneBarLagShiftsDecisions(t *testing.T) {
	series := makeSeries(100, 110, 99, 108)
	sig := strategy.Signal{Positions: []float64{1, 1, 0, 1}}

	aligned, err := Align(series, sig, Options{ExecutionLagBars: 1, FillPolicy: FillForward})
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}

	wantEffective := []float64{0, 1, 1, 0}
	for i, want := range wantEffective {
		if aligned.EffectivePositions[i] != want {
			t.Errorf("effective[%d]: got %v want %v", i, aligned.EffectivePositions[i], want)
		}
	}

	wantRealized := []float64{0, 0.10, -0.10, 0}
	for i, want := range wantRealized {
		if diff := math.Abs(aligned.RealizedReturns[i] - want); diff > 1e-12 {
			t.Errorf("realized[%d]: got %v want %v", i, aligned.RealizedReturns[i], want)
		}
	}
}

func TestAlign_NoLookahead(t *testing.T) {
	series := makeSeries(100, 105, 98, 120, 130)
	sig := strategy.Signal{Positions: []float64{1, -1, 1, 0, 1}}
	opts := Options{ExecutionLagBars: 1, FillPolicy: FillForward}

	base, err := Align(series, sig, opts)
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}

	// Mutating prices after index i must never change realized returns up to i.
	for cut := 1; cut < series.Len(); cut++ {
		mutated := makeSeries(100, 105, 98, 120, 130)
		for j := cut + 1; j < mutated.Len(); j++ {
			mutated.Bars[j].Close *= 7
		}

		got, err := Align(mutated, sig, opts)
		if err != nil {
			t.Fatalf("Align on mutated series returned error: %v", err)
		}
		for i := 0; i <= cut; i++ {
			if got.RealizedReturns[i] != base.RealizedReturns[i] {
				t.Errorf("cut=%d: realized[%d] changed from %v to %v",
					cut, i, base.RealizedReturns[i], got.RealizedReturns[i])
			}
		}
	}
}

func TestAlign_TotalityWithMissingTimestamps(t *testing.T) {
	series := makeSeries(100, 101, 102, 103, 104)
	timestamps := series.Timestamps()

	// Signal only covers bars 1 and 3; everything else is undefined.
	sig := strategy.Signal{
		Timestamps: []time.Time{timestamps[1], timestamps[3]},
		Positions:  []float64{1, 0},
	}

	aligned, err := Align(series, sig, Options{ExecutionLagBars: 1, FillPolicy: FillForward})
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}

	if len(aligned.RealizedReturns) != series.Len() {
		t.Fatalf("realized length: got %d want %d", len(aligned.RealizedReturns), series.Len())
	}
	for i, r := range aligned.RealizedReturns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			t.Errorf("realized[%d] is not finite: %v", i, r)
		}
	}

	// Forward fill: positions become [0, 1, 1, 0, 0]; lagged effective [0, 0, 1, 1, 0].
	wantEffective := []float64{0, 0, 1, 1, 0}
	for i, want := range wantEffective {
		if aligned.EffectivePositions[i] != want {
			t.Errorf("effective[%d]: got %v want %v", i, aligned.EffectivePositions[i], want)
		}
	}

	if aligned.DataQualityFlags != 3 {
		t.Errorf("quality flags: got %d want 3", aligned.DataQualityFlags)
	}
}

func TestAlign_FillZeroPolicy(t *testing.T) {
	series := makeSeries(100, 101, 102, 103)
	sig := strategy.Signal{
		Positions: []float64{1, strategy.Undefined(), strategy.Undefined(), 0},
	}

	aligned, err := Align(series, sig, Options{ExecutionLagBars: 1, FillPolicy: FillZero})
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}

	// Zero fill: positions [1, 0, 0, 0]; lagged effective [0, 1, 0, 0].
	wantEffective := []float64{0, 1, 0, 0}
	for i, want := range wantEffective {
		if aligned.EffectivePositions[i] != want {
			t.Errorf("effective[%d]: got %v want %v", i, aligned.EffectivePositions[i], want)
		}
	}
}

func TestAlign_NonFinitePriceSubstitution(t *testing.T) {
	series := makeSeries(100, 0, 102, 103)
	sig := strategy.Signal{Positions: []float64{1, 1, 1, 1}}

	aligned, err := Align(series, sig, Options{ExecutionLagBars: 1, FillPolicy: FillForward})
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}

	// Return over the zero close is substituted with 0 instead of aborting.
	if aligned.RealizedReturns[2] != 0 {
		t.Errorf("realized[2]: got %v want 0", aligned.RealizedReturns[2])
	}
	if aligned.DataQualityFlags == 0 {
		t.Errorf("expected quality flags > 0 for zero prior close")
	}
	for i, r := range aligned.RealizedReturns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			t.Errorf("realized[%d] is not finite: %v", i, r)
		}
	}
}

func TestAlign_ContractViolations(t *testing.T) {
	series := makeSeries(100, 101, 102)
	timestamps := series.Timestamps()

	cases := []struct {
		name string
		sig  strategy.Signal
	}{
		{
			name: "length mismatch without timestamps",
			sig:  strategy.Signal{Positions: []float64{1, 0}},
		},
		{
			name: "timestamp and position count mismatch",
			sig: strategy.Signal{
				Timestamps: []time.Time{timestamps[0]},
				Positions:  []float64{1, 0},
			},
		},
		{
			name: "unknown timestamp",
			sig: strategy.Signal{
				Timestamps: []time.Time{timestamps[0].Add(time.Hour)},
				Positions:  []float64{1},
			},
		},
		{
			name: "duplicate timestamp",
			sig: strategy.Signal{
				Timestamps: []time.Time{timestamps[0], timestamps[0]},
				Positions:  []float64{1, 0},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Align(series, tc.sig, Options{ExecutionLagBars: 1, FillPolicy: FillForward})
			if !errors.Is(err, ErrContractViolation) {
				t.Fatalf("expected ErrContractViolation, got %v", err)
			}
		})
	}
}

func TestAlign_ZeroLag(t *testing.T) {
	series := makeSeries(100, 110)
	sig := strategy.Signal{Positions: []float64{1, 1}}

	aligned, err := Align(series, sig, Options{ExecutionLagBars: 0, FillPolicy: FillForward})
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}

	if diff := math.Abs(aligned.RealizedReturns[1] - 0.10); diff > 1e-12 {
		t.Errorf("realized[1]: got %v want 0.10", aligned.RealizedReturns[1])
	}
}

func TestAlign_RejectsNegativeLag(t *testing.T) {
	series := makeSeries(100, 101)
	sig := strategy.Signal{Positions: []float64{1, 1}}

	if _, err := Align(series, sig, Options{ExecutionLagBars: -1}); err == nil {
		t.Fatalf("expected error for negative lag")
	}
}

func makeSeries(closes ...float64) market.Series {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    1000,
		}
	}
	return market.Series{Symbol: "BTC/USDT", Bars: bars}
}
