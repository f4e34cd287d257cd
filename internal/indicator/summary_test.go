package indicator

import (
	"math"
	"testing"
)

func TestSummarizeEmptyHistory(t *testing.T) {
	summary := Summarize(nil, nil)
	if summary.Observations != 0 {
		t.Errorf("expected 0 observations, got %d", summary.Observations)
	}
	if summary.OwnLast != 0 || summary.Imbalance != 0 {
		t.Errorf("expected zero summary, got %+v", summary)
	}
}

func TestSummarizeShortHistoryFallsBack(t *testing.T) {
	summary := Summarize([]float64{5}, []float64{10})

	if summary.Observations != 1 {
		t.Errorf("expected 1 observation, got %d", summary.Observations)
	}
	if summary.OwnSMA != 5 || summary.OwnEMA != 5 {
		t.Errorf("short history must fall back to last value, got %+v", summary)
	}
	if summary.Imbalance != 0.5 {
		t.Errorf("expected imbalance 0.5, got %v", summary.Imbalance)
	}
}

func TestSummarizeComputesAverages(t *testing.T) {
	series := make([]float64, 20)
	for i := range series {
		series[i] = float64(i + 1)
	}

	summary := Summarize(series, series)

	if summary.OwnLast != 20 || summary.OtherLast != 20 {
		t.Errorf("unexpected last values: %+v", summary)
	}
	// 末段14个观测 (7..20) 的均值。
	if math.Abs(summary.OwnSMA-13.5) > 1e-9 {
		t.Errorf("expected SMA 13.5, got %v", summary.OwnSMA)
	}
	if summary.OwnSMA != summary.OtherSMA {
		t.Errorf("identical inputs must yield identical SMAs")
	}
	if summary.OwnEMA <= 0 || math.IsNaN(summary.OwnEMA) {
		t.Errorf("unexpected EMA %v", summary.OwnEMA)
	}
	if summary.Imbalance != 1 {
		t.Errorf("expected imbalance 1, got %v", summary.Imbalance)
	}
}

func TestSeriesHelpers(t *testing.T) {
	if !math.IsNaN(Last(nil)) {
		t.Errorf("Last of empty series must be NaN")
	}
	if got := Last([]float64{1, 2, 3}); got != 3 {
		t.Errorf("expected 3, got %v", got)
	}
	if got := Prev([]float64{1, 2, 3}); got != 2 {
		t.Errorf("expected 2, got %v", got)
	}
	if !math.IsNaN(Prev([]float64{1})) {
		t.Errorf("Prev with one element must be NaN")
	}

	tail := SliceTail([]float64{1, 2, 3, 4}, 2)
	if len(tail) != 2 || tail[0] != 3 || tail[1] != 4 {
		t.Errorf("unexpected tail %v", tail)
	}
	if got := SafeDivide(1, 0); got != 0 {
		t.Errorf("division by zero must yield 0, got %v", got)
	}
	if got := SafeDivide(9, 3); got != 3 {
		t.Errorf("expected 3, got %v", got)
	}
}
