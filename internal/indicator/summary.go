package indicator

import (
	talib "github.com/markcheno/go-talib"
)

// 统计窗口，观测不足时退化为全量窗口。
const defaultPeriod = 14

// LiquiditySummary 汇总一次运行期间双边流动性的事后统计。
// 仅用于报告，决策逻辑不读取这里的任何值。
type LiquiditySummary struct {
	Observations int     `json:"observations"`
	OwnLast      float64 `json:"own_last"`
	OtherLast    float64 `json:"other_last"`
	OwnSMA       float64 `json:"own_sma"`
	OtherSMA     float64 `json:"other_sma"`
	OwnEMA       float64 `json:"own_ema"`
	OtherEMA     float64 `json:"other_ema"`
	Imbalance    float64 `json:"imbalance"`
}

// Summarize 基于引擎留下的流动性历史计算统计。空历史返回零值。
func Summarize(own, other []float64) LiquiditySummary {
	summary := LiquiditySummary{Observations: len(own)}
	if len(own) == 0 || len(other) == 0 {
		return summary
	}

	summary.OwnLast = Last(own)
	summary.OtherLast = Last(other)
	summary.Imbalance = SafeDivide(summary.OwnLast, summary.OtherLast)

	period := defaultPeriod
	if len(own) < period {
		period = len(own)
	}
	if len(other) < period {
		period = len(other)
	}

	if period < 2 {
		summary.OwnSMA = summary.OwnLast
		summary.OtherSMA = summary.OtherLast
		summary.OwnEMA = summary.OwnLast
		summary.OtherEMA = summary.OtherLast
		return summary
	}

	summary.OwnSMA = Last(talib.Sma(own, period))
	summary.OtherSMA = Last(talib.Sma(other, period))
	summary.OwnEMA = Last(talib.Ema(own, period))
	summary.OtherEMA = Last(talib.Ema(other, period))

	return summary
}
