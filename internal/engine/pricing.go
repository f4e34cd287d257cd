package engine

import (
	"math"

	"exec-sim/internal/book"
	"exec-sim/internal/order"
)

// BasePlan 对对手盘逐档贪婪吃单，生成假想成交计划。
// 末档可能只被部分消耗；深度不足时消耗全部档位，剩余假想量被放弃。
func BasePlan(remaining float64, levels []book.Level) []book.Level {
	plan := make([]book.Level, 0, len(levels))
	for _, lvl := range levels {
		if remaining <= 0 {
			break
		}
		if lvl.Amount <= 0 {
			continue
		}
		amount := math.Min(remaining, lvl.Amount)
		plan = append(plan, book.Level{Price: lvl.Price, Amount: amount})
		remaining -= amount
	}
	return plan
}

// AvgPrice 计算计划的量加权平均价，空计划返回0。
func AvgPrice(plan []book.Level) float64 {
	var avgPrice, filled float64
	for _, row := range plan {
		avgPrice = (avgPrice*filled + row.Price*row.Amount) / (filled + row.Amount)
		filled += row.Amount
	}
	return avgPrice
}

// SetBasePrice 以当前剩余量对对手盘做一次假想完全成交，确定不可变的基准价。
// 每次运行只生效一次，重复调用被忽略。
func (c *Context) SetBasePrice(snap book.Snapshot) {
	if c.basePriceSet {
		return
	}

	levels := snap.Asks
	if c.side == order.SideSell {
		levels = snap.Bids
	}

	c.basePlan = BasePlan(c.remainingAmount, levels)
	c.basePrice = AvgPrice(c.basePlan)
	c.basePriceSet = true
}
