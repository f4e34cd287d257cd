package engine

import "exec-sim/internal/order"

// amountTrendMultiplier 在市场价相对基准价向有利方向漂移时放大子单规模。
// 买单：现价低于基准价时返回 multiplier×(基准价/现价)；
// 卖单：现价高于基准价时返回 multiplier×(现价/基准价)；
// 其余情况不放大，返回1。
func amountTrendMultiplier(best, base float64, side order.Side, multiplier float64) float64 {
	if side == order.SideBuy && best < base {
		return multiplier * (base / best)
	}
	if side == order.SideSell && best > base {
		return multiplier * (best / base)
	}
	return 1
}
