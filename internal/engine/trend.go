package engine

import (
	"exec-sim/internal/book"
	"exec-sim/internal/order"
)

// firstTickThreshold 为历史不足时的静态判定阈值。
const firstTickThreshold = 1.01

// UpdateTrend 追加双边流动性观测并判断当前变化是否有利于母单方向。
// 首次观测（历史不足两条）时只做静态比较：己方流动性不超过对侧的1.01倍即视作有利。
// 其后仅比较与上一条观测之间的增量，不做任何平滑或加窗。
//
// 这是唯一写入流动性历史的入口，调用节奏决定趋势语义：
// 暖机阶段每个快照调用一次，主阶段仅在评估是否挂新单时调用。
func (c *Context) UpdateTrend(snap book.Snapshot) bool {
	own := sideVolume(c.side, snap)
	other := sideVolume(c.side.Opposite(), snap)

	c.ownLiquidity = append(c.ownLiquidity, own)
	c.otherLiquidity = append(c.otherLiquidity, other)

	n := len(c.ownLiquidity)
	if n < 2 {
		return own <= other*firstTickThreshold
	}

	ownDelta := own - c.ownLiquidity[n-2]
	otherDelta := other - c.otherLiquidity[n-2]
	return ownDelta > otherDelta
}

// sideVolume 返回指定方向最终需要穿越一侧的总挂单量：买方看卖盘，卖方看买盘。
func sideVolume(side order.Side, snap book.Snapshot) float64 {
	if side == order.SideBuy {
		return book.SideVolume(snap.Asks)
	}
	return book.SideVolume(snap.Bids)
}
