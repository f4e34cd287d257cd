package engine

import (
	"exec-sim/internal/book"
	"exec-sim/internal/order"
)

// Observer 在每次状态迁移后接收只读通知，供上层渲染或落盘。
// 回调在引擎线程内同步执行，实现方不得阻塞或修改传入数据。
type Observer interface {
	OrderPlaced(o order.Order)
	OrderExecuted(o order.Order, snap book.Snapshot)
	OrderCancelled(o order.Order, ts int64)
	ParentUpdated(p ParentSnapshot)
}

// ParentSnapshot 为母单状态的只读切面。
type ParentSnapshot struct {
	Side              order.Side
	TotalAmount       float64
	RemainingAmount   float64
	AvgExecutionPrice float64
	BasePrice         float64
	BasePriceSet      bool
	PlacedCount       int
	ExecutedCount     int
	CancelledCount    int
	Ticks             int
	Completed         bool
	Timestamp         int64
}

// NopObserver 忽略所有通知。
type NopObserver struct{}

func (NopObserver) OrderPlaced(order.Order)                  {}
func (NopObserver) OrderExecuted(order.Order, book.Snapshot) {}
func (NopObserver) OrderCancelled(order.Order, int64)        {}
func (NopObserver) ParentUpdated(ParentSnapshot)             {}
