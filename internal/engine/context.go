package engine

import (
	"exec-sim/internal/book"
	"exec-sim/internal/order"
)

// Context 持有母单的全部执行状态：剩余量、均价、基准价、
// 子单集合与双边流动性历史。每次运行只存在一个 Context，
// 由引擎单线程驱动，不需要任何锁。
type Context struct {
	side              order.Side
	totalAmount       float64
	remainingAmount   float64
	avgExecutionPrice float64
	epsilon           float64

	basePlan     []book.Level
	basePrice    float64
	basePriceSet bool

	placed   []*order.Order
	executed []*order.Order

	ownLiquidity   []float64
	otherLiquidity []float64

	seq order.Sequence
}

// NewContext 创建母单执行上下文。
func NewContext(side order.Side, totalAmount, epsilon float64) *Context {
	return &Context{
		side:            side,
		totalAmount:     totalAmount,
		remainingAmount: totalAmount,
		epsilon:         epsilon,
	}
}

// IsExecuted 判断母单是否已在容差内完成。完成是终态。
func (c *Context) IsExecuted() bool {
	return c.remainingAmount < c.epsilon && c.remainingAmount > -c.epsilon
}

// AddExecuted 登记一笔成交：增量更新量加权均价，再扣减剩余量。
func (c *Context) AddExecuted(o *order.Order) {
	executedSoFar := c.totalAmount - c.remainingAmount
	c.avgExecutionPrice = (c.avgExecutionPrice*executedSoFar + o.Price*o.Amount) / (executedSoFar + o.Amount)
	c.remainingAmount -= o.Amount
	c.executed = append(c.executed, o)
}

// CountPlaced 统计仍处于 placed 状态的子单数量。
func (c *Context) CountPlaced() int {
	count := 0
	for _, o := range c.placed {
		if o.State == order.StatePlaced {
			count++
		}
	}
	return count
}

// PlaceOrder 创建并登记一笔新的限价子单。
func (c *Context) PlaceOrder(ts, goodTill int64, price, amount float64, style order.Style) *order.Order {
	o := &order.Order{
		ID:         c.seq.Next(),
		Side:       c.side,
		Amount:     amount,
		Price:      price,
		Style:      style,
		Kind:       order.KindLimit,
		State:      order.StatePlaced,
		PlacedAt:   ts,
		GoodTillAt: goodTill,
	}
	c.placed = append(c.placed, o)
	return o
}

// CancelExpired 撤掉所有已过期的挂单（good-till 严格早于当前时间戳）。
func (c *Context) CancelExpired(ts int64) []*order.Order {
	var cancelled []*order.Order
	for _, o := range c.placed {
		if o.State == order.StatePlaced && o.GoodTillAt < ts {
			cancelOrder(o, ts)
			cancelled = append(cancelled, o)
		}
	}
	return cancelled
}

// CancelAll 撤掉所有仍挂着的子单。
func (c *Context) CancelAll(ts int64) []*order.Order {
	var cancelled []*order.Order
	for _, o := range c.placed {
		if o.State == order.StatePlaced {
			cancelOrder(o, ts)
			cancelled = append(cancelled, o)
		}
	}
	return cancelled
}

func cancelOrder(o *order.Order, ts int64) {
	o.State = order.StateCancelled
	o.CancelledAt = ts
}

// Side 返回母单方向。
func (c *Context) Side() order.Side {
	return c.side
}

// TotalAmount 返回母单总量。
func (c *Context) TotalAmount() float64 {
	return c.totalAmount
}

// RemainingAmount 返回未成交的剩余量。
func (c *Context) RemainingAmount() float64 {
	return c.remainingAmount
}

// AvgExecutionPrice 返回已成交部分的量加权均价。
func (c *Context) AvgExecutionPrice() float64 {
	return c.avgExecutionPrice
}

// BasePrice 返回基准价；布尔值标识是否已确定。
func (c *Context) BasePrice() (float64, bool) {
	return c.basePrice, c.basePriceSet
}

// BasePlan 返回确定基准价时消耗的假想档位。
func (c *Context) BasePlan() []book.Level {
	return book.CloneLevels(c.basePlan)
}

// PlacedOrders 返回全部子单（含终态），按挂单顺序排列。
func (c *Context) PlacedOrders() []*order.Order {
	return append([]*order.Order(nil), c.placed...)
}

// ExecutedOrders 返回全部成交子单，按成交顺序排列。
func (c *Context) ExecutedOrders() []*order.Order {
	return append([]*order.Order(nil), c.executed...)
}

// OwnLiquidityHistory 返回母单方向所需穿越一侧的流动性历史。
func (c *Context) OwnLiquidityHistory() []float64 {
	return append([]float64(nil), c.ownLiquidity...)
}

// OtherLiquidityHistory 返回对侧流动性历史。
func (c *Context) OtherLiquidityHistory() []float64 {
	return append([]float64(nil), c.otherLiquidity...)
}
