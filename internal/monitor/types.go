package monitor

import (
	"time"

	"exec-sim/internal/book"
	"exec-sim/internal/engine"
	"exec-sim/internal/indicator"
	"exec-sim/internal/order"
)

// EventType 表示监控事件类型。
type EventType string

const (
	EventOrderPlaced    EventType = "order_placed"
	EventOrderExecuted  EventType = "order_executed"
	EventOrderCancelled EventType = "order_cancelled"
	EventParentSnapshot EventType = "parent_snapshot"
	EventRunSummary     EventType = "run_summary"
	EventError          EventType = "error"
)

// Event 封装通用监控事件。
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LevelPayload 为盘口档位的落盘形式。
type LevelPayload struct {
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
}

// OrderPayload 记录子单一次状态迁移后的完整视图。
type OrderPayload struct {
	ID            int64          `json:"id"`
	Side          string         `json:"side"`
	Amount        float64        `json:"amount"`
	Price         float64        `json:"price"`
	Style         string         `json:"style"`
	Kind          string         `json:"kind"`
	State         string         `json:"state"`
	PlacedAt      int64          `json:"placed_at"`
	GoodTillAt    int64          `json:"good_till_at"`
	ExecutedAt    int64          `json:"executed_at,omitempty"`
	CancelledAt   int64          `json:"cancelled_at,omitempty"`
	ActiveMicros  int64          `json:"active_micros,omitempty"`
	ExecutionAsks []LevelPayload `json:"execution_asks,omitempty"`
	ExecutionBids []LevelPayload `json:"execution_bids,omitempty"`
}

// ParentPayload 记录母单状态切面。
type ParentPayload struct {
	Side              string  `json:"side"`
	TotalAmount       float64 `json:"total_amount"`
	RemainingAmount   float64 `json:"remaining_amount"`
	AvgExecutionPrice float64 `json:"avg_execution_price"`
	BasePrice         float64 `json:"base_price"`
	BasePriceSet      bool    `json:"base_price_set"`
	PlacedCount       int     `json:"placed_count"`
	ExecutedCount     int     `json:"executed_count"`
	CancelledCount    int     `json:"cancelled_count"`
	Ticks             int     `json:"ticks"`
	Completed         bool    `json:"completed"`
	Timestamp         int64   `json:"timestamp"`
}

// RunSummaryPayload 为一次完整运行的收尾报告。
type RunSummaryPayload struct {
	Parent    ParentPayload              `json:"parent"`
	Liquidity indicator.LiquiditySummary `json:"liquidity"`
}

// ErrorPayload 记录异常。
type ErrorPayload struct {
	Message string                 `json:"message"`
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func orderPayload(o order.Order) OrderPayload {
	p := OrderPayload{
		ID:          o.ID,
		Side:        string(o.Side),
		Amount:      o.Amount,
		Price:       o.Price,
		Style:       string(o.Style),
		Kind:        string(o.Kind),
		State:       string(o.State),
		PlacedAt:    o.PlacedAt,
		GoodTillAt:  o.GoodTillAt,
		ExecutedAt:  o.ExecutedAt,
		CancelledAt: o.CancelledAt,
	}
	p.ExecutionAsks = levelPayloads(o.ExecutionAsks)
	p.ExecutionBids = levelPayloads(o.ExecutionBids)
	return p
}

func levelPayloads(levels []book.Level) []LevelPayload {
	if len(levels) == 0 {
		return nil
	}
	out := make([]LevelPayload, len(levels))
	for i, lvl := range levels {
		out[i] = LevelPayload{Price: lvl.Price, Amount: lvl.Amount}
	}
	return out
}

func parentPayload(p engine.ParentSnapshot) ParentPayload {
	return ParentPayload{
		Side:              string(p.Side),
		TotalAmount:       p.TotalAmount,
		RemainingAmount:   p.RemainingAmount,
		AvgExecutionPrice: p.AvgExecutionPrice,
		BasePrice:         p.BasePrice,
		BasePriceSet:      p.BasePriceSet,
		PlacedCount:       p.PlacedCount,
		ExecutedCount:     p.ExecutedCount,
		CancelledCount:    p.CancelledCount,
		Ticks:             p.Ticks,
		Completed:         p.Completed,
		Timestamp:         p.Timestamp,
	}
}
