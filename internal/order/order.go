package order

import (
	"fmt"
	"strings"

	"exec-sim/internal/book"
)

// Side 表示订单方向。
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ParseSide 解析配置中的方向字符串。
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return SideBuy, nil
	case "sell":
		return SideSell, nil
	default:
		return "", fmt.Errorf("order: 无法识别的方向 %q", s)
	}
}

// Opposite 返回对手方向。
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Style 表示子单挂单风格：passive 在有利价位静候，aggressive 立即穿越盘口。
type Style string

const (
	StylePassive    Style = "passive"
	StyleAggressive Style = "aggressive"
)

// Kind 表示订单类型。目前仅支持限价单，market 仅作为显式拒绝的占位。
type Kind string

const (
	KindLimit  Kind = "limit"
	KindMarket Kind = "market"
)

// State 表示子单生命周期状态，迁移单向且终态不可逆。
type State string

const (
	StatePlaced    State = "placed"
	StateExecuted  State = "executed"
	StateCancelled State = "cancelled"
)

// Order 为一笔子单。ExecutedAt / CancelledAt 在离开 placed 状态时二者只会设置其一。
// ExecutionAsks / ExecutionBids 留存成交瞬间的盘口，用于事后审计。
type Order struct {
	ID     int64
	Side   Side
	Amount float64
	Price  float64
	Style  Style
	Kind   Kind
	State  State

	PlacedAt    int64
	GoodTillAt  int64
	ExecutedAt  int64
	CancelledAt int64

	ExecutionAsks []book.Level
	ExecutionBids []book.Level
}

// ActiveMicros 返回订单从挂出到给定时间戳的存活时长（微秒）。
func (o *Order) ActiveMicros(ts int64) int64 {
	return ts - o.PlacedAt
}

// Sequence 在单次运行内生成单调递增的订单ID，避免进程级全局计数器。
type Sequence struct {
	next int64
}

// Next 返回下一个ID。
func (s *Sequence) Next() int64 {
	id := s.next
	s.next++
	return id
}
