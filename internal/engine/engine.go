package engine

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"exec-sim/internal/book"
	"exec-sim/internal/feed"
	"exec-sim/internal/order"
)

// ErrUnsupportedOrderKind 表示撮合阶段遇到了非限价单。
// 这是配置级致命错误：引擎立即停止，绝不退化为限价语义去模拟。
var ErrUnsupportedOrderKind = errors.New("engine: 不支持的订单类型")

// Engine 驱动母单在快照流上的切片执行。严格单线程：
// 趋势与定价状态依赖快照到达顺序，任何并行都会改变语义。
type Engine struct {
	cfg      Config
	provider feed.Provider
	parent   *Context
	observer Observer
	logger   *zap.Logger

	warmupDone bool
	haveFirst  bool
	firstTs    int64
	lastTs     int64
	ticks      int
	done       bool
}

// NewEngine 构建执行引擎。
func NewEngine(cfg Config, provider feed.Provider, observer Observer, logger *zap.Logger) (*Engine, error) {
	if provider == nil {
		return nil, fmt.Errorf("engine: provider 不能为空")
	}
	if cfg.Side != order.SideBuy && cfg.Side != order.SideSell {
		return nil, fmt.Errorf("engine: 无效的母单方向 %q", cfg.Side)
	}
	if cfg.TotalAmount <= 0 {
		return nil, fmt.Errorf("engine: 母单总量必须大于0, got %v", cfg.TotalAmount)
	}
	if observer == nil {
		observer = NopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg = cfg.normalize()

	return &Engine{
		cfg:      cfg,
		provider: provider,
		parent:   NewContext(cfg.Side, cfg.TotalAmount, cfg.CompletionEpsilon),
		observer: observer,
		logger:   logger,
	}, nil
}

// Run 顺序消费快照流，直至母单完成、时间窗结束或数据耗尽。
// 返回母单上下文供上层读取最终状态；即使出错也返回当前上下文。
func (e *Engine) Run(ctx context.Context) (*Context, error) {
	for {
		snap, ok, err := e.provider.Next(ctx)
		if err != nil {
			return e.parent, err
		}
		if !ok {
			break
		}

		done, err := e.Tick(snap)
		if err != nil {
			return e.parent, err
		}
		if done {
			return e.parent, nil
		}
	}

	// 数据耗尽：撤掉仍挂着的订单并定格母单状态。
	if !e.done {
		e.cancelAll(e.lastTs)
		e.done = true
		e.observer.ParentUpdated(e.Summary())
		e.logger.Info("快照流已耗尽",
			zap.Float64("remaining_amount", e.parent.RemainingAmount()),
			zap.Int("ticks", e.ticks),
		)
	}
	return e.parent, nil
}

// Tick 处理单条快照，返回是否已终止。终止后的调用一律空转。
func (e *Engine) Tick(snap book.Snapshot) (bool, error) {
	if e.done {
		return true, nil
	}

	ts := snap.Timestamp
	if e.cfg.StartTimestamp > 0 && ts < e.cfg.StartTimestamp {
		return false, nil
	}
	e.lastTs = ts

	if !e.warmupDone {
		e.warmupTick(snap)
		return false, nil
	}

	// 过期撤单先于撮合：订单绝不能在超过 good-till 的快照上成交。
	for _, cancelled := range e.parent.CancelExpired(ts) {
		e.logger.Info("子单过期撤销",
			zap.Int64("order_id", cancelled.ID),
			zap.Int64("timestamp", ts),
			zap.Float64("active_sec", float64(cancelled.ActiveMicros(ts))/1e6),
		)
		e.observer.OrderCancelled(*cancelled, ts)
	}

	if err := e.matchPlaced(snap); err != nil {
		return false, err
	}

	if e.parent.IsExecuted() {
		e.cancelAll(ts)
		e.done = true
		e.observer.ParentUpdated(e.Summary())
		e.logger.Info("母单已全部成交",
			zap.Int("ticks", e.ticks+1),
			zap.Float64("avg_execution_price", e.parent.AvgExecutionPrice()),
		)
		return true, nil
	}

	if e.cfg.EndTimestamp > 0 && e.cfg.EndTimestamp < ts {
		e.cancelAll(ts)
		e.done = true
		e.observer.ParentUpdated(e.Summary())
		e.logger.Info("到达结束时间",
			zap.Int64("end_timestamp", e.cfg.EndTimestamp),
			zap.Int64("timestamp", ts),
			zap.Float64("remaining_amount", e.parent.RemainingAmount()),
		)
		return true, nil
	}

	if e.parent.CountPlaced() == 0 {
		e.placeNext(snap)
	}

	e.ticks++
	return false, nil
}

// Summary 返回母单当前状态切面。
func (e *Engine) Summary() ParentSnapshot {
	basePrice, baseSet := e.parent.BasePrice()

	cancelled := 0
	for _, o := range e.parent.PlacedOrders() {
		if o.State == order.StateCancelled {
			cancelled++
		}
	}

	return ParentSnapshot{
		Side:              e.parent.Side(),
		TotalAmount:       e.parent.TotalAmount(),
		RemainingAmount:   e.parent.RemainingAmount(),
		AvgExecutionPrice: e.parent.AvgExecutionPrice(),
		BasePrice:         basePrice,
		BasePriceSet:      baseSet,
		PlacedCount:       len(e.parent.PlacedOrders()),
		ExecutedCount:     len(e.parent.ExecutedOrders()),
		CancelledCount:    cancelled,
		Ticks:             e.ticks,
		Completed:         e.done && e.parent.IsExecuted(),
		Timestamp:         e.lastTs,
	}
}

// warmupTick 在暖机窗口内只积累趋势观测；窗口结束的那条快照
// 用于确定基准价，本身不参与撮合与挂单。
func (e *Engine) warmupTick(snap book.Snapshot) {
	ts := snap.Timestamp
	if !e.haveFirst {
		e.firstTs = ts
		if e.cfg.StartTimestamp > 0 {
			e.firstTs = e.cfg.StartTimestamp
		}
		e.haveFirst = true
	}

	e.parent.UpdateTrend(snap)

	if ts > e.firstTs+e.cfg.Warmup.Microseconds() {
		e.parent.SetBasePrice(snap)
		e.warmupDone = true

		basePrice, _ := e.parent.BasePrice()
		e.logger.Info("基准价已确定",
			zap.Float64("base_price", basePrice),
			zap.Int("plan_levels", len(e.parent.BasePlan())),
		)
		e.observer.ParentUpdated(e.Summary())
	}
}

// matchPlaced 尝试撮合当前挂单。买单在限价严格高于买一价时全额成交，
// 卖单在限价严格低于卖一价时全额成交；不支持部分成交。
func (e *Engine) matchPlaced(snap book.Snapshot) error {
	for _, o := range e.parent.PlacedOrders() {
		if o.Kind != order.KindLimit {
			return fmt.Errorf("%w: %s", ErrUnsupportedOrderKind, o.Kind)
		}
		if o.State != order.StatePlaced {
			continue
		}
		if !crosses(o, snap) {
			continue
		}

		o.State = order.StateExecuted
		o.ExecutedAt = snap.Timestamp
		o.ExecutionAsks = book.CloneLevels(snap.Asks)
		o.ExecutionBids = book.CloneLevels(snap.Bids)
		e.parent.AddExecuted(o)

		e.logger.Info("子单成交",
			zap.Int64("order_id", o.ID),
			zap.String("side", string(o.Side)),
			zap.Float64("price", o.Price),
			zap.Float64("amount", o.Amount),
			zap.Float64("remaining_amount", e.parent.RemainingAmount()),
		)
		e.observer.OrderExecuted(*o, snap)
		e.observer.ParentUpdated(e.Summary())
	}
	return nil
}

// cancelAll 撤掉全部挂单并通知观察者。
func (e *Engine) cancelAll(ts int64) {
	for _, cancelled := range e.parent.CancelAll(ts) {
		e.logger.Info("强制撤销子单",
			zap.Int64("order_id", cancelled.ID),
			zap.Int64("timestamp", ts),
			zap.Float64("active_sec", float64(cancelled.ActiveMicros(ts))/1e6),
		)
		e.observer.OrderCancelled(*cancelled, ts)
	}
}

// crosses 判断挂单是否与当前盘口相交。对手侧为空时无法成交。
func crosses(o *order.Order, snap book.Snapshot) bool {
	if o.Side == order.SideBuy {
		best, ok := snap.BestBid()
		return ok && o.Price > best.Price
	}
	best, ok := snap.BestAsk()
	return ok && o.Price < best.Price
}

// placeNext 评估并挂出新的子单。趋势历史只在这里（和暖机阶段）被追加，
// 因此子单在场期间趋势观测存在间隔，这是有意保留的节奏。
func (e *Engine) placeNext(snap book.Snapshot) {
	bestAsk, askOk := snap.BestAsk()
	bestBid, bidOk := snap.BestBid()
	if !askOk || !bidOk {
		e.logger.Warn("盘口单边为空，跳过本次挂单", zap.Int64("timestamp", snap.Timestamp))
		return
	}

	crossBest := bestAsk
	if e.parent.Side() == order.SideSell {
		crossBest = bestBid
	}
	basePrice, _ := e.parent.BasePrice()
	multiplier := amountTrendMultiplier(crossBest.Price, basePrice, e.parent.Side(), e.cfg.TrendMultiplier)

	favorable := e.parent.UpdateTrend(snap)

	ref := bestAsk
	if (favorable && e.parent.Side() == order.SideBuy) || (!favorable && e.parent.Side() == order.SideSell) {
		ref = bestBid
	}

	price := ref.Price
	amount := math.Min(e.parent.RemainingAmount(), ref.Amount*multiplier*e.cfg.PartOfLevel)

	style := order.StyleAggressive
	lifetime := e.cfg.AggressiveLifetime
	if favorable {
		style = order.StylePassive
		lifetime = e.cfg.PassiveLifetime
	}

	ts := snap.Timestamp
	o := e.parent.PlaceOrder(ts, ts+lifetime.Microseconds(), price, amount, style)

	e.logger.Info("挂出子单",
		zap.Int64("order_id", o.ID),
		zap.String("side", string(o.Side)),
		zap.String("style", string(o.Style)),
		zap.Float64("price", o.Price),
		zap.Float64("amount", o.Amount),
		zap.Int64("good_till", o.GoodTillAt),
	)
	e.observer.OrderPlaced(*o)
}
