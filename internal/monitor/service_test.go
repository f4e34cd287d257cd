package monitor

import (
	"context"
	"encoding/json"
	"testing"

	"exec-sim/internal/book"
	"exec-sim/internal/config"
	"exec-sim/internal/engine"
	"exec-sim/internal/indicator"
	"exec-sim/internal/order"
	"exec-sim/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	// 内存库配合单连接，避免每个连接各自为营。
	st, err := store.NewSQLite(config.DatabaseConfig{
		InMemory:     true,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	svc, err := NewService(st, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func TestServicePersistsObserverEvents(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	placed := order.Order{
		ID:         0,
		Side:       order.SideBuy,
		Amount:     1,
		Price:      101,
		Style:      order.StyleAggressive,
		Kind:       order.KindLimit,
		State:      order.StatePlaced,
		PlacedAt:   1000,
		GoodTillAt: 2000,
	}
	svc.OrderPlaced(placed)

	executed := placed
	executed.State = order.StateExecuted
	executed.ExecutedAt = 1500
	executed.ExecutionAsks = []book.Level{{Price: 101, Amount: 10}}
	executed.ExecutionBids = []book.Level{{Price: 100, Amount: 10}}
	svc.OrderExecuted(executed, book.Snapshot{})

	cancelled := placed
	cancelled.ID = 1
	cancelled.State = order.StateCancelled
	cancelled.CancelledAt = 3000
	svc.OrderCancelled(cancelled, 3000)

	svc.ParentUpdated(engine.ParentSnapshot{
		Side:            order.SideBuy,
		TotalAmount:     1,
		RemainingAmount: 0,
		Completed:       true,
	})

	events, err := svc.ListEvents(ctx, "", 10)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	// 最新事件排在最前。
	if events[0].Type != EventParentSnapshot {
		t.Errorf("expected parent_snapshot first, got %s", events[0].Type)
	}
	if events[3].Type != EventOrderPlaced {
		t.Errorf("expected order_placed last, got %s", events[3].Type)
	}

	filtered, err := svc.ListEvents(ctx, EventOrderExecuted, 10)
	if err != nil {
		t.Fatalf("ListEvents with filter failed: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("expected 1 executed event, got %d", len(filtered))
	}

	raw, ok := filtered[0].Payload.(json.RawMessage)
	if !ok {
		t.Fatalf("expected raw payload, got %T", filtered[0].Payload)
	}
	var payload OrderPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal payload failed: %v", err)
	}
	if payload.State != string(order.StateExecuted) || payload.ExecutedAt != 1500 {
		t.Errorf("unexpected payload: %+v", payload)
	}
	if len(payload.ExecutionAsks) != 1 || payload.ExecutionAsks[0].Price != 101 {
		t.Errorf("execution book missing from payload: %+v", payload)
	}
}

func TestServiceCancellationRecordsActiveDuration(t *testing.T) {
	svc := newTestService(t)

	o := order.Order{
		ID:          2,
		Side:        order.SideSell,
		State:       order.StateCancelled,
		PlacedAt:    1_000_000,
		GoodTillAt:  2_000_000,
		CancelledAt: 2_500_000,
	}
	svc.OrderCancelled(o, 2_500_000)

	events, err := svc.ListEvents(context.Background(), EventOrderCancelled, 1)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	var payload OrderPayload
	if err := json.Unmarshal(events[0].Payload.(json.RawMessage), &payload); err != nil {
		t.Fatalf("unmarshal payload failed: %v", err)
	}
	if payload.ActiveMicros != 1_500_000 {
		t.Errorf("expected active duration 1500000us, got %d", payload.ActiveMicros)
	}
}

func TestServiceRunSummaryAndLimit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.RecordRunSummary(ctx, engine.ParentSnapshot{
		Side:              order.SideBuy,
		TotalAmount:       5,
		RemainingAmount:   0,
		AvgExecutionPrice: 101.5,
		Completed:         true,
	}, indicator.LiquiditySummary{Observations: 3, Imbalance: 1.2})

	for i := 0; i < 5; i++ {
		svc.OrderPlaced(order.Order{ID: int64(i), Side: order.SideBuy, State: order.StatePlaced})
	}

	events, err := svc.ListEvents(ctx, "", 3)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected limit of 3 events, got %d", len(events))
	}

	summaries, err := svc.ListEvents(ctx, EventRunSummary, 10)
	if err != nil {
		t.Fatalf("ListEvents for summaries failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 run summary, got %d", len(summaries))
	}

	var payload RunSummaryPayload
	if err := json.Unmarshal(summaries[0].Payload.(json.RawMessage), &payload); err != nil {
		t.Fatalf("unmarshal summary failed: %v", err)
	}
	if !payload.Parent.Completed || payload.Parent.AvgExecutionPrice != 101.5 {
		t.Errorf("unexpected parent payload: %+v", payload.Parent)
	}
	if payload.Liquidity.Observations != 3 {
		t.Errorf("unexpected liquidity payload: %+v", payload.Liquidity)
	}
}
