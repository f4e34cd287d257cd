package engine

import (
	"math"
	"testing"

	"exec-sim/internal/order"
)

func TestAddExecutedUpdatesWeightedAverage(t *testing.T) {
	ctx := NewContext(order.SideBuy, 10, 0.001)

	ctx.AddExecuted(&order.Order{Price: 100, Amount: 4})
	if avg := ctx.AvgExecutionPrice(); avg != 100 {
		t.Fatalf("expected avg 100 after first fill, got %v", avg)
	}
	if rem := ctx.RemainingAmount(); rem != 6 {
		t.Fatalf("expected remaining 6, got %v", rem)
	}

	ctx.AddExecuted(&order.Order{Price: 110, Amount: 6})
	expected := (100.0*4 + 110.0*6) / 10.0
	if avg := ctx.AvgExecutionPrice(); math.Abs(avg-expected) > 1e-9 {
		t.Errorf("expected avg %v after second fill, got %v", expected, avg)
	}
	if rem := ctx.RemainingAmount(); rem != 0 {
		t.Errorf("expected remaining 0, got %v", rem)
	}
	if !ctx.IsExecuted() {
		t.Errorf("expected parent to be complete")
	}
}

func TestIsExecutedUsesEpsilon(t *testing.T) {
	ctx := NewContext(order.SideBuy, 1, 0.001)

	ctx.AddExecuted(&order.Order{Price: 100, Amount: 0.9995})
	if !ctx.IsExecuted() {
		t.Errorf("remaining %v within tolerance must count as complete", ctx.RemainingAmount())
	}

	ctx2 := NewContext(order.SideBuy, 1, 0.001)
	ctx2.AddExecuted(&order.Order{Price: 100, Amount: 0.998})
	if ctx2.IsExecuted() {
		t.Errorf("remaining %v outside tolerance must not count as complete", ctx2.RemainingAmount())
	}
}

func TestCancelExpiredIsStrict(t *testing.T) {
	ctx := NewContext(order.SideBuy, 10, 0.001)

	kept := ctx.PlaceOrder(0, 1000, 100, 1, order.StylePassive)
	expired := ctx.PlaceOrder(0, 999, 100, 1, order.StylePassive)

	cancelled := ctx.CancelExpired(1000)
	if len(cancelled) != 1 {
		t.Fatalf("expected exactly one expiry, got %d", len(cancelled))
	}
	if cancelled[0].ID != expired.ID {
		t.Errorf("wrong order expired: %d", cancelled[0].ID)
	}
	if expired.State != order.StateCancelled || expired.CancelledAt != 1000 {
		t.Errorf("expired order not finalised: %+v", expired)
	}
	// good-till 恰好等于当前时间戳的订单仍然有效。
	if kept.State != order.StatePlaced {
		t.Errorf("order with good-till equal to now must stay placed, got %s", kept.State)
	}
}

func TestCancelAllAndCountPlaced(t *testing.T) {
	ctx := NewContext(order.SideSell, 10, 0.001)

	a := ctx.PlaceOrder(0, 1000, 100, 1, order.StyleAggressive)
	b := ctx.PlaceOrder(1, 2000, 101, 1, order.StylePassive)
	if got := ctx.CountPlaced(); got != 2 {
		t.Fatalf("expected 2 active orders, got %d", got)
	}

	a.State = order.StateExecuted
	cancelled := ctx.CancelAll(500)
	if len(cancelled) != 1 {
		t.Fatalf("expected only the still-placed order cancelled, got %d", len(cancelled))
	}
	if cancelled[0].ID != b.ID {
		t.Errorf("wrong order cancelled: %d", cancelled[0].ID)
	}
	if got := ctx.CountPlaced(); got != 0 {
		t.Errorf("expected no active orders, got %d", got)
	}
}

func TestPlaceOrderAssignsMonotonicIDs(t *testing.T) {
	ctx := NewContext(order.SideBuy, 10, 0.001)

	for i := int64(0); i < 5; i++ {
		o := ctx.PlaceOrder(i, i+100, 100, 1, order.StyleAggressive)
		if o.ID != i {
			t.Fatalf("expected ID %d, got %d", i, o.ID)
		}
		if o.Kind != order.KindLimit {
			t.Fatalf("expected limit kind, got %s", o.Kind)
		}
	}
	if got := len(ctx.PlacedOrders()); got != 5 {
		t.Errorf("expected 5 placed orders, got %d", got)
	}
}
