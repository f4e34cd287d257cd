package feed

import (
	"context"

	"exec-sim/internal/book"
)

// Provider 按时间非降序提供订单簿快照。第二个返回值为 false 表示流已结束。
type Provider interface {
	Next(ctx context.Context) (book.Snapshot, bool, error)
}
