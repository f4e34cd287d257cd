package feed

import (
	"context"

	"exec-sim/internal/book"
)

// SliceProvider 以固定序列提供快照，主要用于测试与重放。
type SliceProvider struct {
	snapshots []book.Snapshot
	index     int
}

func NewSliceProvider(snaps []book.Snapshot) *SliceProvider {
	return &SliceProvider{snapshots: snaps}
}

func (p *SliceProvider) Next(ctx context.Context) (book.Snapshot, bool, error) {
	if p.index >= len(p.snapshots) {
		return book.Snapshot{}, false, nil
	}
	snap := p.snapshots[p.index]
	p.index++
	return snap, true, nil
}
