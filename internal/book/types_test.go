package book

import "testing"

func TestBestLevels(t *testing.T) {
	snap := Snapshot{
		Asks: []Level{{Price: 101, Amount: 1}, {Price: 102, Amount: 2}},
		Bids: []Level{{Price: 100, Amount: 3}, {Price: 99, Amount: 4}},
	}

	if best, ok := snap.BestAsk(); !ok || best.Price != 101 {
		t.Errorf("unexpected best ask: %+v ok=%v", best, ok)
	}
	if best, ok := snap.BestBid(); !ok || best.Price != 100 {
		t.Errorf("unexpected best bid: %+v ok=%v", best, ok)
	}

	empty := Snapshot{}
	if _, ok := empty.BestAsk(); ok {
		t.Errorf("empty ask side must report no best level")
	}
	if _, ok := empty.BestBid(); ok {
		t.Errorf("empty bid side must report no best level")
	}
}

func TestSideVolume(t *testing.T) {
	levels := []Level{{Price: 101, Amount: 1.5}, {Price: 102, Amount: 2.5}}
	if got := SideVolume(levels); got != 4 {
		t.Errorf("expected total volume 4, got %v", got)
	}
	if got := SideVolume(nil); got != 0 {
		t.Errorf("expected 0 for empty side, got %v", got)
	}
}

func TestCloneLevelsIsIndependent(t *testing.T) {
	src := []Level{{Price: 101, Amount: 1}}
	dst := CloneLevels(src)

	src[0].Amount = 99
	if dst[0].Amount != 1 {
		t.Errorf("clone must not share backing array, got %v", dst[0].Amount)
	}
	if CloneLevels(nil) != nil {
		t.Errorf("expected nil clone for empty input")
	}
}
