package book

// Level 表示盘口单个档位。
type Level struct {
	Price  float64
	Amount float64
}

// Snapshot 为某一时刻的完整订单簿快照，时间戳为微秒。
// Asks 按价格升序、Bids 按价格降序排列，由数据源保证；
// 快照一经产生即视为不可变数据。
type Snapshot struct {
	Timestamp int64
	Asks      []Level
	Bids      []Level
}

// BestAsk 返回最优卖一档。
func (s Snapshot) BestAsk() (Level, bool) {
	if len(s.Asks) == 0 {
		return Level{}, false
	}
	return s.Asks[0], true
}

// BestBid 返回最优买一档。
func (s Snapshot) BestBid() (Level, bool) {
	if len(s.Bids) == 0 {
		return Level{}, false
	}
	return s.Bids[0], true
}

// SideVolume 汇总一侧全部档位的挂单量。
func SideVolume(levels []Level) float64 {
	var volume float64
	for _, lvl := range levels {
		volume += lvl.Amount
	}
	return volume
}

// CloneLevels 复制档位序列，供成交审计留底使用。
func CloneLevels(levels []Level) []Level {
	if len(levels) == 0 {
		return nil
	}
	dst := make([]Level, len(levels))
	copy(dst, levels)
	return dst
}
