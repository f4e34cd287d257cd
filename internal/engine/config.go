package engine

import (
	"time"

	"exec-sim/internal/order"
)

// Config 定义一次母单执行的全部参数。时间戳均为快照时钟（微秒）。
type Config struct {
	Side        order.Side
	TotalAmount float64

	// StartTimestamp 之前的快照被跳过；0 表示从首个快照开始。
	StartTimestamp int64
	// EndTimestamp 之后停止执行并撤掉所有挂单；0 表示不限制。
	EndTimestamp int64

	// Warmup 为确定基准价前的观察窗口。
	Warmup time.Duration

	PassiveLifetime    time.Duration
	AggressiveLifetime time.Duration

	// PartOfLevel 为子单最多吃掉所引用档位深度的比例。
	PartOfLevel float64
	// TrendMultiplier 为价格有利漂移时的规模放大系数。
	TrendMultiplier float64
	// CompletionEpsilon 为母单视作完成的剩余量容差。
	CompletionEpsilon float64
}

func (c *Config) normalize() Config {
	cfg := *c
	if cfg.Warmup <= 0 {
		cfg.Warmup = 10 * time.Second
	}
	if cfg.PassiveLifetime <= 0 {
		cfg.PassiveLifetime = 10 * time.Second
	}
	if cfg.AggressiveLifetime <= 0 {
		cfg.AggressiveLifetime = time.Second
	}
	if cfg.PartOfLevel <= 0 {
		cfg.PartOfLevel = 0.01
	}
	if cfg.TrendMultiplier <= 0 {
		cfg.TrendMultiplier = 2
	}
	if cfg.CompletionEpsilon <= 0 {
		cfg.CompletionEpsilon = 0.001
	}
	return cfg
}
