package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Config 聚合了模拟器运行所需的全部配置项。
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Order    OrderConfig    `mapstructure:"order"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
}

// AppConfig 控制应用级参数。
type AppConfig struct {
	Environment string `mapstructure:"environment"`
}

// OrderConfig 描述待执行的母单。时间戳为快照时钟（微秒），0 表示不设置。
type OrderConfig struct {
	Side           string  `mapstructure:"side"`
	TotalAmount    float64 `mapstructure:"total_amount"`
	StartTimestamp int64   `mapstructure:"start_timestamp"`
	EndTimestamp   int64   `mapstructure:"end_timestamp"`
}

// EngineConfig 控制执行引擎行为。
type EngineConfig struct {
	Warmup             time.Duration `mapstructure:"warmup"`
	PassiveLifetime    time.Duration `mapstructure:"passive_lifetime"`
	AggressiveLifetime time.Duration `mapstructure:"aggressive_lifetime"`
	PartOfLevel        float64       `mapstructure:"part_of_level"`
	TrendMultiplier    float64       `mapstructure:"trend_multiplier"`
	CompletionEpsilon  float64       `mapstructure:"completion_epsilon"`
}

// FeedConfig 描述历史深度数据来源。
type FeedConfig struct {
	Path string `mapstructure:"path"`
}

// DatabaseConfig 管理数据库连接。
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	InMemory        bool          `mapstructure:"in_memory"`
}

// LoggingConfig 控制日志输出。
type LoggingConfig struct {
	Level            string   `mapstructure:"level"`
	Encoding         string   `mapstructure:"encoding"`
	Development      bool     `mapstructure:"development"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// MonitorConfig 控制事件查询接口。
type MonitorConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Validate 对配置进行基本校验。
func (c *Config) Validate() error {
	var err error

	if c.App.Environment == "" {
		err = multierr.Append(err, errors.New("app.environment 不能为空"))
	}
	if c.Order.Side != "buy" && c.Order.Side != "sell" {
		err = multierr.Append(err, errors.New("order.side 必须为 buy 或 sell"))
	}
	if c.Order.TotalAmount <= 0 {
		err = multierr.Append(err, errors.New("order.total_amount 必须大于0"))
	}
	if c.Order.StartTimestamp < 0 || c.Order.EndTimestamp < 0 {
		err = multierr.Append(err, errors.New("order 时间戳不能为负"))
	}
	if c.Order.StartTimestamp > 0 && c.Order.EndTimestamp > 0 && c.Order.EndTimestamp <= c.Order.StartTimestamp {
		err = multierr.Append(err, errors.New("order.end_timestamp 必须晚于 start_timestamp"))
	}
	if c.Engine.Warmup <= 0 {
		err = multierr.Append(err, errors.New("engine.warmup 必须大于0"))
	}
	if c.Engine.PassiveLifetime <= 0 || c.Engine.AggressiveLifetime <= 0 {
		err = multierr.Append(err, errors.New("engine 子单存活时长必须大于0"))
	}
	if c.Engine.PartOfLevel <= 0 || c.Engine.PartOfLevel > 1 {
		err = multierr.Append(err, errors.New("engine.part_of_level 必须位于(0,1]"))
	}
	if c.Engine.TrendMultiplier < 1 {
		err = multierr.Append(err, errors.New("engine.trend_multiplier 不能小于1"))
	}
	if c.Engine.CompletionEpsilon <= 0 {
		err = multierr.Append(err, errors.New("engine.completion_epsilon 必须大于0"))
	}
	if c.Feed.Path == "" {
		err = multierr.Append(err, errors.New("feed.path 不能为空"))
	}
	if c.Database.Path == "" && !c.Database.InMemory {
		err = multierr.Append(err, errors.New("database.path 不能为空"))
	}
	if c.Database.MaxOpenConns <= 0 {
		err = multierr.Append(err, errors.New("database.max_open_conns 必须大于0"))
	}
	if c.Database.MaxIdleConns < 0 {
		err = multierr.Append(err, errors.New("database.max_idle_conns 不能为负"))
	}
	if c.Database.ConnMaxLifetime < 0 {
		err = multierr.Append(err, errors.New("database.conn_max_lifetime 不能为负"))
	}
	if c.Logging.Level == "" {
		err = multierr.Append(err, errors.New("logging.level 不能为空"))
	}
	if c.Logging.Encoding == "" {
		err = multierr.Append(err, errors.New("logging.encoding 不能为空"))
	}
	if len(c.Logging.OutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.output_paths 至少包含一个输出目标"))
	}
	if len(c.Logging.ErrorOutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.error_output_paths 至少包含一个输出目标"))
	}
	if c.Monitor.Enabled && (c.Monitor.Port <= 0 || c.Monitor.Port > 65535) {
		err = multierr.Append(err, errors.New("monitor.port 必须位于(0,65535]"))
	}

	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	return nil
}
