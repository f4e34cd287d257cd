package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"exec-sim/internal/config"
	"exec-sim/internal/engine"
	"exec-sim/internal/feed"
	"exec-sim/internal/indicator"
	"exec-sim/internal/monitor"
	"exec-sim/internal/order"
	"exec-sim/internal/store"
)

// App 聚合核心依赖并驱动一次完整的母单执行模拟。
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// New 创建 App 实例。
func New(cfg *config.Config, logger *zap.Logger, store *store.Store) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
}

// Run 构建快照源与引擎，跑完整个模拟并输出收尾报告。
// 监控接口与模拟并行运行，模拟结束后随之关闭。
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("执行模拟器已初始化",
		zap.String("environment", a.cfg.App.Environment),
		zap.String("side", a.cfg.Order.Side),
		zap.Float64("total_amount", a.cfg.Order.TotalAmount),
		zap.String("feed", a.cfg.Feed.Path),
	)

	side, err := order.ParseSide(a.cfg.Order.Side)
	if err != nil {
		return err
	}

	provider, err := feed.NewCSVProvider(a.cfg.Feed.Path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := provider.Close(); closeErr != nil {
			a.logger.Warn("关闭深度文件失败", zap.Error(closeErr))
		}
	}()

	monitorSvc, err := monitor.NewService(a.store, a.logger)
	if err != nil {
		return fmt.Errorf("初始化监控服务失败: %w", err)
	}

	eng, err := engine.NewEngine(engine.Config{
		Side:               side,
		TotalAmount:        a.cfg.Order.TotalAmount,
		StartTimestamp:     a.cfg.Order.StartTimestamp,
		EndTimestamp:       a.cfg.Order.EndTimestamp,
		Warmup:             a.cfg.Engine.Warmup,
		PassiveLifetime:    a.cfg.Engine.PassiveLifetime,
		AggressiveLifetime: a.cfg.Engine.AggressiveLifetime,
		PartOfLevel:        a.cfg.Engine.PartOfLevel,
		TrendMultiplier:    a.cfg.Engine.TrendMultiplier,
		CompletionEpsilon:  a.cfg.Engine.CompletionEpsilon,
	}, provider, monitorSvc, a.logger)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(runCtx)

	if a.cfg.Monitor.Enabled {
		group.Go(func() error {
			return runMonitorServer(groupCtx, monitorSvc, a.cfg.Monitor.Port, a.logger)
		})
	}

	group.Go(func() error {
		defer cancel()

		parent, runErr := eng.Run(groupCtx)
		if runErr != nil {
			if errors.Is(runErr, context.Canceled) {
				a.logger.Info("模拟被中断")
				return nil
			}
			monitorSvc.RecordError(context.Background(), "模拟运行失败", runErr, nil)
			return runErr
		}

		a.finish(eng, parent, monitorSvc)
		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// finish 汇总并记录收尾报告。
func (a *App) finish(eng *engine.Engine, parent *engine.Context, monitorSvc *monitor.Service) {
	summary := eng.Summary()
	liquidity := indicator.Summarize(parent.OwnLiquidityHistory(), parent.OtherLiquidityHistory())

	monitorSvc.RecordRunSummary(context.Background(), summary, liquidity)

	basePrice, _ := parent.BasePrice()
	a.logger.Info("模拟结束",
		zap.String("side", string(parent.Side())),
		zap.Float64("total_amount", parent.TotalAmount()),
		zap.Float64("remaining_amount", parent.RemainingAmount()),
		zap.Float64("avg_execution_price", parent.AvgExecutionPrice()),
		zap.Float64("base_price", basePrice),
		zap.Int("ticks", summary.Ticks),
		zap.Int("placed", summary.PlacedCount),
		zap.Int("executed", summary.ExecutedCount),
		zap.Int("cancelled", summary.CancelledCount),
		zap.Bool("completed", summary.Completed),
		zap.Float64("liquidity_imbalance", liquidity.Imbalance),
	)
}
