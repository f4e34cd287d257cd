package monitor

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"exec-sim/internal/book"
	"exec-sim/internal/engine"
	"exec-sim/internal/indicator"
	"exec-sim/internal/order"
	"exec-sim/internal/store"
)

// Service 负责持久化执行过程中的监控事件，并实现 engine.Observer。
// 引擎回调是同步的，这里的写入失败只记日志、不反向中断模拟。
type Service struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ engine.Observer = (*Service)(nil)

// NewService 初始化监控服务，创建所需表结构。
func NewService(store *store.Store, logger *zap.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("monitor: store 不能为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		db:     store.DB(),
		logger: logger,
	}

	if err := s.initSchema(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Service) initSchema() error {
	stmt := `
CREATE TABLE IF NOT EXISTS execution_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_execution_events_type ON execution_events(event_type);
`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("monitor: 初始化表失败: %w", err)
	}
	return nil
}

// Record 写入单个事件。
func (s *Service) Record(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("monitor: 序列化事件失败: %w", err)
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO execution_events (event_type, payload, created_at) VALUES (?, ?, ?)`,
		string(event.Type), string(payload), event.Timestamp.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("monitor: 写入事件失败: %w", err)
	}

	return nil
}

// OrderPlaced 实现 engine.Observer。
func (s *Service) OrderPlaced(o order.Order) {
	s.record(EventOrderPlaced, orderPayload(o))
}

// OrderExecuted 实现 engine.Observer。成交审计盘口随订单一并落盘。
func (s *Service) OrderExecuted(o order.Order, _ book.Snapshot) {
	s.record(EventOrderExecuted, orderPayload(o))
}

// OrderCancelled 实现 engine.Observer。
func (s *Service) OrderCancelled(o order.Order, ts int64) {
	payload := orderPayload(o)
	payload.ActiveMicros = o.ActiveMicros(ts)
	s.record(EventOrderCancelled, payload)
}

// ParentUpdated 实现 engine.Observer。
func (s *Service) ParentUpdated(p engine.ParentSnapshot) {
	s.record(EventParentSnapshot, parentPayload(p))
}

// RecordRunSummary 记录一次完整运行的收尾报告。
func (s *Service) RecordRunSummary(ctx context.Context, parent engine.ParentSnapshot, liquidity indicator.LiquiditySummary) {
	if err := s.Record(ctx, Event{
		Type:      EventRunSummary,
		Timestamp: time.Now().UTC(),
		Payload:   RunSummaryPayload{Parent: parentPayload(parent), Liquidity: liquidity},
	}); err != nil {
		s.logger.Warn("记录运行报告失败", zap.Error(err))
	}
}

// RecordError 记录异常。
func (s *Service) RecordError(ctx context.Context, msg string, err error, ctxMap map[string]interface{}) {
	payload := ErrorPayload{
		Message: msg,
		Error:   err.Error(),
		Context: ctxMap,
	}
	if recErr := s.Record(ctx, Event{
		Type:      EventError,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}); recErr != nil {
		s.logger.Warn("记录异常事件失败", zap.Error(recErr))
	}
}

func (s *Service) record(eventType EventType, payload interface{}) {
	if err := s.Record(context.Background(), Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}); err != nil {
		s.logger.Warn("记录监控事件失败", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

// ListEvents 按类型检索最近事件。
func (s *Service) ListEvents(ctx context.Context, eventType EventType, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT event_type, payload, created_at FROM execution_events`
	args := make([]interface{}, 0, 2)
	if eventType != "" {
		query += ` WHERE event_type = ?`
		args = append(args, string(eventType))
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("monitor: 查询事件失败: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0, limit)
	for rows.Next() {
		var (
			typ     string
			payload string
			created string
		)
		if scanErr := rows.Scan(&typ, &payload, &created); scanErr != nil {
			return nil, fmt.Errorf("monitor: 解析事件失败: %w", scanErr)
		}

		ts, parseErr := time.Parse(time.RFC3339, created)
		if parseErr != nil {
			ts = time.Now().UTC()
		}

		events = append(events, Event{
			Type:      EventType(typ),
			Timestamp: ts,
			Payload:   json.RawMessage(payload),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("monitor: 读取事件失败: %w", err)
	}

	return events, nil
}
