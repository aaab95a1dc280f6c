package service

import (
	"context"
	"encoding/json"
	"time"

	"nongfang-data/internal/domain"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AuditSink 审计落点（append-only）
// 每次提交尝试恰好产生一条记录；写入失败只记日志，绝不反噬已算出的提交结果
type AuditSink interface {
	Record(ctx context.Context, rec domain.AuditRecord) error
}

// RedisAuditSink 发布审计事件到 Redis Stream，下游审计服务消费落库
type RedisAuditSink struct {
	client *redis.Client
	stream string
	logger *zap.Logger
}

func NewRedisAuditSink(client *redis.Client, stream string, logger *zap.Logger) *RedisAuditSink {
	return &RedisAuditSink{client: client, stream: stream, logger: logger}
}

var _ AuditSink = (*RedisAuditSink)(nil)

func (s *RedisAuditSink) Record(ctx context.Context, rec domain.AuditRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"action":    rec.Action,
			"outcome":   rec.Outcome,
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Result()
	return err
}

// LogAuditSink 仅写结构化日志的审计落点（DB-less联测与测试用）
type LogAuditSink struct {
	logger *zap.Logger
}

func NewLogAuditSink(logger *zap.Logger) *LogAuditSink {
	return &LogAuditSink{logger: logger}
}

var _ AuditSink = (*LogAuditSink)(nil)

func (s *LogAuditSink) Record(_ context.Context, rec domain.AuditRecord) error {
	s.logger.Info("audit",
		zap.String("action", rec.Action),
		zap.String("village_code", rec.VillageCode),
		zap.String("user_id", rec.UserID),
		zap.String("outcome", rec.Outcome),
		zap.String("error_code", rec.ErrorCode),
		zap.String("entry_id", rec.EntryID),
		zap.String("house_id", rec.HouseID),
	)
	return nil
}
