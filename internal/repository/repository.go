package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// 通用存储错误
// Postgres 实现把 sql.ErrNoRows / pq 唯一约束冲突翻译成这两个哨兵，
// Service 层只依赖哨兵判断，不感知具体驱动
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("unique constraint violation")
)

// Querier database/sql 的最小查询接口
// *sql.DB 和 *sql.Tx 都满足，Repository 绑定 Querier 后同一套实现
// 既能跑在连接池上，也能跑在编排层开启的事务里
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// IsUniqueViolation 判断是否为 Postgres 唯一约束冲突（SQLSTATE 23505）
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
