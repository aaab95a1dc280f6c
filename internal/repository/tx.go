package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Tx 一次事务内可用的写路径Repository集合
// 编排层持有事务生命周期（begin/commit/rollback），
// 各写操作通过这里拿到绑定在同一事务上的Repository
type Tx struct {
	Persons   PersonsRepository
	Craftsmen CraftsmenRepository
	Houses    HousesRepository
	Entries   EntriesRepository
	Drafts    DraftsRepository
}

// TxManager 事务管理接口
// fn 返回 error 时整个事务回滚，任何一步失败都不会留下部分记录
type TxManager interface {
	RunInTx(ctx context.Context, fn func(tx *Tx) error) error
}

// PostgresTxManager 基于 *sql.DB 的事务管理
type PostgresTxManager struct {
	db *sql.DB
}

func NewPostgresTxManager(db *sql.DB) *PostgresTxManager {
	return &PostgresTxManager{db: db}
}

var _ TxManager = (*PostgresTxManager)(nil)

func (m *PostgresTxManager) RunInTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	bundle := &Tx{
		Persons:   NewPostgresPersonsRepo(sqlTx),
		Craftsmen: NewPostgresCraftsmenRepo(sqlTx),
		Houses:    NewPostgresHousesRepo(sqlTx),
		Entries:   NewPostgresEntriesRepo(sqlTx),
		Drafts:    NewPostgresDraftsRepo(sqlTx),
	}

	if err := fn(bundle); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
