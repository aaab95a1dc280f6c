package domain

import (
	"time"
)

// 审计结果
const (
	AuditOutcomeSuccess = "success"
	AuditOutcomeFailure = "failure"
)

// AuditRecord 一次提交尝试的审计事件
// 每次提交（成功或失败）恰好产生一条，事务外尽力而为地发布
type AuditRecord struct {
	Action      string    `json:"action"` // 如 "field_data.submit"
	VillageCode string    `json:"village_code"`
	UserID      string    `json:"user_id"`
	Outcome     string    `json:"outcome"`              // success/failure
	ErrorCode   string    `json:"error_code,omitempty"` // 失败时的错误分类码
	EntryID     string    `json:"entry_id,omitempty"`
	HouseID     string    `json:"house_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
