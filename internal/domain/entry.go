package domain

import (
	"encoding/json"
	"time"
)

// 数据条目状态
const (
	EntrySubmitted = "submitted"
	EntryReviewed  = "reviewed"
)

// DataEntry 采集数据条目（对应 data_entries 表）
// 一次提交的存证记录：原始表单 payload 原样留档，供审计与复核回放
// 创建后不可变，复核状态流转在后续流程中（不在本服务内）
type DataEntry struct {
	EntryID string `db:"entry_id"` // UUID, PRIMARY KEY

	VillageCode string `db:"village_code"` // VARCHAR(20), NOT NULL
	HouseID     string `db:"house_id"`     // UUID, NOT NULL（同事务内创建的 house）
	SubmittedBy string `db:"submitted_by"` // VARCHAR(100), NOT NULL（提交人 user_id）

	// 原始表单 payload（不做任何清洗，原样入库）
	RawPayload json.RawMessage `db:"raw_payload"` // JSONB, NOT NULL

	Status string `db:"status"` // VARCHAR(20), NOT NULL, DEFAULT 'submitted'

	// 复核元数据（复核后填写）
	ReviewedBy string     `db:"reviewed_by"` // VARCHAR(100), nullable
	ReviewedAt *time.Time `db:"reviewed_at"` // TIMESTAMPTZ, nullable
	ReviewNote string     `db:"review_note"` // TEXT, nullable

	CreatedAt time.Time `db:"created_at"`
}

// DraftSubmission 分步提交草稿（对应 draft_submissions 表）
// 以 (village_code, user_id) 唯一键做 upsert，最终提交成功后删除
type DraftSubmission struct {
	DraftID string `db:"draft_id"` // UUID, PRIMARY KEY

	VillageCode string `db:"village_code"` // VARCHAR(20), NOT NULL, UNIQUE(village_code, user_id)
	UserID      string `db:"user_id"`      // VARCHAR(100), NOT NULL

	Step    int             `db:"step"`    // INT, NOT NULL（最后保存到的步骤）
	Payload json.RawMessage `db:"payload"` // JSONB, NOT NULL（部分表单数据）

	UpdatedAt time.Time `db:"updated_at"`
}
