package domain

import (
	"encoding/json"
	"time"
)

// 技能等级（有序：beginner < intermediate < advanced < expert）
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
	SkillExpert       = "expert"
)

// skillRank 技能等级排序值（用于比较，不落库）
var skillRank = map[string]int{
	SkillBeginner:     1,
	SkillIntermediate: 2,
	SkillAdvanced:     3,
	SkillExpert:       4,
}

// NormalizeSkillLevel 规范化技能等级，未知值回落到 intermediate
func NormalizeSkillLevel(s string) string {
	if _, ok := skillRank[s]; ok {
		return s
	}
	return SkillIntermediate
}

// SkillLevelAtLeast 判断 a 是否不低于 b
func SkillLevelAtLeast(a, b string) bool {
	return skillRank[NormalizeSkillLevel(a)] >= skillRank[NormalizeSkillLevel(b)]
}

// 工匠状态
const (
	CraftsmanActive   = "active"
	CraftsmanInactive = "inactive"
)

// 信用分初始值（满分制）
const InitialCreditScore = 100

// Craftsman 乡村建设工匠领域模型（对应 craftsmen 表）
// 仅当提交声明"新工匠"时创建，否则按 ID 引用既有记录
type Craftsman struct {
	CraftsmanID string `db:"craftsman_id"` // UUID, PRIMARY KEY

	Name     string `db:"name"`      // VARCHAR(100), NOT NULL
	Phone    string `db:"phone"`     // VARCHAR(20), NOT NULL
	IDNumber string `db:"id_number"` // VARCHAR(18), NOT NULL, UNIQUE

	// 专业工种（JSONB 数组，如 ["砌筑","木工"]）
	Specialties json.RawMessage `db:"specialties"`

	SkillLevel  string `db:"skill_level"`  // VARCHAR(20), NOT NULL, DEFAULT 'intermediate'
	CreditScore int    `db:"credit_score"` // INT, NOT NULL, DEFAULT 100, 0-100

	TeamID     string `db:"team_id"`     // UUID, nullable（施工队引用）
	RegionCode string `db:"region_code"` // VARCHAR(12), NOT NULL
	Status     string `db:"status"`      // VARCHAR(20), NOT NULL, DEFAULT 'active'

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CraftsmanCandidate 新工匠创建输入
type CraftsmanCandidate struct {
	Name        string
	Phone       string
	IDNumber    string
	Specialties []string
	SkillLevel  string
	TeamID      string
}
