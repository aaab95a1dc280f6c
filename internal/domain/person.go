package domain

import (
	"time"
)

// 人员角色
const (
	RoleFarmer    = "farmer"    // 农户/申请人
	RoleCraftsman = "craftsman" // 工匠（以人员身份登记时）
)

// Person 人员领域模型（对应 persons 表）
// 申请人（农户）在采集流程中按需懒创建，流程本身从不删除人员记录
type Person struct {
	PersonID string `db:"person_id"` // UUID, PRIMARY KEY

	// 登录账号（自动生成，全局唯一；口令为占位值，由账号体系另行管理）
	Username     string `db:"username"`      // VARCHAR(100), NOT NULL, UNIQUE
	PasswordHash string `db:"password_hash"` // TEXT, NOT NULL（占位）

	// 基本信息
	Name     string `db:"name"`      // VARCHAR(100), NOT NULL
	Phone    string `db:"phone"`     // VARCHAR(20), nullable
	IDNumber string `db:"id_number"` // VARCHAR(18), nullable，存在时全局唯一
	Address  string `db:"address"`   // TEXT, nullable

	// 行政区划
	RegionCode string `db:"region_code"` // VARCHAR(12), NOT NULL

	// 角色标签
	Role string `db:"role"` // VARCHAR(20), NOT NULL (farmer/craftsman)

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PersonCandidate 实体解析的输入（字段都可能缺失，来自村级采集表单）
type PersonCandidate struct {
	Name     string
	Phone    string
	IDNumber string
	Address  string
}
