package domain

import (
	"time"
)

// 施工项目状态
const (
	ProjectInProgress = "in_progress"
	ProjectCompleted  = "completed"
)

// ConstructionProject 施工项目领域模型（对应 construction_projects 表）
// 关联农房与工匠；仅当提交解析出工匠时创建
type ConstructionProject struct {
	ProjectID string `db:"project_id"` // UUID, PRIMARY KEY

	HouseID     string `db:"house_id"`     // UUID, NOT NULL
	CraftsmanID string `db:"craftsman_id"` // UUID, NOT NULL

	ProjectType string `db:"project_type"` // VARCHAR(20), NOT NULL（沿用房屋类型枚举）
	Description string `db:"description"`  // TEXT, nullable

	StartDate       *time.Time `db:"start_date"`        // DATE, nullable
	ExpectedEndDate *time.Time `db:"expected_end_date"` // DATE, nullable

	Status string `db:"status"` // VARCHAR(20), NOT NULL, DEFAULT 'in_progress'

	CreatedAt time.Time `db:"created_at"`
}

// HousePhoto 房屋照片（对应 house_photos 表）
// 照片本体已上传到文件存储服务，这里只保存 URL 引用
type HousePhoto struct {
	PhotoID string `db:"photo_id"` // UUID, PRIMARY KEY

	HouseID  string `db:"house_id"` // UUID, NOT NULL
	URL      string `db:"url"`      // TEXT, NOT NULL
	Category string `db:"category"` // VARCHAR(30), NOT NULL（如 during_construction）
	Uploader string `db:"uploader"` // VARCHAR(100), NOT NULL（提交人 user_id）

	CreatedAt time.Time `db:"created_at"`
}

// 照片分类
const (
	PhotoDuringConstruction = "during_construction"
)
