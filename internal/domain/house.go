package domain

import (
	"strings"
	"time"
)

// 房屋类型
const (
	HouseTypeNewBuild   = "new_build"  // 新建
	HouseTypeRenovation = "renovation" // 改建/翻建
	HouseTypeExpansion  = "expansion"  // 扩建
	HouseTypeRepair     = "repair"     // 修缮
)

// 建设状态
const (
	ConstructionPlanned    = "planned"     // 筹建
	ConstructionInProgress = "in_progress" // 在建
	ConstructionCompleted  = "completed"   // 已完工
	ConstructionSuspended  = "suspended"   // 停工
)

// houseTypeAliases 采集端松散录入 -> 规范枚举
// 未收录的值统一回落到 new_build（录入宽容策略：不因枚举拼写拒绝提交，
// 原始值随 DataEntry 的 raw payload 留档，复核时可纠正）
var houseTypeAliases = map[string]string{
	"new":        HouseTypeNewBuild,
	"new_build":  HouseTypeNewBuild,
	"newbuild":   HouseTypeNewBuild,
	"新建":         HouseTypeNewBuild,
	"renovation": HouseTypeRenovation,
	"rebuild":    HouseTypeRenovation,
	"改建":         HouseTypeRenovation,
	"翻建":         HouseTypeRenovation,
	"expansion":  HouseTypeExpansion,
	"expand":     HouseTypeExpansion,
	"扩建":         HouseTypeExpansion,
	"repair":     HouseTypeRepair,
	"maintain":   HouseTypeRepair,
	"修缮":         HouseTypeRepair,
}

// constructionStatusAliases 采集端松散录入 -> 规范枚举，未收录回落到 planned
var constructionStatusAliases = map[string]string{
	"planned":            ConstructionPlanned,
	"planning":           ConstructionPlanned,
	"筹建":                 ConstructionPlanned,
	"in_progress":        ConstructionInProgress,
	"inprogress":         ConstructionInProgress,
	"under_construction": ConstructionInProgress,
	"building":           ConstructionInProgress,
	"在建":                 ConstructionInProgress,
	"施工中":                ConstructionInProgress,
	"completed":          ConstructionCompleted,
	"complete":           ConstructionCompleted,
	"done":               ConstructionCompleted,
	"已完工":                ConstructionCompleted,
	"竣工":                 ConstructionCompleted,
	"suspended":          ConstructionSuspended,
	"stopped":            ConstructionSuspended,
	"停工":                 ConstructionSuspended,
}

// NormalizeHouseType 规范化房屋类型（全函数：任何输入都有结果）
func NormalizeHouseType(s string) string {
	if v, ok := houseTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v
	}
	return HouseTypeNewBuild
}

// NormalizeConstructionStatus 规范化建设状态（全函数：任何输入都有结果）
func NormalizeConstructionStatus(s string) string {
	if v, ok := constructionStatusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v
	}
	return ConstructionPlanned
}

// House 农房领域模型（对应 houses 表）
// 每次成功提交创建一条；后续状态流转发生在竣工验收等流程中（不在本服务内）
type House struct {
	HouseID string `db:"house_id"` // UUID, PRIMARY KEY

	Address      string  `db:"address"`       // TEXT, NOT NULL（活跃记录内按村唯一，编排层校验）
	Floors       int     `db:"floors"`        // INT, nullable(0)
	Height       float64 `db:"height"`        // NUMERIC, nullable(0)，单位米
	BuildingArea float64 `db:"building_area"` // NUMERIC, nullable(0)，建筑面积平米
	LandArea     float64 `db:"land_area"`     // NUMERIC, nullable(0)，占地面积平米

	HouseType          string `db:"house_type"`          // VARCHAR(20), NOT NULL
	ConstructionStatus string `db:"construction_status"` // VARCHAR(20), NOT NULL

	ApplicantID string `db:"applicant_id"` // UUID, NOT NULL（persons 引用）
	RegionCode  string `db:"region_code"`  // VARCHAR(12), NOT NULL

	Coordinates    string     `db:"coordinates"`     // VARCHAR(50), nullable，"lat,lon"
	CompletionDate *time.Time `db:"completion_date"` // DATE, nullable

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
