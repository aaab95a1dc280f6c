package domain

import (
	"time"
)

// 数据模板名称（村级采集门户声明的可用模板集合）
const (
	TemplateBasic        = "basic"        // 基础信息（地址/申请人，始终隐含）
	TemplateConstruction = "construction" // 建设进度
	TemplateCraftsman    = "craftsman"    // 工匠信息
)

// VillagePortal 村级采集门户（对应 village_portals 表）
// 采集流程的只读输入：流程不修改门户配置
type VillagePortal struct {
	VillageID string `db:"village_id"` // UUID, PRIMARY KEY

	VillageCode string `db:"village_code"` // VARCHAR(20), NOT NULL, UNIQUE
	VillageName string `db:"village_name"` // VARCHAR(100), NOT NULL
	RegionCode  string `db:"region_code"`  // VARCHAR(12), NOT NULL（所属行政区划）

	Active bool `db:"active"` // BOOLEAN, NOT NULL（采集通道开关）

	// 该村适用的数据模板名称列表（JSONB 数组）
	Templates []string `db:"templates"`

	OwnerRegion string `db:"owner_region"` // VARCHAR(12), NOT NULL（归属管理区划）

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// HasTemplate 判断该村是否启用指定数据模板
func (v *VillagePortal) HasTemplate(name string) bool {
	for _, t := range v.Templates {
		if t == name {
			return true
		}
	}
	return false
}
