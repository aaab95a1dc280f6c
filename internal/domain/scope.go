package domain

import (
	"strings"
)

// 角色层级（网关签发，按行政层级从高到低）
const (
	TierSystemAdmin   = "system_admin"   // 平台运维
	TierCityAdmin     = "city_admin"     // 市级管理员
	TierDistrictAdmin = "district_admin" // 区县管理员
	TierTownAdmin     = "town_admin"     // 乡镇管理员
	TierVillageClerk  = "village_clerk"  // 村级采集员
)

// AuthScope 调用方授权范围（由认证网关注入，本服务不做登录）
type AuthScope struct {
	UserID     string // 调用方用户标识
	Role       string // 角色层级
	RegionCode string // 调用方所属行政区划代码
}

// IsTopTier 市级及以上角色不受区划前缀限制
func (s AuthScope) IsTopTier() bool {
	return s.Role == TierSystemAdmin || s.Role == TierCityAdmin
}

// Covers 判断授权范围是否覆盖目标区划
// 行政区划代码是层级前缀编码：区县代码是其辖下乡镇/村代码的前缀
// （如 "3702" 覆盖 "370212"，不覆盖 "3703"）
func (s AuthScope) Covers(targetRegionCode string) bool {
	if s.IsTopTier() {
		return true
	}
	if s.RegionCode == "" || targetRegionCode == "" {
		return false
	}
	return strings.HasPrefix(targetRegionCode, s.RegionCode)
}
