package domain

import (
	"strings"
	"time"
)

// SubmissionForm 村级采集表单的类型化视图
// 原始 payload 另行以 json.RawMessage 原样留档（DataEntry.RawPayload）；
// 本结构只承载实体构建与规则校验所需的字段，全部松散可缺失
type SubmissionForm struct {
	// 基础信息（basic 模板，始终适用）
	Address          string `json:"address"`
	ApplicantName    string `json:"applicantName"`
	Phone            string `json:"phone,omitempty"`
	IDNumber         string `json:"idNumber,omitempty"`
	ApplicantAddress string `json:"applicantAddress,omitempty"`

	// 房屋信息
	Floors             int     `json:"floors,omitempty"`
	Height             float64 `json:"height,omitempty"`
	Area               float64 `json:"area,omitempty"`     // 建筑面积
	LandArea           float64 `json:"landArea,omitempty"` // 占地面积
	HouseType          string  `json:"houseType,omitempty"`
	ConstructionStatus string  `json:"constructionStatus,omitempty"`
	BuildingTime       string  `json:"buildingTime,omitempty"`   // 建造时间（松散日期串）
	CompletionTime     string  `json:"completionTime,omitempty"` // 竣工时间（松散日期串）
	Coordinates        string  `json:"coordinates,omitempty"`    // "lat,lon"
	Remarks            string  `json:"remarks,omitempty"`

	// 建设进度（construction 模板）
	CurrentPhase           string   `json:"currentPhase,omitempty"`
	ConstructionMethod     string   `json:"constructionMethod,omitempty"`
	StartDate              string   `json:"startDate,omitempty"`
	ExpectedCompletionDate string   `json:"expectedCompletionDate,omitempty"`
	ProgressDescription    string   `json:"progressDescription,omitempty"`
	ConstructionPhotos     []string `json:"constructionPhotos,omitempty"`

	// 工匠信息（craftsman 模板）
	IsNewCraftsman    bool     `json:"isNewCraftsman,omitempty"`
	CraftsmanID       string   `json:"craftsmanId,omitempty"`
	CraftsmanName     string   `json:"craftsmanName,omitempty"`
	CraftsmanPhone    string   `json:"craftsmanPhone,omitempty"`
	CraftsmanIDNumber string   `json:"craftsmanIdNumber,omitempty"`
	Specialties       []string `json:"specialties,omitempty"`
	SkillLevel        string   `json:"skillLevel,omitempty"`
	TeamID            string   `json:"teamId,omitempty"`
	WorkDescription   string   `json:"workDescription,omitempty"`
}

// dateLayouts 采集端常见的日期写法
var dateLayouts = []string{"2006-01-02", "2006/01/02", "2006-1-2", "2006.01.02"}

// ParseFormDate 解析采集表单中的松散日期串；空串或无法解析返回 nil
func ParseFormDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
