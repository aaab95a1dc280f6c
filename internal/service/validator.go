package service

import (
	"regexp"
	"strings"

	"nongfang-data/internal/domain"
)

// Violation 单条规则违规
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	// 11位手机号（1开头，第二位3-9）
	phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)
	// 18位身份证号：17位数字 + 校验位（数字或X）
	idNumberPattern = regexp.MustCompile(`^\d{17}[\dXx]$`)
)

func hasTemplate(templates []string, name string) bool {
	for _, t := range templates {
		if t == name {
			return true
		}
	}
	return false
}

// ValidateSubmission 跨字段业务规则校验（纯函数，无I/O）
// 规则相互独立求值，收集全部违规项而不是遇错即停；
// 返回非空清单时编排层不得执行任何写入
func ValidateSubmission(form *domain.SubmissionForm, templates []string) []Violation {
	var violations []Violation
	add := func(field, message string) {
		violations = append(violations, Violation{Field: field, Message: message})
	}

	// 地址和申请人姓名始终必填
	if strings.TrimSpace(form.Address) == "" {
		add("address", "address is required")
	}
	if strings.TrimSpace(form.ApplicantName) == "" {
		add("applicantName", "applicant name is required")
	}

	// 手机号/证件号：填了就必须符合规范格式
	if form.Phone != "" && !phonePattern.MatchString(form.Phone) {
		add("phone", "phone must be a valid 11-digit mobile number")
	}
	if form.IDNumber != "" && !idNumberPattern.MatchString(form.IDNumber) {
		add("idNumber", "id number must be 17 digits plus a check digit or X")
	}

	status := domain.NormalizeConstructionStatus(form.ConstructionStatus)

	startDate := domain.ParseFormDate(form.StartDate)
	expectedDate := domain.ParseFormDate(form.ExpectedCompletionDate)
	if form.StartDate != "" && startDate == nil {
		add("startDate", "start date is not a recognizable date")
	}
	if form.ExpectedCompletionDate != "" && expectedDate == nil {
		add("expectedCompletionDate", "expected completion date is not a recognizable date")
	}

	// construction 模板 + 在建状态：开工日期必填
	if hasTemplate(templates, domain.TemplateConstruction) && status == domain.ConstructionInProgress {
		if form.StartDate == "" {
			add("startDate", "start date is required while construction is in progress")
		}
	}

	// 开工和预计竣工都有时，预计竣工不得早于开工
	if startDate != nil && expectedDate != nil && expectedDate.Before(*startDate) {
		add("expectedCompletionDate", "expected completion date must not precede start date")
	}

	// craftsman 模板 + 在建状态：必须给出既有工匠引用或新工匠姓名
	if hasTemplate(templates, domain.TemplateCraftsman) && status == domain.ConstructionInProgress {
		if form.CraftsmanID == "" && strings.TrimSpace(form.CraftsmanName) == "" {
			add("craftsmanId", "an existing craftsman reference or a new craftsman name is required while construction is in progress")
		}
	}

	// 声明新工匠时，姓名、手机号、证件号都必填且符合格式
	if form.IsNewCraftsman {
		if strings.TrimSpace(form.CraftsmanName) == "" {
			add("craftsmanName", "craftsman name is required for a new craftsman")
		}
		if form.CraftsmanPhone == "" {
			add("craftsmanPhone", "craftsman phone is required for a new craftsman")
		} else if !phonePattern.MatchString(form.CraftsmanPhone) {
			add("craftsmanPhone", "craftsman phone must be a valid 11-digit mobile number")
		}
		if form.CraftsmanIDNumber == "" {
			add("craftsmanIdNumber", "craftsman id number is required for a new craftsman")
		} else if !idNumberPattern.MatchString(form.CraftsmanIDNumber) {
			add("craftsmanIdNumber", "craftsman id number must be 17 digits plus a check digit or X")
		}
	}

	return violations
}
