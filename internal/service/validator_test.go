package service

import (
	"testing"

	"nongfang-data/internal/domain"
)

var allTemplates = []string{domain.TemplateBasic, domain.TemplateConstruction, domain.TemplateCraftsman}

func hasViolation(violations []Violation, field string) bool {
	for _, v := range violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

func TestValidateSubmission_RequiredFields(t *testing.T) {
	violations := ValidateSubmission(&domain.SubmissionForm{}, allTemplates)
	if !hasViolation(violations, "address") {
		t.Error("missing address should be flagged")
	}
	if !hasViolation(violations, "applicantName") {
		t.Error("missing applicant name should be flagged")
	}

	// 空白串视同缺失
	violations = ValidateSubmission(&domain.SubmissionForm{Address: "   ", ApplicantName: "\t"}, allTemplates)
	if !hasViolation(violations, "address") || !hasViolation(violations, "applicantName") {
		t.Error("blank address/applicantName should be flagged")
	}
}

func TestValidateSubmission_PatternChecks(t *testing.T) {
	form := &domain.SubmissionForm{
		Address:       "某村一组1号",
		ApplicantName: "张三",
		Phone:         "12345",
		IDNumber:      "not-an-id",
	}
	violations := ValidateSubmission(form, allTemplates)
	if !hasViolation(violations, "phone") {
		t.Error("malformed phone should be flagged")
	}
	if !hasViolation(violations, "idNumber") {
		t.Error("malformed id number should be flagged")
	}

	// 可选字段留空不触发格式校验
	form.Phone = ""
	form.IDNumber = ""
	violations = ValidateSubmission(form, allTemplates)
	if hasViolation(violations, "phone") || hasViolation(violations, "idNumber") {
		t.Error("empty optional fields must not be flagged")
	}

	// 合法值通过
	form.Phone = "13812345678"
	form.IDNumber = "37021119900101123X"
	violations = ValidateSubmission(form, allTemplates)
	if hasViolation(violations, "phone") || hasViolation(violations, "idNumber") {
		t.Errorf("valid phone/id should pass, got %v", violations)
	}
}

func TestValidateSubmission_StartDateRequiredInProgress(t *testing.T) {
	form := &domain.SubmissionForm{
		Address:            "某村一组1号",
		ApplicantName:      "张三",
		ConstructionStatus: "in_progress",
		CraftsmanID:        "c-1",
	}
	violations := ValidateSubmission(form, allTemplates)
	if !hasViolation(violations, "startDate") {
		t.Error("in_progress without start date should be flagged")
	}

	// construction 模板未启用时该规则不适用
	violations = ValidateSubmission(form, []string{domain.TemplateBasic})
	if hasViolation(violations, "startDate") {
		t.Error("rule must not apply without the construction template")
	}

	// 非在建状态不要求开工日期
	form.ConstructionStatus = "planned"
	violations = ValidateSubmission(form, allTemplates)
	if hasViolation(violations, "startDate") {
		t.Error("planned status must not require start date")
	}
}

func TestValidateSubmission_DateOrdering(t *testing.T) {
	form := &domain.SubmissionForm{
		Address:                "某村一组1号",
		ApplicantName:          "张三",
		StartDate:              "2025-06-01",
		ExpectedCompletionDate: "2025-05-01",
	}
	violations := ValidateSubmission(form, allTemplates)
	if !hasViolation(violations, "expectedCompletionDate") {
		t.Error("expected completion before start should be flagged")
	}

	form.ExpectedCompletionDate = "2025-12-01"
	violations = ValidateSubmission(form, allTemplates)
	if hasViolation(violations, "expectedCompletionDate") {
		t.Error("valid date ordering should pass")
	}

	// 同一天不算违规
	form.ExpectedCompletionDate = "2025-06-01"
	violations = ValidateSubmission(form, allTemplates)
	if hasViolation(violations, "expectedCompletionDate") {
		t.Error("same-day expected completion should pass")
	}
}

func TestValidateSubmission_UnparseableDates(t *testing.T) {
	form := &domain.SubmissionForm{
		Address:                "某村一组1号",
		ApplicantName:          "张三",
		StartDate:              "someday",
		ExpectedCompletionDate: "2025年6月",
	}
	violations := ValidateSubmission(form, allTemplates)
	if !hasViolation(violations, "startDate") {
		t.Error("unparseable start date should be flagged")
	}
	if !hasViolation(violations, "expectedCompletionDate") {
		t.Error("unparseable expected completion date should be flagged")
	}
}

func TestValidateSubmission_CraftsmanRequiredInProgress(t *testing.T) {
	form := &domain.SubmissionForm{
		Address:            "某村一组1号",
		ApplicantName:      "张三",
		ConstructionStatus: "in_progress",
		StartDate:          "2025-06-01",
	}
	violations := ValidateSubmission(form, allTemplates)
	if !hasViolation(violations, "craftsmanId") {
		t.Error("in_progress without craftsman reference or name should be flagged")
	}

	// 任一给出即可
	form.CraftsmanID = "c-1"
	if hasViolation(ValidateSubmission(form, allTemplates), "craftsmanId") {
		t.Error("existing craftsman reference should satisfy the rule")
	}
	form.CraftsmanID = ""
	form.CraftsmanName = "李师傅"
	if hasViolation(ValidateSubmission(form, allTemplates), "craftsmanId") {
		t.Error("new craftsman name should satisfy the rule")
	}

	// craftsman 模板未启用时不适用
	form.CraftsmanName = ""
	violations = ValidateSubmission(form, []string{domain.TemplateBasic, domain.TemplateConstruction})
	if hasViolation(violations, "craftsmanId") {
		t.Error("rule must not apply without the craftsman template")
	}
}

func TestValidateSubmission_NewCraftsmanFields(t *testing.T) {
	form := &domain.SubmissionForm{
		Address:        "某村一组1号",
		ApplicantName:  "张三",
		IsNewCraftsman: true,
	}
	violations := ValidateSubmission(form, allTemplates)
	for _, field := range []string{"craftsmanName", "craftsmanPhone", "craftsmanIdNumber"} {
		if !hasViolation(violations, field) {
			t.Errorf("new craftsman without %s should be flagged", field)
		}
	}

	// 给了值但格式不对
	form.CraftsmanName = "李师傅"
	form.CraftsmanPhone = "0532-1234567"
	form.CraftsmanIDNumber = "123"
	violations = ValidateSubmission(form, allTemplates)
	if !hasViolation(violations, "craftsmanPhone") {
		t.Error("malformed craftsman phone should be flagged")
	}
	if !hasViolation(violations, "craftsmanIdNumber") {
		t.Error("malformed craftsman id number should be flagged")
	}

	// 完整合法则通过
	form.CraftsmanPhone = "13912345678"
	form.CraftsmanIDNumber = "370211198001011234"
	violations = ValidateSubmission(form, allTemplates)
	if len(violations) != 0 {
		t.Errorf("valid new craftsman should pass, got %v", violations)
	}
}

func TestValidateSubmission_CollectsAllViolations(t *testing.T) {
	// 规则相互独立：一次返回全部违规而不是遇错即停
	form := &domain.SubmissionForm{
		Phone:    "12345",
		IDNumber: "bad",
	}
	violations := ValidateSubmission(form, allTemplates)
	if len(violations) < 4 {
		t.Errorf("expected at least 4 violations, got %d: %v", len(violations), violations)
	}
}
