package service

import (
	"errors"
)

// 错误分类码：除 INTERNAL_ERROR 外都是预期内、面向调用方的结果
const (
	CodeVillageNotFound    = "VILLAGE_NOT_FOUND"
	CodeVillageInactive    = "VILLAGE_INACTIVE"
	CodeForbidden          = "FORBIDDEN"
	CodeValidation         = "VALIDATION_ERROR"
	CodeBusinessValidation = "BUSINESS_VALIDATION_ERROR"
	CodeDuplicateIdentity  = "DUPLICATE_IDENTITY"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
)

// Error 带分类码的服务层错误
// BUSINESS_VALIDATION_ERROR 时 Issues 携带全部违规项（不短路）
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Issues  []Violation `json:"issues,omitempty"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewBusinessValidationError 规则校验失败（携带完整违规清单）
func NewBusinessValidationError(issues []Violation) *Error {
	return &Error{
		Code:    CodeBusinessValidation,
		Message: "submission violates business rules",
		Issues:  issues,
	}
}

// AsError 取出服务层类型化错误
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// ErrorCode 错误分类码；非类型化错误一律归为 INTERNAL_ERROR
func ErrorCode(err error) string {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return CodeInternal
}
