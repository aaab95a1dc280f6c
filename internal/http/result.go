package httpapi

// Result 统一响应包装，与采集端约定保持一致
// - code: 2000 成功 / -1 失败
// - type: 'success' | 'error'
// - error: 失败时的错误分类码（如 BUSINESS_VALIDATION_ERROR）
// - issues: 规则校验失败时的字段级违规清单
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Issues  any    `json:"issues,omitempty"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(errorCode, message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Error: errorCode, Message: message, Result: nil}
}

func FailWithIssues(errorCode, message string, issues any) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Error: errorCode, Message: message, Issues: issues, Result: nil}
}
