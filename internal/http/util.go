package httpapi

import (
	"encoding/json"
	"net/http"

	"nongfang-data/internal/domain"
	"nongfang-data/internal/service"
)

// scopeFromRequest 从网关注入的请求头还原调用方授权范围
// 认证与权限表查询在网关完成，本服务只消费其结论
func scopeFromRequest(r *http.Request) (domain.AuthScope, bool) {
	scope := domain.AuthScope{
		UserID:     r.Header.Get("X-User-Id"),
		Role:       r.Header.Get("X-User-Role"),
		RegionCode: r.Header.Get("X-Region-Code"),
	}
	if scope.UserID == "" {
		return domain.AuthScope{}, false
	}
	if scope.Role == "" {
		scope.Role = domain.TierVillageClerk
	}
	return scope, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK[T any](w http.ResponseWriter, result T) {
	writeJSON(w, http.StatusOK, Ok(result))
}

func writeUnauthenticated(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, Fail(service.CodeForbidden, "missing caller identity"))
}

// writeError 按错误分类码映射HTTP状态；非类型化错误一律 INTERNAL_ERROR + 500
func writeError(w http.ResponseWriter, err error) {
	e, ok := service.AsError(err)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, Fail(service.CodeInternal, "internal error"))
		return
	}
	status := http.StatusInternalServerError
	switch e.Code {
	case service.CodeVillageNotFound, service.CodeNotFound:
		status = http.StatusNotFound
	case service.CodeVillageInactive, service.CodeDuplicateIdentity:
		status = http.StatusConflict
	case service.CodeForbidden:
		status = http.StatusForbidden
	case service.CodeValidation:
		status = http.StatusBadRequest
	case service.CodeBusinessValidation:
		status = http.StatusUnprocessableEntity
	}
	if len(e.Issues) > 0 {
		writeJSON(w, status, FailWithIssues(e.Code, e.Message, e.Issues))
		return
	}
	writeJSON(w, status, Fail(e.Code, e.Message))
}
