package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"nongfang-data/internal/service"

	"go.uber.org/zap"
)

// 提交 payload 上限（照片只传 URL，正常表单远小于此）
const maxSubmissionBody = 1 << 20

// SubmissionHandler 村级采集提交 Handler
type SubmissionHandler struct {
	submissions *service.SubmissionService
	logger      *zap.Logger
}

func NewSubmissionHandler(submissions *service.SubmissionService, logger *zap.Logger) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions, logger: logger}
}

// submitRequest 提交请求体：data 同时作为类型化视图的来源和存证的原始 payload
type submitRequest struct {
	Data json.RawMessage `json:"data"`
}

// Submit POST /collect/api/v1/villages/{code}/submissions
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request, villageCode string) {
	scope, ok := scopeFromRequest(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSubmissionBody))
	if err != nil {
		writeError(w, service.NewError(service.CodeValidation, "failed to read request body"))
		return
	}
	var req submitRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, service.NewError(service.CodeValidation, "request body must be JSON with a data object"))
		return
	}
	if len(req.Data) == 0 {
		writeError(w, service.NewError(service.CodeValidation, "data is required"))
		return
	}

	result, err := h.submissions.Submit(r.Context(), villageCode, req.Data, scope)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(result))
}
