package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"nongfang-data/internal/service"

	"go.uber.org/zap"
)

// DraftHandler 草稿 Handler
type DraftHandler struct {
	drafts *service.DraftService
	logger *zap.Logger
}

func NewDraftHandler(drafts *service.DraftService, logger *zap.Logger) *DraftHandler {
	return &DraftHandler{drafts: drafts, logger: logger}
}

type saveDraftRequest struct {
	Step int             `json:"step"`
	Data json.RawMessage `json:"data"`
}

type draftResponse struct {
	Step      int             `json:"step"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// GetDraft GET /collect/api/v1/villages/{code}/draft
func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request, villageCode string) {
	scope, ok := scopeFromRequest(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	draft, err := h.drafts.Load(r.Context(), villageCode, scope)
	if err != nil {
		writeError(w, err)
		return
	}
	if draft == nil {
		// 没有草稿不是错误：result 为 null
		writeOK[*draftResponse](w, nil)
		return
	}
	writeOK(w, &draftResponse{Step: draft.Step, Data: draft.Payload, UpdatedAt: draft.UpdatedAt})
}

// SaveDraft PUT /collect/api/v1/villages/{code}/draft
func (h *DraftHandler) SaveDraft(w http.ResponseWriter, r *http.Request, villageCode string) {
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
	var req saveDraftRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, service.NewError(service.CodeValidation, "request body must be JSON with step and data"))
		return
	}

	draft, err := h.drafts.Save(r.Context(), villageCode, scope, req.Step, req.Data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, &draftResponse{Step: draft.Step, Data: draft.Payload, UpdatedAt: draft.UpdatedAt})
}

// DeleteDraft DELETE /collect/api/v1/villages/{code}/draft
func (h *DraftHandler) DeleteDraft(w http.ResponseWriter, r *http.Request, villageCode string) {
	scope, ok := scopeFromRequest(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	if err := h.drafts.Discard(r.Context(), villageCode, scope); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]string{"status": "deleted"})
}
