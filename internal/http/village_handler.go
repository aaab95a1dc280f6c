package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"nongfang-data/internal/domain"
	"nongfang-data/internal/repository"
	"nongfang-data/internal/service"

	"go.uber.org/zap"
)

// VillageHandler 村级门户与存证条目只读 Handler
type VillageHandler struct {
	villages    *service.VillageService
	submissions *service.SubmissionService
	logger      *zap.Logger
}

func NewVillageHandler(villages *service.VillageService, submissions *service.SubmissionService, logger *zap.Logger) *VillageHandler {
	return &VillageHandler{villages: villages, submissions: submissions, logger: logger}
}

type villageResponse struct {
	VillageCode string   `json:"villageCode"`
	VillageName string   `json:"villageName"`
	RegionCode  string   `json:"regionCode"`
	Active      bool     `json:"active"`
	Templates   []string `json:"templates"`
}

// GetVillage GET /collect/api/v1/villages/{code}
func (h *VillageHandler) GetVillage(w http.ResponseWriter, r *http.Request, villageCode string) {
	scope, ok := scopeFromRequest(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	village, err := h.villages.Lookup(r.Context(), villageCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, service.NewError(service.CodeVillageNotFound, "village not found: "+villageCode))
			return
		}
		writeError(w, err)
		return
	}
	if !scope.Covers(village.RegionCode) {
		writeError(w, service.NewError(service.CodeForbidden, "caller's region scope does not cover this village"))
		return
	}
	writeOK(w, &villageResponse{
		VillageCode: village.VillageCode,
		VillageName: village.VillageName,
		RegionCode:  village.RegionCode,
		Active:      village.Active,
		Templates:   village.Templates,
	})
}

type entryListResponse struct {
	Items []*domain.DataEntry `json:"items"`
	Total int                 `json:"total"`
	Page  int                 `json:"page"`
	Size  int                 `json:"size"`
}

// ListEntries GET /collect/api/v1/villages/{code}/entries?page=&size=
func (h *VillageHandler) ListEntries(w http.ResponseWriter, r *http.Request, villageCode string) {
	scope, ok := scopeFromRequest(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	entries, total, err := h.submissions.ListEntries(r.Context(), villageCode, page, size, scope)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []*domain.DataEntry{}
	}
	writeOK(w, &entryListResponse{Items: entries, Total: total, Page: page, Size: size})
}

// GetEntry GET /collect/api/v1/entries/{id}
func (h *VillageHandler) GetEntry(w http.ResponseWriter, r *http.Request, entryID string) {
	scope, ok := scopeFromRequest(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	entry, err := h.submissions.GetEntry(r.Context(), entryID, scope)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, entry)
}
