package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterCollectRoutes 注册村级采集路由
// 路径格式：/collect/api/v1/villages/{code}[/submissions|/draft|/entries]
// 和 /collect/api/v1/entries/{id}
func (r *Router) RegisterCollectRoutes(s *SubmissionHandler, d *DraftHandler, v *VillageHandler) {
	r.Handle("/collect/api/v1/villages/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/collect/api/v1/villages/")
		if rest == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		parts := strings.Split(rest, "/")
		code := parts[0]

		switch {
		// GET /villages/{code}
		case len(parts) == 1:
			if req.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			v.GetVillage(w, req, code)
		// POST /villages/{code}/submissions
		case len(parts) == 2 && parts[1] == "submissions":
			if req.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			s.Submit(w, req, code)
		// GET|PUT|DELETE /villages/{code}/draft
		case len(parts) == 2 && parts[1] == "draft":
			switch req.Method {
			case http.MethodGet:
				d.GetDraft(w, req, code)
			case http.MethodPut:
				d.SaveDraft(w, req, code)
			case http.MethodDelete:
				d.DeleteDraft(w, req, code)
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			}
		// GET /villages/{code}/entries
		case len(parts) == 2 && parts[1] == "entries":
			if req.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			v.ListEntries(w, req, code)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	r.Handle("/collect/api/v1/entries/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		id := strings.TrimPrefix(req.URL.Path, "/collect/api/v1/entries/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		v.GetEntry(w, req, id)
	})

	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}
