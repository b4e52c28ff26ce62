// Package api provides HTTP handlers for the PyTutor API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ashpool37/pytutor-server/internal/session"
	"github.com/ashpool37/pytutor-server/internal/store"
	"github.com/go-chi/chi/v5"
)

const (
	// defaultMaxBodySize caps most request bodies (1MB).
	defaultMaxBodySize = 1 << 20
	// saveMaxBodySize caps save bodies; a full chat transcript plus code
	// can be large (matches the original backend's 50MB limit).
	saveMaxBodySize = 50 << 20
)

// Handler provides common handler utilities and dependencies.
type Handler struct {
	repo    store.Store
	session *session.Manager
	isDev   bool
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Store, sm *session.Manager, isDev bool) *Handler {
	return &Handler{
		repo:    repo,
		session: sm,
		isDev:   isDev,
	}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	// Raw progress-store contract, wire-compatible with the SPA client.
	r.Post("/api/login", h.HandleLogin)
	r.Post("/api/save", h.HandleSave)

	r.Get("/api/curriculum", h.HandleCurriculum)

	r.Route("/api/session", func(r chi.Router) {
		r.Get("/", h.HandleSessionView)
		r.Post("/login", h.HandleSessionLogin)
		r.Post("/logout", h.HandleSessionLogout)
		r.Post("/switch", h.HandleSessionSwitch)
		r.Post("/save", h.HandleSessionSave)
		r.Post("/code", h.HandleSessionCode)
		r.Post("/chat", h.HandleSessionChat)
	})

	r.Get("/ws/run", h.HandleRun)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decodeBody decodes a JSON request body into v with a size cap.
func decodeBody(w http.ResponseWriter, r *http.Request, maxSize int64, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	return json.NewDecoder(r.Body).Decode(v)
}
