package api

import (
	"log/slog"
	"net/http"

	"github.com/ashpool37/pytutor-server/internal/domain"
	"github.com/ashpool37/pytutor-server/internal/store"
)

type loginRequest struct {
	Username string `json:"username"`
}

type saveRequest struct {
	Username    string               `json:"username"`
	ModuleID    string               `json:"moduleId"`
	TopicID     string               `json:"topicId"`
	Code        string               `json:"code"`
	ChatHistory []domain.ChatMessage `json:"chatHistory"`
}

// HandleLogin implements POST /api/login: returns the full user record,
// creating a default one server-side for an unseen username.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, defaultMaxBodySize, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" {
		Error(w, http.StatusBadRequest, "需要用户名")
		return
	}

	rec, err := h.repo.LoadUser(r.Context(), req.Username)
	if err != nil {
		slog.Error("login load failed", "user", req.Username, "error", err)
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	JSON(w, http.StatusOK, rec)
}

// HandleSave implements POST /api/save: upserts the user's last-active
// pointers and replaces the snapshot for the given topic wholesale.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeBody(w, r, saveMaxBodySize, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.TopicID == "" {
		Error(w, http.StatusBadRequest, "缺少必要字段")
		return
	}

	err := h.repo.SaveProgress(r.Context(), store.SaveRequest{
		Username:       req.Username,
		ActiveModuleID: req.ModuleID,
		ActiveTopicID:  req.TopicID,
		Progress:       domain.NewProgress(req.TopicID, req.Code, req.ChatHistory),
	})
	if err != nil {
		slog.Error("save failed", "user", req.Username, "topic_id", req.TopicID, "error", err)
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}
