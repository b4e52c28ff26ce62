package api

import (
	"errors"
	"net/http"

	"github.com/ashpool37/pytutor-server/internal/curriculum"
	"github.com/ashpool37/pytutor-server/internal/domain"
	"github.com/ashpool37/pytutor-server/internal/session"
)

type sessionLoginRequest struct {
	Username string `json:"username"`
}

type switchRequest struct {
	ModuleID string `json:"moduleId"`
	TopicID  string `json:"topicId"`
}

type sessionSaveRequest struct {
	Code        *string              `json:"code"`
	ChatHistory []domain.ChatMessage `json:"chatHistory"`
	TopicID     string               `json:"topicId"`
}

type codeRequest struct {
	Code string `json:"code"`
}

type chatTurnRequest struct {
	Message string `json:"message"`
}

// HandleCurriculum serves the static lesson catalog.
func (h *Handler) HandleCurriculum(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, curriculum.Modules)
}

// HandleSessionView returns the current session snapshot.
func (h *Handler) HandleSessionView(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.session.View())
}

// HandleSessionLogin starts the session for a username.
func (h *Handler) HandleSessionLogin(w http.ResponseWriter, r *http.Request) {
	var req sessionLoginRequest
	if err := decodeBody(w, r, defaultMaxBodySize, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" {
		Error(w, http.StatusBadRequest, "需要用户名")
		return
	}

	if err := h.session.Login(r.Context(), req.Username); err != nil {
		if errors.Is(err, session.ErrAlreadyLoggedIn) {
			Error(w, http.StatusConflict, "session already active")
			return
		}
		Error(w, http.StatusBadGateway, "failed to load user record")
		return
	}

	JSON(w, http.StatusOK, h.session.View())
}

// HandleSessionLogout ends the session without saving.
func (h *Handler) HandleSessionLogout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout()
	JSON(w, http.StatusOK, h.session.View())
}

// HandleSessionSwitch changes the active topic, flushing the outgoing
// topic's buffers first.
func (h *Handler) HandleSessionSwitch(w http.ResponseWriter, r *http.Request) {
	var req switchRequest
	if err := decodeBody(w, r, defaultMaxBodySize, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.session.SwitchTopic(r.Context(), req.ModuleID, req.TopicID); err != nil {
		switch {
		case errors.Is(err, session.ErrNotActive):
			Error(w, http.StatusConflict, "no active session")
		case errors.Is(err, curriculum.ErrNotFound):
			Error(w, http.StatusNotFound, "topic not found")
		default:
			Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	JSON(w, http.StatusOK, h.session.View())
}

// HandleSessionSave persists the session buffers (or the explicit
// overrides in the body).
func (h *Handler) HandleSessionSave(w http.ResponseWriter, r *http.Request) {
	var req sessionSaveRequest
	if err := decodeBody(w, r, saveMaxBodySize, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.session.Save(r.Context(), session.SaveOptions{
		Code:    req.Code,
		History: req.ChatHistory,
		TopicID: req.TopicID,
	})
	if err != nil {
		Error(w, http.StatusConflict, "no active session")
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleSessionCode syncs the editor buffer into the session.
func (h *Handler) HandleSessionCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeBody(w, r, saveMaxBodySize, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.session.SetCode(req.Code); err != nil {
		Error(w, http.StatusConflict, "no active session")
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleSessionChat runs one chat turn and returns the appended messages
// (the user message plus the assistant reply or its fallback).
func (h *Handler) HandleSessionChat(w http.ResponseWriter, r *http.Request) {
	var req chatTurnRequest
	if err := decodeBody(w, r, defaultMaxBodySize, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		Error(w, http.StatusBadRequest, "message cannot be empty")
		return
	}

	messages, err := h.session.SendMessage(r.Context(), req.Message)
	if err != nil {
		Error(w, http.StatusConflict, "no active session")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}
