package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ashpool37/pytutor-server/internal/session"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// runFrame is one WebSocket frame of the execution stream.
type runFrame struct {
	Type    string `json:"type"` // "chunk" | "error" | "done"
	Content string `json:"content,omitempty"`
}

// runRequest is the frame the client sends to start a run. Code, when
// present, syncs the editor buffer before execution.
type runRequest struct {
	Code *string `json:"code"`
}

// runWriteTimeout bounds each outbound frame write so one stuck client
// cannot pin the run goroutine.
const runWriteTimeout = 10 * time.Second

// HandleRun streams a simulated execution of the session's code buffer
// over a WebSocket: one "chunk" frame per narration fragment in arrival
// order, then a "done" frame carrying nothing. A generation failure
// mid-stream surfaces as a final chunk with the diagnostic suffix, not as
// a dropped connection.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("failed to accept run WebSocket", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "run ended"); closeErr != nil {
			slog.Debug("failed to close run websocket", "error", closeErr)
		}
	}()

	ctx := r.Context()

	var req runRequest
	if err := wsjson.Read(ctx, ws, &req); err != nil {
		slog.Debug("failed to read run request", "error", err)
		return
	}
	if req.Code != nil {
		if err := h.session.SetCode(*req.Code); err != nil {
			h.writeFrame(ctx, ws, runFrame{Type: "error", Content: "no active session"})
			return
		}
	}

	_, err = h.session.RunCode(ctx, func(chunk string) {
		h.writeFrame(ctx, ws, runFrame{Type: "chunk", Content: chunk})
	})
	if err != nil {
		msg := "run failed"
		switch {
		case errors.Is(err, session.ErrRunInProgress):
			msg = "a run is already in progress"
		case errors.Is(err, session.ErrNotActive):
			msg = "no active session"
		}
		h.writeFrame(ctx, ws, runFrame{Type: "error", Content: msg})
		return
	}

	h.writeFrame(ctx, ws, runFrame{Type: "done"})
}

func (h *Handler) writeFrame(ctx context.Context, ws *websocket.Conn, frame runFrame) {
	writeCtx, cancel := context.WithTimeout(ctx, runWriteTimeout)
	defer cancel()
	if err := wsjson.Write(writeCtx, ws, frame); err != nil {
		slog.Debug("run WebSocket write error", "error", err)
	}
}

// checkOrigin rejects cross-origin WebSocket upgrades outside development.
func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
