package handlers

import (
	"net/http"

	"dinedesk-pos-service/internal/middleware"
	"dinedesk-pos-service/internal/pos"
	"dinedesk-pos-service/internal/session"
	"dinedesk-pos-service/pkg/response"
)

// workspace resolves the caller's open POS workspace. Every order operation
// goes through here; a terminal that skipped the open step gets told so.
func (h *Handler) workspace(w http.ResponseWriter, r *http.Request) (*pos.Workspace, *session.Context, bool) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token required")
		return nil, nil, false
	}
	workspace, ok := h.Registry.Get(sess)
	if !ok {
		response.Error(w, http.StatusConflict, "WORKSPACE_NOT_OPEN", "Open the POS workspace first")
		return nil, nil, false
	}
	return workspace, sess, true
}

func (h *Handler) WorkspaceOpen(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token required")
		return
	}

	workspace, err := h.Registry.Open(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, workspace.Snapshot())
}

func (h *Handler) WorkspaceSnapshot(w http.ResponseWriter, r *http.Request) {
	workspace, _, ok := h.workspace(w, r)
	if !ok {
		return
	}
	response.Success(w, workspace.Snapshot())
}

func (h *Handler) WorkspaceClose(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token required")
		return
	}
	h.Registry.Close(sess.SessionID)
	response.Success(w, map[string]any{"closed": true})
}
