package handlers

import (
	"net/http"

	"dinedesk-pos-service/internal/middleware"
	"dinedesk-pos-service/pkg/response"
)

func (h *Handler) ReportsDashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token required")
		return
	}

	dashboard, err := h.Reports.Dashboard(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, dashboard)
}
