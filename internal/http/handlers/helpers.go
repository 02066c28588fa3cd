package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"dinedesk-pos-service/internal/order"
	"dinedesk-pos-service/internal/session"
	"dinedesk-pos-service/internal/upstream"
	"dinedesk-pos-service/pkg/response"

	"github.com/go-chi/chi/v5"
)

func readPathString(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

func readJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

// writeError maps domain and transport failures onto the response envelope.
// Transport failures surface as 502 so the terminal knows the action is
// retryable; everything in the order taxonomy carries its own status.
func writeError(w http.ResponseWriter, err error) {
	var oe *order.Error
	if errors.As(err, &oe) {
		response.Error(w, oe.StatusCode, string(oe.Code), oe.Message)
		return
	}

	var te *upstream.TransportError
	if errors.As(err, &te) {
		response.Error(w, http.StatusBadGateway, "UPSTREAM_ERROR", te.Message)
		return
	}

	if errors.Is(err, session.ErrSessionExpired) {
		response.Error(w, http.StatusUnauthorized, "SESSION_EXPIRED", "Session expired. Please log in again.")
		return
	}

	response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
}
