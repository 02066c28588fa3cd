package handlers

import (
	"net/http"

	"dinedesk-pos-service/internal/kds"
	"dinedesk-pos-service/internal/middleware"
	"dinedesk-pos-service/internal/session"
	"dinedesk-pos-service/pkg/response"

	"github.com/gorilla/websocket"
)

func (h *Handler) KitchenOrders(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token required")
		return
	}

	tickets, err := h.Kitchen.Tickets(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, tickets)
}

func (h *Handler) KitchenAdvanceItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token required")
		return
	}

	next, err := h.Kitchen.AdvanceItem(r.Context(), sess,
		readPathString(r, "orderId"), readPathString(r, "itemId"))
	if err != nil {
		writeError(w, err)
		return
	}

	// Push the new queue to every display without waiting for the next poll.
	h.Feed.Notify(r.Context(), sess)

	response.Success(w, map[string]any{"status": next})
}

var kdsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// KitchenFeedWS upgrades a display connection and streams queue changes.
// Browsers cannot set headers on websocket dials, so the token rides the
// query string.
func (h *Handler) KitchenFeedWS(w http.ResponseWriter, r *http.Request) {
	conn, err := kdsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sess, err := session.Verify(r.URL.Query().Get("token"), h.Config.JWTSecret)
	if err != nil {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "unauthorized"})
		return
	}
	if err := sess.ShopType.CheckSupported(); err != nil {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": err.Error()})
		return
	}

	ctx := r.Context()
	client := kds.NewClient(conn)
	unsubscribe := h.Feed.Subscribe(sess, client)
	defer unsubscribe()

	// Initial snapshot so the display renders before the first poll lands.
	if tickets, err := h.Feed.Snapshot(ctx, sess); err == nil {
		_ = client.WriteJSON(map[string]any{"type": "kds.state", "data": tickets})
	}

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	select {
	case <-clientClosed:
	case <-ctx.Done():
	}
}
