package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dinedesk-pos-service/internal/order"
	"dinedesk-pos-service/internal/session"

	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second, zap.NewNop())
}

func TestCreateOrderSendsBearerAndDecodesOrderID(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/public/order" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("expected bearer credential, got %q", got)
		}
		var req CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.OrderType != "Dine-In" || req.TotalAmount != 460 {
			t.Fatalf("unexpected payload: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(CreateOrderResponse{OrderID: "ord-7"})
	})

	sess := &session.Context{Token: "tok-1"}
	resp, err := client.CreateOrder(context.Background(), sess, CreateOrderRequest{
		OrderType:   "Dine-In",
		TableID:     "t-3",
		TotalAmount: 460,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.OrderID != "ord-7" {
		t.Fatalf("expected ord-7, got %q", resp.OrderID)
	}
}

func TestUnauthorizedMapsToSessionExpired(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.ActiveOrders(context.Background(), &session.Context{Token: "stale"})
	if !errors.Is(err, session.ErrSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
}

func TestServerRejectionBecomesTransportError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "kitchen printer offline"})
	})

	err := client.FinalizeOrder(context.Background(), &session.Context{Token: "tok"}, "ord-1", "Cash")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if te.StatusCode != http.StatusBadGateway || te.Message != "kitchen printer offline" {
		t.Fatalf("unexpected transport error: %+v", te)
	}
}

func TestOrderToDomainParsesStatusesAndDropsUnknown(t *testing.T) {
	wire := Order{
		ID:        "ord-3",
		OrderType: "Dine-In-QR",
		Table:     &Table{ID: "t-1", Name: "T1", Capacity: 4},
		Items: []OrderItem{
			{ID: "i-1", MenuItemID: "m-1", Name: "Dosa", Price: 120, Quantity: 2, Status: "Placed"},
			{ID: "i-2", MenuItemID: "m-2", Name: "Idli", Price: 60, Quantity: 1, Status: "Being Plated"},
		},
	}

	adopted := wire.ToDomain()
	if adopted.IsNew {
		t.Fatalf("fetched orders are persisted by definition")
	}
	if adopted.Type != order.TypeDineInQR {
		t.Fatalf("expected Dine-In-QR, got %s", adopted.Type)
	}
	if len(adopted.Lines) != 1 || adopted.Lines[0].Status != order.StatusPlaced {
		t.Fatalf("expected the unknown-status item dropped, got %+v", adopted.Lines)
	}
}

func TestTicketItemsSubmitAsSentToKitchen(t *testing.T) {
	lines := []order.Line{
		{MenuItemID: "m-1", Name: "Dosa", Price: 120, Quantity: 2, Status: order.StatusNew},
	}
	items := TicketItems(lines)
	if len(items) != 1 || items[0].Status != "Sent to Kitchen" {
		t.Fatalf("expected ticket items submitted as Sent to Kitchen, got %+v", items)
	}
}
