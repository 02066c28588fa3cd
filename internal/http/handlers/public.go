package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"dinedesk-pos-service/internal/middleware"
	"dinedesk-pos-service/internal/order"
	"dinedesk-pos-service/internal/upstream"
	"dinedesk-pos-service/pkg/response"
)

// PublicMenu serves the QR landing page's menu. No session: the shop is
// identified by the id baked into the QR code.
func (h *Handler) PublicMenu(w http.ResponseWriter, r *http.Request) {
	shopID := strings.TrimSpace(r.URL.Query().Get("shopId"))
	if shopID == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Shop ID is required")
		return
	}

	menu, err := h.Upstream.PublicMenu(r.Context(), shopID)
	if err != nil {
		writeError(w, err)
		return
	}

	// Guests only ever see what they can order.
	available := make([]upstream.MenuItem, 0, len(menu.Menu))
	for _, item := range menu.Menu {
		if item.IsAvailable {
			available = append(available, item)
		}
	}
	menu.Menu = available
	response.Success(w, menu)
}

type publicOrderItem struct {
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

type publicOrderRequest struct {
	ShopID   string            `json:"shopId"`
	TableID  string            `json:"tableId"`
	Items    []publicOrderItem `json:"items"`
	Customer *struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"customerDetails"`
}

// PublicOrderCreate places a guest's QR order. The total is computed here,
// never trusted from the page.
func (h *Handler) PublicOrderCreate(w http.ResponseWriter, r *http.Request) {
	var req publicOrderRequest
	if err := readJSON(r, &req); err != nil || len(req.Items) == 0 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "At least one item is required")
		return
	}
	if strings.TrimSpace(req.ShopID) == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Shop ID is required")
		return
	}

	var total float64
	items := make([]upstream.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 || item.Price < 0 || strings.TrimSpace(item.Name) == "" {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order item")
			return
		}
		items = append(items, upstream.OrderItem{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
			Status:     order.StatusSentToKitchen.String(),
		})
		total += item.Price * float64(item.Quantity)
	}

	upReq := upstream.CreateOrderRequest{
		ShopID:      req.ShopID,
		OrderType:   string(order.TypeDineInQR),
		TableID:     req.TableID,
		Items:       items,
		TotalAmount: total,
	}
	if req.TableID == "" {
		upReq.OrderType = string(order.TypeDineIn)
	}
	if req.Customer != nil && strings.TrimSpace(req.Customer.Name) != "" {
		upReq.Customer = &upstream.CustomerDetails{Name: req.Customer.Name, Phone: req.Customer.Phone}
	}

	created, err := h.Upstream.PublicCreateOrder(r.Context(), upReq)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, created)
}

// TableQRLink builds the URL a table's QR code points at. With no table it
// yields the shop's general menu link.
func (h *Handler) TableQRLink(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token required")
		return
	}

	values := url.Values{}
	values.Set("shopId", sess.ShopID)
	if tableID := strings.TrimSpace(r.URL.Query().Get("tableId")); tableID != "" {
		values.Set("tableId", tableID)
	}

	link := strings.TrimRight(h.Config.PublicMenuBaseURL, "/") + "/customer/menu?" + values.Encode()
	response.Success(w, map[string]string{"url": link})
}
