package handlers

import (
	"net/http"
	"strings"

	"dinedesk-pos-service/internal/order"
	"dinedesk-pos-service/pkg/response"
)

type selectTableRequest struct {
	TableID string `json:"tableId"`
}

func (h *Handler) OrderSelectTable(w http.ResponseWriter, r *http.Request) {
	workspace, _, ok := h.workspace(w, r)
	if !ok {
		return
	}

	var req selectTableRequest
	if err := readJSON(r, &req); err != nil || strings.TrimSpace(req.TableID) == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Table ID is required")
		return
	}

	selected, err := workspace.SelectTable(req.TableID)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, selected)
}

type adoptOrderRequest struct {
	OrderID string `json:"orderId"`
}

func (h *Handler) OrderAdopt(w http.ResponseWriter, r *http.Request) {
	workspace, _, ok := h.workspace(w, r)
	if !ok {
		return
	}

	var req adoptOrderRequest
	if err := readJSON(r, &req); err != nil || strings.TrimSpace(req.OrderID) == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Order ID is required")
		return
	}

	selected, err := workspace.AdoptOrder(req.OrderID)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, selected)
}

type takeawayRequest struct {
	GuestName string `json:"guestName"`
}

func (h *Handler) OrderTakeaway(w http.ResponseWriter, r *http.Request) {
	workspace, _, ok := h.workspace(w, r)
	if !ok {
		return
	}

	var req takeawayRequest
	_ = readJSON(r, &req)
	response.Success(w, workspace.NewTakeaway(req.GuestName))
}

type deliveryRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (h *Handler) OrderDelivery(w http.ResponseWriter, r *http.Request) {
	workspace, _, ok := h.workspace(w, r)
	if !ok {
		return
	}

	var req deliveryRequest
	if err := readJSON(r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Customer name is required")
		return
	}

	response.Success(w, workspace.NewDelivery(order.CustomerDetails{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}))
}

type addItemRequest struct {
	MenuItemID string `json:"menuItemId"`
}

func (h *Handler) OrderAddItem(w http.ResponseWriter, r *http.Request) {
	workspace, _, ok := h.workspace(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := readJSON(r, &req); err != nil || strings.TrimSpace(req.MenuItemID) == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Menu item ID is required")
		return
	}

	if err := workspace.AddCatalogItem(req.MenuItemID); err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, workspace.Snapshot())
}

type addManualItemRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

func (h *Handler) OrderAddManualItem(w http.ResponseWriter, r *http.Request) {
	workspace, _, ok := h.workspace(w, r)
	if !ok {
		return
	}

	var req addManualItemRequest
	if err := readJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Item name and price are required")
		return
	}

	if err := workspace.AddManualItem(req.Name, req.Price); err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, workspace.Snapshot())
}

type changeQuantityRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) OrderChangeQuantity(w http.ResponseWriter, r *http.Request) {
	workspace, _, ok := h.workspace(w, r)
	if !ok {
		return
	}

	lineID := readPathString(r, "lineId")
	var req changeQuantityRequest
	if err := readJSON(r, &req); err != nil || req.Delta == 0 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "A non-zero delta is required")
		return
	}

	if err := workspace.ChangeQuantity(lineID, req.Delta); err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, workspace.Snapshot())
}

func (h *Handler) OrderRemoveLine(w http.ResponseWriter, r *http.Request) {
	workspace, _, ok := h.workspace(w, r)
	if !ok {
		return
	}

	if err := workspace.RemoveLine(readPathString(r, "lineId")); err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, workspace.Snapshot())
}

func (h *Handler) OrderSendKOT(w http.ResponseWriter, r *http.Request) {
	workspace, _, ok := h.workspace(w, r)
	if !ok {
		return
	}

	notice, err := workspace.SendKOT(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.Notice(w, workspace.Snapshot(), notice)
}

type finalizeRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

func (h *Handler) OrderFinalize(w http.ResponseWriter, r *http.Request) {
	workspace, _, ok := h.workspace(w, r)
	if !ok {
		return
	}

	var req finalizeRequest
	_ = readJSON(r, &req)
	if strings.TrimSpace(req.PaymentMethod) == "" {
		req.PaymentMethod = h.Config.DefaultPayment
	}

	notice, err := workspace.Finalize(r.Context(), req.PaymentMethod)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Notice(w, workspace.Snapshot(), notice)
}
