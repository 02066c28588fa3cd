package upstream

import (
	"dinedesk-pos-service/internal/order"
)

// Wire shapes of the persistence / catalog / table collaborators. These are
// consumed, not defined, here; field names follow the services' JSON.

type Table struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Capacity    int    `json:"capacity"`
	IsTemporary bool   `json:"isTemporary,omitempty"`
}

type MenuItem struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	IsAvailable bool    `json:"isAvailable"`
}

// OrderItem carries both the persistence-side item identity (used for
// kitchen status updates) and the catalog reference (used as the POS line
// key). Status stays a raw string on the wire and is parsed at the edges.
type OrderItem struct {
	ID         string  `json:"_id,omitempty"`
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	Status     string  `json:"status"`
}

type CustomerDetails struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type Order struct {
	ID          string           `json:"_id"`
	OrderNumber string           `json:"orderNumber,omitempty"`
	KOTNumber   int              `json:"kotNumber,omitempty"`
	OrderType   string           `json:"orderType"`
	Table       *Table           `json:"tableId,omitempty"`
	Customer    *CustomerDetails `json:"customerDetails,omitempty"`
	Items       []OrderItem      `json:"items"`
	TotalAmount float64          `json:"totalAmount,omitempty"`
	Status      string           `json:"status,omitempty"`
}

type CreateOrderRequest struct {
	// ShopID is set on the public path only; operator submissions are scoped
	// by the bearer token.
	ShopID      string           `json:"shopId,omitempty"`
	OrderType   string           `json:"orderType"`
	TableID     string           `json:"tableId,omitempty"`
	Customer    *CustomerDetails `json:"customerDetails,omitempty"`
	Items       []OrderItem      `json:"items"`
	TotalAmount float64          `json:"totalAmount"`
}

type CreateOrderResponse struct {
	OrderID string `json:"orderId"`
}

type AddItemsRequest struct {
	Items []OrderItem `json:"items"`
}

type UpdateItemStatusRequest struct {
	OrderID   string `json:"orderId"`
	ItemID    string `json:"itemId"`
	NewStatus string `json:"newStatus"`
}

type FinalizeRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

type ShopInfo struct {
	ShopName string `json:"shopName"`
	Logo     string `json:"logo,omitempty"`
}

type PublicMenu struct {
	Restaurant ShopInfo   `json:"restaurant"`
	Menu       []MenuItem `json:"menu"`
}

type DailySale struct {
	Date       string  `json:"_id"`
	TotalSales float64 `json:"totalSales"`
}

type TopSellingItem struct {
	Name          string `json:"name"`
	TotalQuantity int    `json:"totalQuantity"`
}

type EmployeePerformance struct {
	WorkerID   string  `json:"workerId"`
	WorkerName string  `json:"workerName"`
	BillsCount int     `json:"billsCount"`
	TotalSales float64 `json:"totalSales"`
	AOV        float64 `json:"aov"`
}

type DashboardReport struct {
	TotalRevenue        float64               `json:"totalRevenue"`
	DailySales          []DailySale           `json:"dailySales"`
	TopSellingItems     []TopSellingItem      `json:"topSellingItems"`
	EmployeePerformance []EmployeePerformance `json:"employeePerformance"`
}

// ToDomain adopts a fetched order into the POS working model. Items with a
// status the enum does not know are dropped rather than guessed at.
func (o Order) ToDomain() *order.Order {
	parsedType, err := order.ParseOrderType(o.OrderType)
	if err != nil {
		parsedType = order.TypeDineIn
	}

	adopted := &order.Order{
		ID:     o.ID,
		KOTNum: o.KOTNumber,
		Type:   parsedType,
		IsNew:  false,
	}
	if o.Table != nil {
		adopted.Table = &order.TableRef{ID: o.Table.ID, Name: o.Table.Name, Capacity: o.Table.Capacity}
	}
	if o.Customer != nil {
		adopted.Customer = &order.CustomerDetails{Name: o.Customer.Name, Phone: o.Customer.Phone, Address: o.Customer.Address}
	}
	for _, item := range o.Items {
		status, err := order.ParseItemStatus(item.Status)
		if err != nil {
			continue
		}
		adopted.Lines = append(adopted.Lines, order.Line{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
			Status:     status,
		})
	}
	return adopted
}

// TicketItems converts domain lines into the KOT wire shape. The contract
// submits new lines as "Sent to Kitchen" regardless of the client-local
// status they held.
func TicketItems(lines []order.Line) []OrderItem {
	items := make([]OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, OrderItem{
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			Price:      line.Price,
			Quantity:   line.Quantity,
			Status:     order.StatusSentToKitchen.String(),
		})
	}
	return items
}
