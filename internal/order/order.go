// Package order models a single in-progress restaurant order and the
// status-dependent rules for mutating its lines. It is pure state: all
// network submission lives in the pos and upstream packages.
package order

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ManualIDPrefix marks line identifiers that were generated locally for
// ad-hoc items instead of referencing the menu catalog. The kitchen side
// must not try to resolve these against the catalog.
const ManualIDPrefix = "manual-"

// Line is one item entry within an order. Price is the unit price frozen at
// the moment the line was created; it is never re-read from the catalog.
type Line struct {
	MenuItemID string     `json:"menuItemId"`
	Name       string     `json:"name"`
	Price      float64    `json:"price"`
	Quantity   int        `json:"quantity"`
	Status     ItemStatus `json:"status"`
}

// Manual reports whether the line was entered ad hoc at order time.
func (l Line) Manual() bool {
	return strings.HasPrefix(l.MenuItemID, ManualIDPrefix)
}

// Subtotal is price times quantity for this line alone.
func (l Line) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// CustomerDetails identify the guest on takeaway and delivery orders.
type CustomerDetails struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// TableRef is the dine-in table an order is attached to.
type TableRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity,omitempty"`
}

// MenuItem is a catalog entry as supplied by the menu service.
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	IsAvailable bool    `json:"isAvailable"`
}

// Order is one customer's in-progress order. ID stays empty and IsNew stays
// true until the persistence service has accepted the order once; after that
// the order can only grow by new lines and further kitchen tickets until it
// is finalized.
type Order struct {
	ID       string           `json:"id,omitempty"`
	KOTNum   int              `json:"kotNumber,omitempty"`
	Type     OrderType        `json:"orderType"`
	Table    *TableRef        `json:"table,omitempty"`
	Customer *CustomerDetails `json:"customerDetails,omitempty"`
	Lines    []Line           `json:"items"`
	IsNew    bool             `json:"isNew"`
}

// NewDineIn starts a transient dine-in order for a table.
func NewDineIn(table TableRef) *Order {
	return &Order{Type: TypeDineIn, Table: &table, IsNew: true}
}

// NewTakeaway starts a transient takeaway order. An empty guest name gets a
// generated placeholder so the ticket is still identifiable in the kitchen.
func NewTakeaway(guestName string) *Order {
	if strings.TrimSpace(guestName) == "" {
		guestName = "Guest " + uuid.NewString()[:8]
	}
	return &Order{Type: TypeTakeaway, Customer: &CustomerDetails{Name: guestName}, IsNew: true}
}

// NewDelivery starts a transient delivery order.
func NewDelivery(details CustomerDetails) *Order {
	return &Order{Type: TypeDelivery, Customer: &details, IsNew: true}
}

// AddCatalogItem merges the menu item into the order: if a line for the same
// catalog id is still New its quantity grows by one, otherwise a fresh New
// line is appended with the catalog price frozen in. It always succeeds.
func (o *Order) AddCatalogItem(item MenuItem) *Line {
	for i := range o.Lines {
		line := &o.Lines[i]
		if line.MenuItemID == item.ID && line.Status == StatusNew {
			line.Quantity++
			return line
		}
	}
	o.Lines = append(o.Lines, Line{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   1,
		Status:     StatusNew,
	})
	return &o.Lines[len(o.Lines)-1]
}

// AddManualItem appends or merges an ad-hoc line keyed on its name. Unlike
// catalog lines, a merged manual line takes the latest entered price.
func (o *Order) AddManualItem(name, price string) (*Line, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ValidationError("Manual item name is required")
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil || parsed <= 0 {
		return nil, ValidationError("Manual item price must be a positive number")
	}

	for i := range o.Lines {
		line := &o.Lines[i]
		if line.Manual() && line.Name == name {
			line.Quantity++
			line.Price = parsed
			return line, nil
		}
	}
	o.Lines = append(o.Lines, Line{
		MenuItemID: ManualIDPrefix + uuid.NewString(),
		Name:       name,
		Price:      parsed,
		Quantity:   1,
		Status:     StatusNew,
	})
	return &o.Lines[len(o.Lines)-1], nil
}

// ChangeQuantity adds delta to the referenced line's quantity. Dropping to
// zero or below removes the line. Lines already sent to the kitchen are
// immutable and yield a StateConflictError with the order untouched.
func (o *Order) ChangeQuantity(lineID string, delta int) error {
	idx := o.lineIndex(lineID)
	if idx < 0 {
		return LineNotFoundError(lineID)
	}
	line := &o.Lines[idx]
	if !line.Status.Editable() {
		return StateConflictError("Cannot change quantity of an item that has already been sent to the kitchen")
	}
	if line.Quantity+delta <= 0 {
		o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
		return nil
	}
	line.Quantity += delta
	return nil
}

// RemoveLine deletes the referenced line under the same eligibility rule as
// ChangeQuantity.
func (o *Order) RemoveLine(lineID string) error {
	idx := o.lineIndex(lineID)
	if idx < 0 {
		return LineNotFoundError(lineID)
	}
	if !o.Lines[idx].Status.Editable() {
		return StateConflictError("Cannot remove an item that has already been sent to the kitchen")
	}
	o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
	return nil
}

// Total recomputes the order total from its lines. It is never stored.
func (o *Order) Total() float64 {
	total := 0.0
	for _, line := range o.Lines {
		total += line.Subtotal()
	}
	return total
}

// NewLines returns the lines that have not been sent to the kitchen yet,
// split into catalog-backed and manually-entered groups. Manual lines still
// travel on the ticket but are flagged so the receiving side skips catalog
// resolution.
func (o *Order) NewLines() (catalog, manual []Line) {
	for _, line := range o.Lines {
		if line.Status != StatusNew {
			continue
		}
		if line.Manual() {
			manual = append(manual, line)
		} else {
			catalog = append(catalog, line)
		}
	}
	return catalog, manual
}

// MarkPlaced transitions every New line to Placed and records the persisted
// identity after a kitchen ticket was accepted. Lines already Placed or
// further along are left alone.
func (o *Order) MarkPlaced(orderID string) {
	if orderID != "" {
		o.ID = orderID
	}
	o.IsNew = false
	for i := range o.Lines {
		if o.Lines[i].Status == StatusNew {
			o.Lines[i].Status = StatusPlaced
		}
	}
}

func (o *Order) lineIndex(lineID string) int {
	for i := range o.Lines {
		if o.Lines[i].MenuItemID == lineID {
			return i
		}
	}
	return -1
}
