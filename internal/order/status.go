package order

import (
	"fmt"
	"net/http"
)

// ItemStatus is the lifecycle position of a single order line. Lines are
// created as StatusNew, become StatusPlaced when a kitchen ticket is
// accepted, and are then driven forward one step at a time by kitchen staff.
type ItemStatus int

const (
	StatusNew ItemStatus = iota
	StatusPlaced
	StatusSentToKitchen
	StatusPreparing
	StatusReady
)

var statusNames = map[ItemStatus]string{
	StatusNew:           "New",
	StatusPlaced:        "Placed",
	StatusSentToKitchen: "Sent to Kitchen",
	StatusPreparing:     "Preparing",
	StatusReady:         "Ready",
}

func (s ItemStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ItemStatus(%d)", int(s))
}

// ParseItemStatus maps a wire status string to its enumerated value.
func ParseItemStatus(value string) (ItemStatus, error) {
	for status, name := range statusNames {
		if name == value {
			return status, nil
		}
	}
	return StatusNew, ValidationError("Unknown item status: " + value)
}

// Advance returns the next kitchen status. Ready is terminal: advancing it
// returns Ready again with ok=false so callers can skip the request.
func (s ItemStatus) Advance() (next ItemStatus, ok bool) {
	switch s {
	case StatusPlaced:
		return StatusSentToKitchen, true
	case StatusSentToKitchen:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusReady, true
	default:
		return s, false
	}
}

// Editable reports whether a line in this status may still be quantity-edited
// or removed by the ordering side. Anything at or past Sent to Kitchen is
// immutable from the POS.
func (s ItemStatus) Editable() bool {
	return s == StatusNew || s == StatusPlaced
}

// NeedsKitchen reports whether the kitchen display should show this line.
func (s ItemStatus) NeedsKitchen() bool {
	return s == StatusPlaced || s == StatusSentToKitchen || s == StatusPreparing
}

func (s ItemStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *ItemStatus) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return ValidationError("Item status must be a string")
	}
	parsed, err := ParseItemStatus(raw[1 : len(raw)-1])
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// OrderType distinguishes how an order reaches the restaurant.
type OrderType string

const (
	TypeDineIn   OrderType = "Dine-In"
	TypeDineInQR OrderType = "Dine-In-QR"
	TypeTakeaway OrderType = "Takeaway"
	TypeDelivery OrderType = "Delivery"
)

func ParseOrderType(value string) (OrderType, error) {
	switch OrderType(value) {
	case TypeDineIn, TypeDineInQR, TypeTakeaway, TypeDelivery:
		return OrderType(value), nil
	default:
		return "", ValidationError("Unknown order type: " + value)
	}
}

// Online reports whether the order arrived outside the operator's own
// terminal and shows up in the online-orders rail of the POS.
func (t OrderType) Online() bool {
	return t == TypeDineInQR || t == TypeTakeaway || t == TypeDelivery
}

// ShopType is the closed set of shop verticals the platform knows about.
// Only restaurants are served by this service; the rest parse cleanly but
// are rejected with an explicit error instead of a fallthrough view.
type ShopType string

const (
	ShopRestaurant  ShopType = "RESTAURANT"
	ShopKirana      ShopType = "KIRANA"
	ShopElectronics ShopType = "ELECTRONICS"
)

func ParseShopType(value string) (ShopType, error) {
	switch ShopType(value) {
	case ShopRestaurant, ShopKirana, ShopElectronics:
		return ShopType(value), nil
	default:
		return "", newError(ErrShopTypeUnknown, "Unknown shop type: "+value, http.StatusForbidden)
	}
}

// CheckSupported rejects every known shop type this service does not serve.
func (t ShopType) CheckSupported() error {
	if t == ShopRestaurant {
		return nil
	}
	return newError(ErrShopTypeUnsupported, "Unsupported shop type: "+string(t), http.StatusForbidden)
}
