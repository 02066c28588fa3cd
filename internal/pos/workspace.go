// Package pos holds the operator-facing order console: one Workspace per
// operator session carries the cached tables, menu and active orders plus
// the order currently being built, and drives kitchen tickets and billing
// against the persistence service.
package pos

import (
	"context"
	"sync"
	"time"

	"dinedesk-pos-service/internal/order"
	"dinedesk-pos-service/internal/session"
	"dinedesk-pos-service/internal/upstream"

	"go.uber.org/zap"
)

// Notices mirror what the operator sees on screen for actions that leave
// the order untouched on purpose.
const (
	NoticeNoOrderSelected = "Please select a table or create a new order first"
	NoticeNothingToSend   = "No new items to send to the kitchen"
	NoticeKOTSent         = "KOT sent successfully"
	NoticeBillFinalized   = "Bill finalized successfully"
)

// Workspace is one operator session's working state. A single mutex
// serializes the session's actions; nothing here is shared across sessions.
type Workspace struct {
	client *upstream.Client
	logger *zap.Logger

	mu         sync.Mutex
	sess       *session.Context
	tables     []upstream.Table
	menu       []upstream.MenuItem
	active     []upstream.Order
	selected   *order.Order
	generation uint64
	closed     bool
}

func newWorkspace(client *upstream.Client, logger *zap.Logger, sess *session.Context) *Workspace {
	return &Workspace{client: client, logger: logger, sess: sess}
}

// Snapshot is the read model handed to the terminal on every request.
type Snapshot struct {
	Tables   []upstream.Table    `json:"tables"`
	Menu     []upstream.MenuItem `json:"menu"`
	Active   []upstream.Order    `json:"activeOrders"`
	Selected *order.Order        `json:"selectedOrder,omitempty"`
	Total    float64             `json:"total"`
}

func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{
		Tables: append([]upstream.Table(nil), w.tables...),
		Menu:   append([]upstream.MenuItem(nil), w.menu...),
		Active: append([]upstream.Order(nil), w.active...),
	}
	if w.selected != nil {
		copied := *w.selected
		copied.Lines = append([]order.Line(nil), w.selected.Lines...)
		snap.Selected = &copied
		snap.Total = w.selected.Total()
	}
	return snap
}

// Find locates an order in the working set: the selected order first, then
// the active set.
func (s Snapshot) Find(orderID string) *order.Order {
	if s.Selected != nil && s.Selected.ID == orderID {
		return s.Selected
	}
	for _, active := range s.Active {
		if active.ID == orderID {
			return active.ToDomain()
		}
	}
	return nil
}

// Refresh re-fetches tables, menu and the active order set (terminal plus
// online orders). The result is discarded if the workspace mutated or was
// closed while the fetch was in flight, so a slow poll can never clobber a
// newer local action.
func (w *Workspace) Refresh(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	sess := w.sess
	before := w.generation
	w.mu.Unlock()

	tables, err := w.client.Tables(ctx, sess)
	if err != nil {
		return err
	}
	menu, err := w.client.Menu(ctx, sess)
	if err != nil {
		return err
	}
	active, err := w.client.ActiveOrders(ctx, sess)
	if err != nil {
		return err
	}
	qr, err := w.client.QROrders(ctx, sess)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.generation != before {
		w.logger.Debug("discarding stale refresh", zap.Uint64("fetchedAt", before), zap.Uint64("generation", w.generation))
		return nil
	}
	permanent := tables[:0]
	for _, table := range tables {
		if !table.IsTemporary {
			permanent = append(permanent, table)
		}
	}
	w.tables = permanent
	w.menu = menu
	w.active = append(active, qr...)
	return nil
}

// SelectTable picks up the table's existing active order if one exists,
// otherwise starts a transient dine-in order for it.
func (w *Workspace) SelectTable(tableID string) (*order.Order, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, existing := range w.active {
		if existing.Table != nil && existing.Table.ID == tableID {
			w.selected = existing.ToDomain()
			w.generation++
			return w.selected, nil
		}
	}

	for _, table := range w.tables {
		if table.ID == tableID {
			w.selected = order.NewDineIn(order.TableRef{ID: table.ID, Name: table.Name, Capacity: table.Capacity})
			w.generation++
			return w.selected, nil
		}
	}
	return nil, order.ValidationError("Unknown table: " + tableID)
}

// AdoptOrder brings an online (QR/takeaway/delivery) order into the console.
func (w *Workspace) AdoptOrder(orderID string) (*order.Order, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, existing := range w.active {
		if existing.ID == orderID {
			w.selected = existing.ToDomain()
			w.generation++
			return w.selected, nil
		}
	}
	return nil, order.ValidationError("Unknown order: " + orderID)
}

func (w *Workspace) NewTakeaway(guestName string) *order.Order {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selected = order.NewTakeaway(guestName)
	w.generation++
	return w.selected
}

func (w *Workspace) NewDelivery(details order.CustomerDetails) *order.Order {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selected = order.NewDelivery(details)
	w.generation++
	return w.selected
}

// AddCatalogItem adds one unit of a menu item to the selected order.
func (w *Workspace) AddCatalogItem(menuItemID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.selected == nil {
		return order.StateConflictError(NoticeNoOrderSelected)
	}
	for _, item := range w.menu {
		if item.ID == menuItemID {
			if !item.IsAvailable {
				return order.ValidationError(item.Name + " is currently unavailable")
			}
			w.selected.AddCatalogItem(order.MenuItem{
				ID:          item.ID,
				Name:        item.Name,
				Price:       item.Price,
				Category:    item.Category,
				IsAvailable: item.IsAvailable,
			})
			w.generation++
			return nil
		}
	}
	return order.ValidationError("Unknown menu item: " + menuItemID)
}

func (w *Workspace) AddManualItem(name, price string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.selected == nil {
		return order.StateConflictError(NoticeNoOrderSelected)
	}
	if _, err := w.selected.AddManualItem(name, price); err != nil {
		return err
	}
	w.generation++
	return nil
}

func (w *Workspace) ChangeQuantity(lineID string, delta int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.selected == nil {
		return order.StateConflictError(NoticeNoOrderSelected)
	}
	if err := w.selected.ChangeQuantity(lineID, delta); err != nil {
		return err
	}
	w.generation++
	return nil
}

func (w *Workspace) RemoveLine(lineID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.selected == nil {
		return order.StateConflictError(NoticeNoOrderSelected)
	}
	if err := w.selected.RemoveLine(lineID); err != nil {
		return err
	}
	w.generation++
	return nil
}

// SendKOT transmits every line still New to the kitchen. With nothing to
// send it is an idempotent no-op. On success all New lines become Placed and
// a transient order adopts the identity the persistence service assigned; on
// failure local state is exactly as before and the operator may retry. The
// lock is held across the submission: a session is one logical thread of
// control, so its own actions never interleave mid-flight.
func (w *Workspace) SendKOT(ctx context.Context) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.selected == nil {
		return "", order.StateConflictError(NoticeNoOrderSelected)
	}

	catalog, manual := w.selected.NewLines()
	if len(catalog)+len(manual) == 0 {
		return NoticeNothingToSend, nil
	}

	items := append(upstream.TicketItems(catalog), upstream.TicketItems(manual)...)

	var assignedID string
	if w.selected.IsNew {
		req := upstream.CreateOrderRequest{
			OrderType:   string(w.selected.Type),
			Items:       items,
			TotalAmount: w.selected.Total(),
		}
		if w.selected.Table != nil {
			req.TableID = w.selected.Table.ID
		}
		if w.selected.Customer != nil {
			req.Customer = &upstream.CustomerDetails{
				Name:    w.selected.Customer.Name,
				Phone:   w.selected.Customer.Phone,
				Address: w.selected.Customer.Address,
			}
		}
		resp, err := w.client.CreateOrder(ctx, w.sess, req)
		if err != nil {
			return "", err
		}
		assignedID = resp.OrderID
	} else {
		if err := w.client.AddItems(ctx, w.sess, w.selected.ID, items); err != nil {
			return "", err
		}
	}

	w.selected.MarkPlaced(assignedID)
	w.generation++

	go w.resync()
	return NoticeKOTSent, nil
}

// Finalize irreversibly closes the selected order. It requires a persisted
// order; a transient one has never been billed and cannot be finalized.
func (w *Workspace) Finalize(ctx context.Context, paymentMethod string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.selected == nil || w.selected.IsNew {
		return "", order.InvalidStateError("Please select an existing order to finalize the bill")
	}
	orderID := w.selected.ID

	if err := w.client.FinalizeOrder(ctx, w.sess, orderID, paymentMethod); err != nil {
		return "", err
	}

	w.selected = nil
	kept := w.active[:0]
	for _, existing := range w.active {
		if existing.ID != orderID {
			kept = append(kept, existing)
		}
	}
	w.active = kept
	w.generation++

	go w.resync()
	return NoticeBillFinalized, nil
}

// resync is the reconciliation-by-refetch step after a successful mutation:
// the caches are unconditionally re-read from the source of truth. It runs
// off the request path with its own deadline.
func (w *Workspace) resync() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := w.Refresh(ctx); err != nil {
		w.logger.Warn("post-mutation refresh failed", zap.Error(err))
	}
}

func (w *Workspace) updateSession(sess *session.Context) {
	w.mu.Lock()
	w.sess = sess
	w.mu.Unlock()
}

func (w *Workspace) close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}
