package kds

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"dinedesk-pos-service/internal/session"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client is one connected kitchen display. Writes are serialized because
// gorilla/websocket allows a single concurrent writer per connection.
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

func (c *Client) WriteJSON(value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(value)
}

type feedShop struct {
	clients map[*Client]struct{}
	sess    *session.Context
	cancel  context.CancelFunc
	last    string
}

// Feed pushes kitchen queue changes to every display of a shop. A shop's poll
// loop runs only while it has subscribers; the loop compares consecutive
// fetches and broadcasts only when the queue actually changed.
type Feed struct {
	service  *Service
	logger   *zap.Logger
	interval time.Duration

	mu    sync.Mutex
	shops map[string]*feedShop
}

func NewFeed(service *Service, logger *zap.Logger, interval time.Duration) *Feed {
	return &Feed{
		service:  service,
		logger:   logger,
		interval: interval,
		shops:    make(map[string]*feedShop),
	}
}

// Subscribe registers a display for its shop's queue and starts the shop's
// poll loop on the first subscriber. The newest session wins: a reconnecting
// display refreshes the token the loop polls with.
func (f *Feed) Subscribe(sess *session.Context, client *Client) (unsubscribe func()) {
	key := strings.TrimSpace(sess.ShopID)
	if key == "" {
		return func() {}
	}

	f.mu.Lock()
	shop := f.shops[key]
	if shop == nil {
		ctx, cancel := context.WithCancel(context.Background())
		shop = &feedShop{clients: make(map[*Client]struct{}), cancel: cancel}
		f.shops[key] = shop
		go f.poll(ctx, key)
	}
	shop.sess = sess
	shop.clients[client] = struct{}{}
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		if current := f.shops[key]; current != nil {
			delete(current.clients, client)
			if len(current.clients) == 0 {
				current.cancel()
				delete(f.shops, key)
			}
		}
		f.mu.Unlock()
	}
}

// Snapshot fetches the current queue for a freshly connected display.
func (f *Feed) Snapshot(ctx context.Context, sess *session.Context) ([]Ticket, error) {
	return f.service.Tickets(ctx, sess)
}

// Notify forces an immediate publish for a shop, off the poll cadence. Used
// after a ticket item advances so every display sees the step right away.
func (f *Feed) Notify(ctx context.Context, sess *session.Context) {
	tickets, err := f.service.Tickets(ctx, sess)
	if err != nil {
		f.logger.Warn("kitchen feed refresh failed", zap.String("shopId", sess.ShopID), zap.Error(err))
		return
	}
	f.publish(sess.ShopID, tickets)
}

func (f *Feed) poll(ctx context.Context, key string) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		f.mu.Lock()
		shop := f.shops[key]
		var sess *session.Context
		if shop != nil {
			sess = shop.sess
		}
		f.mu.Unlock()
		if sess == nil {
			return
		}

		fetchCtx, cancel := context.WithTimeout(ctx, f.interval)
		tickets, err := f.service.Tickets(fetchCtx, sess)
		cancel()
		if err != nil {
			f.logger.Warn("kitchen feed poll failed", zap.String("shopId", key), zap.Error(err))
			continue
		}
		f.publish(key, tickets)
	}
}

// publish broadcasts the queue to a shop's displays if it changed since the
// last broadcast. A client whose write fails is closed and dropped.
func (f *Feed) publish(key string, tickets []Ticket) {
	fingerprint, err := json.Marshal(tickets)
	if err != nil {
		return
	}

	f.mu.Lock()
	shop := f.shops[key]
	if shop == nil || shop.last == string(fingerprint) {
		f.mu.Unlock()
		return
	}
	shop.last = string(fingerprint)
	clients := make([]*Client, 0, len(shop.clients))
	for c := range shop.clients {
		clients = append(clients, c)
	}
	f.mu.Unlock()

	message := map[string]any{"type": "kds.state", "data": tickets}
	for _, c := range clients {
		if err := c.WriteJSON(message); err != nil {
			_ = c.conn.Close()
			f.mu.Lock()
			if current := f.shops[key]; current != nil {
				delete(current.clients, c)
			}
			f.mu.Unlock()
		}
	}
}

// Shutdown stops every poll loop. Connections are owned by their handlers and
// close with the HTTP server.
func (f *Feed) Shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, shop := range f.shops {
		shop.cancel()
		delete(f.shops, key)
	}
}
