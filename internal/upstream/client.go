// Package upstream is the REST client for the collaborator services behind
// the POS: order persistence, menu catalog, table registry and reporting.
// Every call takes the operator's session explicitly; nothing is read from
// ambient storage.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dinedesk-pos-service/internal/session"

	"go.uber.org/zap"
)

// TransportError is a retryable collaborator failure: the request left the
// POS but was rejected or never answered. Local state is never mutated on
// this path.
type TransportError struct {
	StatusCode int
	Message    string
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return "upstream unreachable: " + e.Message
	}
	return fmt.Sprintf("upstream rejected request (%d): %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateOrder submits a first kitchen ticket for a not-yet-persisted order.
// The response carries the identity the persistence service assigned.
func (c *Client) CreateOrder(ctx context.Context, sess *session.Context, req CreateOrderRequest) (CreateOrderResponse, error) {
	var out CreateOrderResponse
	err := c.do(ctx, sess, http.MethodPost, "/api/public/order", req, &out)
	return out, err
}

// AddItems submits a follow-up kitchen ticket scoped to an existing order.
func (c *Client) AddItems(ctx context.Context, sess *session.Context, orderID string, items []OrderItem) error {
	return c.do(ctx, sess, http.MethodPost, "/api/orders/add-items/"+url.PathEscape(orderID), AddItemsRequest{Items: items}, nil)
}

// UpdateItemStatus advances one item one status step on the kitchen side.
func (c *Client) UpdateItemStatus(ctx context.Context, sess *session.Context, orderID, itemID, newStatus string) error {
	req := UpdateItemStatusRequest{OrderID: orderID, ItemID: itemID, NewStatus: newStatus}
	return c.do(ctx, sess, http.MethodPut, "/api/orders/item/status", req, nil)
}

// FinalizeOrder irreversibly closes a persisted order.
func (c *Client) FinalizeOrder(ctx context.Context, sess *session.Context, orderID, paymentMethod string) error {
	return c.do(ctx, sess, http.MethodPost, "/api/orders/finalize/"+url.PathEscape(orderID), FinalizeRequest{PaymentMethod: paymentMethod}, nil)
}

func (c *Client) ActiveOrders(ctx context.Context, sess *session.Context) ([]Order, error) {
	var out []Order
	err := c.do(ctx, sess, http.MethodGet, "/api/order/active", nil, &out)
	return out, err
}

// QROrders fetches the online orders (QR dine-in, takeaway, delivery) that
// were placed outside an operator terminal.
func (c *Client) QROrders(ctx context.Context, sess *session.Context) ([]Order, error) {
	var out []Order
	err := c.do(ctx, sess, http.MethodGet, "/api/orders/qr-code", nil, &out)
	return out, err
}

func (c *Client) KitchenOrders(ctx context.Context, sess *session.Context) ([]Order, error) {
	var out []Order
	err := c.do(ctx, sess, http.MethodGet, "/api/kds", nil, &out)
	return out, err
}

func (c *Client) Menu(ctx context.Context, sess *session.Context) ([]MenuItem, error) {
	var out []MenuItem
	err := c.do(ctx, sess, http.MethodGet, "/api/menu", nil, &out)
	return out, err
}

func (c *Client) Tables(ctx context.Context, sess *session.Context) ([]Table, error) {
	var out []Table
	err := c.do(ctx, sess, http.MethodGet, "/api/tables", nil, &out)
	return out, err
}

// PublicMenu serves the unauthenticated QR ordering page.
func (c *Client) PublicMenu(ctx context.Context, shopID string) (PublicMenu, error) {
	var out PublicMenu
	err := c.do(ctx, nil, http.MethodGet, "/api/public/menu?shopId="+url.QueryEscape(shopID), nil, &out)
	return out, err
}

// PublicCreateOrder places a QR order without an operator session.
func (c *Client) PublicCreateOrder(ctx context.Context, req CreateOrderRequest) (CreateOrderResponse, error) {
	var out CreateOrderResponse
	err := c.do(ctx, nil, http.MethodPost, "/api/public/order", req, &out)
	return out, err
}

func (c *Client) DashboardReport(ctx context.Context, sess *session.Context) (DashboardReport, error) {
	var out DashboardReport
	err := c.do(ctx, sess, http.MethodGet, "/api/reports/dashboard", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, sess *session.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Message: err.Error()}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return &TransportError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return session.ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := readErrorMessage(resp.Body)
		c.logger.Warn("upstream rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message),
		)
		return &TransportError{StatusCode: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{StatusCode: resp.StatusCode, Message: "malformed upstream response: " + err.Error()}
	}
	return nil
}

func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "no response body"
	}

	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
