// Package kds serves the kitchen display: the subset of active orders that
// still has lines in flight toward the pass.
package kds

import (
	"context"

	"dinedesk-pos-service/internal/order"
	"dinedesk-pos-service/internal/session"
	"dinedesk-pos-service/internal/upstream"

	"go.uber.org/zap"
)

// TicketItem is one line on a kitchen ticket.
type TicketItem struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Quantity int              `json:"quantity"`
	Status   order.ItemStatus `json:"status"`
}

// Ticket is a kitchen-facing view of an order. Lines that are still being
// composed at the terminal or already handed off never appear on it.
type Ticket struct {
	OrderID     string       `json:"orderId"`
	OrderNumber string       `json:"orderNumber,omitempty"`
	KOTNumber   int          `json:"kotNumber,omitempty"`
	OrderType   string       `json:"orderType"`
	TableName   string       `json:"tableName,omitempty"`
	Items       []TicketItem `json:"items"`
}

type Service struct {
	client *upstream.Client
	logger *zap.Logger
}

func NewService(client *upstream.Client, logger *zap.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Tickets fetches the kitchen queue and narrows it to lines the kitchen
// actually works: Placed, Sent to Kitchen and Preparing. Orders whose every
// line is outside that window drop out entirely.
func (s *Service) Tickets(ctx context.Context, sess *session.Context) ([]Ticket, error) {
	orders, err := s.client.KitchenOrders(ctx, sess)
	if err != nil {
		return nil, err
	}
	return BuildTickets(orders), nil
}

func BuildTickets(orders []upstream.Order) []Ticket {
	tickets := make([]Ticket, 0, len(orders))
	for _, o := range orders {
		ticket := Ticket{
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			KOTNumber:   o.KOTNumber,
			OrderType:   o.OrderType,
		}
		if o.Table != nil {
			ticket.TableName = o.Table.Name
		}
		for _, item := range o.Items {
			status, err := order.ParseItemStatus(item.Status)
			if err != nil || !status.NeedsKitchen() {
				continue
			}
			ticket.Items = append(ticket.Items, TicketItem{
				ID:       item.ID,
				Name:     item.Name,
				Quantity: item.Quantity,
				Status:   status,
			})
		}
		if len(ticket.Items) > 0 {
			tickets = append(tickets, ticket)
		}
	}
	return tickets
}

// AdvanceItem moves one ticket line a single step along its progression. The
// current status is re-read from the kitchen queue, never taken from the
// caller, and nothing is assumed done until the persistence service accepts
// the update.
func (s *Service) AdvanceItem(ctx context.Context, sess *session.Context, orderID, itemID string) (order.ItemStatus, error) {
	tickets, err := s.Tickets(ctx, sess)
	if err != nil {
		return 0, err
	}

	for _, ticket := range tickets {
		if ticket.OrderID != orderID {
			continue
		}
		for _, item := range ticket.Items {
			if item.ID != itemID {
				continue
			}
			next, ok := item.Status.Advance()
			if !ok {
				return 0, order.StateConflictError(item.Name + " cannot advance past " + item.Status.String())
			}
			if err := s.client.UpdateItemStatus(ctx, sess, orderID, itemID, next.String()); err != nil {
				return 0, err
			}
			s.logger.Info("ticket item advanced",
				zap.String("orderId", orderID),
				zap.String("itemId", itemID),
				zap.String("status", next.String()))
			return next, nil
		}
	}
	return 0, order.LineNotFoundError(itemID)
}
