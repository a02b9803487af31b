package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderTransitions is the forward-only status machine.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := orderTransitions[status]; !ok {
		return "", fmt.Errorf("order status[%s] is not valid: %w", s, ErrValidation)
	}

	return status, nil
}

func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	return slices.Contains(orderTransitions[s], to)
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// Predecessors lists the statuses an order may move to `to` from.
func (s OrderStatus) Predecessors() []OrderStatus {
	var from []OrderStatus
	for _, candidate := range []OrderStatus{OrderStatusPending, OrderStatusPaid, OrderStatusCompleted, OrderStatusCancelled} {
		if candidate.CanTransitionTo(s) {
			from = append(from, candidate)
		}
	}

	return from
}

type Order struct {
	ID               uuid.UUID
	OwnerID          string
	Total            Money
	Status           OrderStatus
	PaymentReference string
	IdempotencyKey   string
	Items            []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem carries the unit price paid at checkout, independent of later catalog changes.
type OrderItem struct {
	ProductID uuid.UUID
	Name      string
	ImageURL  string
	Quantity  int
	UnitPrice Money

	CreatedAt time.Time
}

func (o Order) ItemsTotal() (Money, error) {
	amounts := make([]Money, 0, len(o.Items))
	for _, item := range o.Items {
		amounts = append(amounts, item.UnitPrice.Mul(item.Quantity))
	}

	return Sum(amounts...)
}

// NewOrder is the input for recording an order together with its items.
type NewOrder struct {
	OwnerID          string
	Status           OrderStatus
	Total            Money
	PaymentReference string
	IdempotencyKey   string
	Items            []NewOrderItem
}

type NewOrderItem struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice Money
}
