package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/db"
	"github.com/nikolayk812/cart-checkout/internal/domain"
)

const topicOrderCreated = "order.created"

// orderCreatedEvent is written to the outbox in the order's transaction; relaying it is left to a separate process.
type orderCreatedEvent struct {
	OrderID   uuid.UUID          `json:"order_id"`
	OwnerID   string             `json:"owner_id"`
	Total     string             `json:"total"`
	Currency  string             `json:"currency"`
	Status    string             `json:"status"`
	Items     []orderCreatedItem `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
}

type orderCreatedItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
}

func insertOrderCreatedEvent(ctx context.Context, q *db.Queries, order domain.Order) error {
	event := orderCreatedEvent{
		OrderID:   order.ID,
		OwnerID:   order.OwnerID,
		Total:     order.Total.Amount.StringFixed(2),
		Currency:  order.Total.Currency.String(),
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, orderCreatedItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Amount.StringFixed(2),
		})
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	err = q.InsertOutboxEvent(ctx, db.InsertOutboxEventParams{
		EventID: uuid.New(),
		Topic:   topicOrderCreated,
		Key:     order.ID.String(),
		Payload: payload,
	})
	if err != nil {
		return translate(fmt.Errorf("q.InsertOutboxEvent: %w", err))
	}

	return nil
}
