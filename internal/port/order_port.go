package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
)

type OrderRepository interface {
	// CreateOrder decrements stock and records the order with its items in one transaction.
	// An order already recorded under the same idempotency key is returned with replayed set.
	CreateOrder(ctx context.Context, order domain.NewOrder) (_ domain.Order, replayed bool, _ error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	GetOrderForOwner(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, key string) (domain.Order, error)
	ListOrdersForOwner(ctx context.Context, ownerID string) ([]domain.Order, error)
	ListOrders(ctx context.Context, limit, offset int) ([]domain.Order, error)
	TransitionStatus(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (domain.Order, error)
}
