package httpapi

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
)

type CartService interface {
	Get(ctx context.Context, ownerID string) (domain.Cart, error)
	Add(ctx context.Context, ownerID string, productID uuid.UUID, quantity int) (domain.CartLine, error)
	Update(ctx context.Context, ownerID string, lineID uuid.UUID, quantity int) (domain.CartLine, error)
	Remove(ctx context.Context, ownerID string, lineID uuid.UUID) error
	Replace(ctx context.Context, ownerID string, lines []domain.LineInput) (domain.Cart, error)
	Clear(ctx context.Context, ownerID string) error
	Merge(ctx context.Context, ownerID string, anonymous domain.AnonymousCart) (domain.MergeResult, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, ownerID string, credential domain.PaymentCredential, token string) (domain.CheckoutResult, error)
}

type ConfirmationService interface {
	Confirm(ctx context.Context, ownerID string, items []domain.LineInput, token string) (domain.ConfirmationResult, error)
}

type OrderService interface {
	ListForOwner(ctx context.Context, ownerID string) ([]domain.Order, error)
	Get(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Order, error)
	Transition(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (domain.Order, error)
	Cancel(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error)
	Reconciliations(ctx context.Context) ([]domain.Reconciliation, error)
}

type ProductCatalog interface {
	GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error)
}
