package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
)

// ProductRepository is read-only access to the catalog.
type ProductRepository interface {
	GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error)
	GetProducts(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error)
}
