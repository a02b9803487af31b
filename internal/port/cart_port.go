package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
)

type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)
	AddItem(ctx context.Context, ownerID string, line domain.LineInput) (domain.CartLine, error)
	UpdateQuantity(ctx context.Context, ownerID string, lineID uuid.UUID, quantity int) (domain.CartLine, error)
	DeleteItem(ctx context.Context, ownerID string, lineID uuid.UUID) (bool, error)
	ReplaceCart(ctx context.Context, ownerID string, lines []domain.LineInput) error
	ClearCart(ctx context.Context, ownerID string) (int64, error)
	MergeCart(ctx context.Context, ownerID string, entries []domain.LineInput) (domain.MergeResult, error)
}
