package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/metrics"
	"github.com/nikolayk812/cart-checkout/internal/port"
	"github.com/nikolayk812/cart-checkout/internal/telemetry"
)

type CartService struct {
	carts   port.CartRepository
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewCartService(carts port.CartRepository, m *metrics.Metrics, logger *slog.Logger) *CartService {
	return &CartService{
		carts:   carts,
		metrics: m,
		logger:  logger,
	}
}

func (s *CartService) Get(ctx context.Context, ownerID string) (domain.Cart, error) {
	cart, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.carts.GetCart: %w", err)
	}

	return cart, nil
}

// Add puts quantity of the product into the cart, incrementing an existing line.
func (s *CartService) Add(ctx context.Context, ownerID string, productID uuid.UUID, quantity int) (domain.CartLine, error) {
	line := domain.LineInput{ProductID: productID, Quantity: quantity}
	if err := line.Validate(); err != nil {
		return domain.CartLine{}, err
	}

	added, err := s.carts.AddItem(ctx, ownerID, line)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("s.carts.AddItem: %w", err)
	}

	return added, nil
}

func (s *CartService) Update(ctx context.Context, ownerID string, lineID uuid.UUID, quantity int) (domain.CartLine, error) {
	if quantity <= 0 {
		return domain.CartLine{}, fmt.Errorf("quantity[%d] must be positive: %w", quantity, domain.ErrValidation)
	}

	updated, err := s.carts.UpdateQuantity(ctx, ownerID, lineID, quantity)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("s.carts.UpdateQuantity: %w", err)
	}

	return updated, nil
}

func (s *CartService) Remove(ctx context.Context, ownerID string, lineID uuid.UUID) error {
	deleted, err := s.carts.DeleteItem(ctx, ownerID, lineID)
	if err != nil {
		return fmt.Errorf("s.carts.DeleteItem: %w", err)
	}
	if !deleted {
		return fmt.Errorf("cart line[%s]: %w", lineID, domain.ErrNotFound)
	}

	return nil
}

// Replace swaps the whole cart for lines; on any failure the cart is left as it was.
func (s *CartService) Replace(ctx context.Context, ownerID string, lines []domain.LineInput) (domain.Cart, error) {
	if err := s.carts.ReplaceCart(ctx, ownerID, lines); err != nil {
		return domain.Cart{}, fmt.Errorf("s.carts.ReplaceCart: %w", err)
	}

	return s.Get(ctx, ownerID)
}

func (s *CartService) Clear(ctx context.Context, ownerID string) error {
	if _, err := s.carts.ClearCart(ctx, ownerID); err != nil {
		return fmt.Errorf("s.carts.ClearCart: %w", err)
	}

	return nil
}

// Merge folds the anonymous cart into the owner's cart once after login.
// Lines already on the server keep their quantity.
func (s *CartService) Merge(ctx context.Context, ownerID string, anonymous domain.AnonymousCart) (domain.MergeResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "CartService.Merge")
	defer span.End()

	entries, skipped := anonymous.Entries()

	result, err := s.carts.MergeCart(ctx, ownerID, entries)
	if err != nil {
		return domain.MergeResult{}, fmt.Errorf("s.carts.MergeCart: %w", err)
	}
	result.Skipped += skipped

	s.metrics.Merged(result)
	s.logger.InfoContext(ctx, "anonymous cart merged",
		slog.String("owner_id", ownerID),
		slog.Int("inserted", result.Inserted),
		slog.Int("kept", result.Kept),
		slog.Int("skipped", result.Skipped))

	return result, nil
}
