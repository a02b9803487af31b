package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
)

const maxListLimit = 500

type OrderService struct {
	orders          port.OrderRepository
	reconciliations port.ReconciliationRepository
	logger          *slog.Logger
}

func NewOrderService(orders port.OrderRepository, reconciliations port.ReconciliationRepository, logger *slog.Logger) *OrderService {
	return &OrderService{
		orders:          orders,
		reconciliations: reconciliations,
		logger:          logger,
	}
}

func (s *OrderService) ListForOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	orders, err := s.orders.ListOrdersForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("s.orders.ListOrdersForOwner: %w", err)
	}

	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.GetOrderForOwner(ctx, ownerID, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.orders.GetOrderForOwner: %w", err)
	}

	return order, nil
}

// ListAll is the privileged listing across owners.
func (s *OrderService) ListAll(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	if limit > maxListLimit {
		limit = maxListLimit
	}

	orders, err := s.orders.ListOrders(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("s.orders.ListOrders: %w", err)
	}

	return orders, nil
}

func (s *OrderService) Transition(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (domain.Order, error) {
	if _, err := domain.ParseOrderStatus(string(to)); err != nil {
		return domain.Order{}, fmt.Errorf("domain.ParseOrderStatus: %w", err)
	}

	order, err := s.orders.TransitionStatus(ctx, orderID, to)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.orders.TransitionStatus: %w", err)
	}

	s.logger.InfoContext(ctx, "order status changed",
		slog.String("order_id", orderID.String()),
		slog.String("status", string(order.Status)))

	return order, nil
}

// Cancel lets an owner cancel their own order while it is still pending or paid.
func (s *OrderService) Cancel(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error) {
	if _, err := s.Get(ctx, ownerID, orderID); err != nil {
		return domain.Order{}, err
	}

	return s.Transition(ctx, orderID, domain.OrderStatusCancelled)
}

func (s *OrderService) Reconciliations(ctx context.Context) ([]domain.Reconciliation, error) {
	recs, err := s.reconciliations.ListUnresolved(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.reconciliations.ListUnresolved: %w", err)
	}

	return recs, nil
}
